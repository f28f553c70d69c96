package chatbot

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
)

// DefaultSystemInstruction is the general-purpose persona used when no other
// instruction is configured.
//
//go:embed prompts/default-system.md
var DefaultSystemInstruction string

// RenderSystemInstruction executes instruction as a text/template with the sprig
// function map. Text without actions renders unchanged.
func RenderSystemInstruction(instruction string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New("system").Funcs(sprig.TxtFuncMap()).Parse(instruction)
	if err != nil {
		return "", errors.Wrap(err, "could not parse system instruction")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "could not render system instruction")
	}
	return buf.String(), nil
}
