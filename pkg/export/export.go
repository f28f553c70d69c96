package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/conversation"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrEmptyHistory  = errors.New("no chat history to export")
	ErrUnknownFormat = errors.New("unknown export format")
)

var Formats = []Format{FormatText, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "txt"
	}
}

// FileName returns chat_history_<session>.<ext>, with the session id reduced to
// characters that are safe in a file name.
func FileName(sessionID string, format Format) string {
	slug := strcase.ToSnake(sessionID)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, slug)
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "session"
	}
	return fmt.Sprintf("chat_history_%s.%s", slug, format.Extension())
}

type transcript struct {
	Session    string            `json:"session" yaml:"session"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Turns      []transcriptEntry `json:"turns" yaml:"turns"`
}

type transcriptEntry struct {
	Role string    `json:"role" yaml:"role"`
	Text string    `json:"text" yaml:"text"`
	Time time.Time `json:"time" yaml:"time"`
}

// Write renders the session's turns to w. The text format is one
// "<Role>: <text>" entry per turn, joined by newlines.
func Write(w io.Writer, sessionID string, turns conversation.Conversation, format Format) error {
	if len(turns) == 0 {
		return ErrEmptyHistory
	}

	switch format {
	case FormatText:
		lines := make([]string, 0, len(turns))
		for _, t := range turns {
			lines = append(lines, fmt.Sprintf("%s: %s", t.Role.Title(), t.Text))
		}
		_, err := io.WriteString(w, strings.Join(lines, "\n"))
		return err

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newTranscript(sessionID, turns))

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newTranscript(sessionID, turns)); err != nil {
			return errors.Wrap(err, "could not encode transcript")
		}
		return enc.Close()

	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func newTranscript(sessionID string, turns conversation.Conversation) transcript {
	ret := transcript{
		Session:    sessionID,
		ExportedAt: time.Now(),
		Turns:      make([]transcriptEntry, 0, len(turns)),
	}
	for _, t := range turns {
		ret.Turns = append(ret.Turns, transcriptEntry{Role: string(t.Role), Text: t.Text, Time: t.Time})
	}
	return ret
}
