package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/go-go-golems/sessionbot/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testTurns() conversation.Conversation {
	return conversation.Conversation{
		conversation.NewUserTurn("hi"),
		conversation.NewAssistantTurn("Hello! How can I help?"),
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "default", testTurns(), FormatText))
	assert.Equal(t, "User: hi\nAssistant: Hello! How can I help?", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "work", testTurns(), FormatJSON))

	var tr transcript
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tr))
	assert.Equal(t, "work", tr.Session)
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, "assistant", tr.Turns[1].Role)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "work", testTurns(), FormatYAML))

	var tr transcript
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &tr))
	require.Len(t, tr.Turns, 2)
	assert.Equal(t, "hi", tr.Turns[0].Text)
}

func TestWriteEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "default", nil, FormatText)
	assert.True(t, errors.Is(err, ErrEmptyHistory))
	assert.Zero(t, buf.Len())
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "default", testTurns(), Format("pdf"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":     FormatText,
		"txt":  FormatText,
		"TEXT": FormatText,
		"json": FormatJSON,
		"yml":  FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "chat_history_default.txt", FileName("default", FormatText))
	assert.Equal(t, "chat_history_my_project.json", FileName("My Project", FormatJSON))
	assert.Equal(t, "chat_history_a_b.yaml", FileName("a/b", FormatYAML))
	assert.Equal(t, "chat_history_session.txt", FileName("../", FormatText))
}
