package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Title returns the capitalized role name, as used in exported transcripts.
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

type TurnID uuid.UUID

func (id TurnID) String() string {
	return uuid.UUID(id).String()
}

func (id TurnID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *TurnID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// Turn is a single message exchanged in a conversation.
// Turns are values and are never modified once appended to a History.
type Turn struct {
	ID   TurnID    `json:"id" yaml:"id"`
	Role Role      `json:"role" yaml:"role"`
	Text string    `json:"text" yaml:"text"`
	Time time.Time `json:"time" yaml:"time"`
}

type TurnOption func(*Turn)

func WithTime(t time.Time) TurnOption {
	return func(turn *Turn) {
		turn.Time = t
	}
}

func WithID(id TurnID) TurnOption {
	return func(turn *Turn) {
		turn.ID = id
	}
}

func NewTurn(role Role, text string, options ...TurnOption) Turn {
	ret := Turn{
		ID:   TurnID(uuid.New()),
		Role: role,
		Text: text,
		Time: time.Now(),
	}
	for _, option := range options {
		option(&ret)
	}
	return ret
}

func NewUserTurn(text string, options ...TurnOption) Turn {
	return NewTurn(RoleUser, text, options...)
}

func NewAssistantTurn(text string, options ...TurnOption) Turn {
	return NewTurn(RoleAssistant, text, options...)
}

func (t Turn) String() string {
	return t.Text
}

// View renders the turn as a single "[role]: text" block.
func (t Turn) View() string {
	text := t.Text
	// If we are markdown, add a newline so that it becomes valid markdown to parse.
	if strings.HasPrefix(text, "```") {
		text = "\n" + text
	}
	return fmt.Sprintf("[%s]: %s", t.Role, strings.TrimRight(text, "\n"))
}

type Conversation []Turn

// GetSinglePrompt concatenates all the turns together, one "[role]: text" line each.
func (turns Conversation) GetSinglePrompt() string {
	if len(turns) == 0 {
		return ""
	}
	if len(turns) == 1 {
		return turns[0].Text
	}

	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(fmt.Sprintf("[%s]: %s\n", t.Role, t.Text))
	}
	return sb.String()
}
