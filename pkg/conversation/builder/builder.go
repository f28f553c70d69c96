package builder

import (
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/conversation"
)

// Prompt is a model-ready request: the system instruction, the prior turns of a
// session in order, and the new user turn last.
type Prompt struct {
	System  conversation.Turn
	History conversation.Conversation
	Input   conversation.Turn
}

// Build assembles a Prompt. It is a pure function of its inputs; the history is copied
// and an empty message is passed through as is.
func Build(systemInstruction string, history conversation.Conversation, message string) Prompt {
	h := make(conversation.Conversation, len(history))
	copy(h, history)

	return Prompt{
		System:  conversation.NewTurn(conversation.RoleSystem, systemInstruction),
		History: h,
		Input:   conversation.NewUserTurn(message),
	}
}

// Messages returns the prompt flattened to [system, ...history, input].
func (p Prompt) Messages() conversation.Conversation {
	ret := make(conversation.Conversation, 0, len(p.History)+2)
	ret = append(ret, p.System)
	ret = append(ret, p.History...)
	ret = append(ret, p.Input)
	return ret
}

func (p Prompt) Len() int {
	return len(p.History) + 2
}

func (p Prompt) String() string {
	var sb strings.Builder
	for _, m := range p.Messages() {
		sb.WriteString(m.View())
		sb.WriteString("\n")
	}
	return sb.String()
}
