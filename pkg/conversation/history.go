package conversation

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// History is the ordered, append-only (but clearable) record of turns for one session.
//
// The zero value is an empty history ready to use.
type History struct {
	mu    sync.Mutex
	turns []Turn
}

func NewHistory() *History {
	return &History{}
}

// Append adds turns to the end of the history, in order.
func (h *History) Append(turns ...Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turns...)
	log.Trace().
		Int("appended", len(turns)).
		Int("len", len(h.turns)).
		Msg("history append")
}

// Clear resets the history to empty.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Turns returns a copy of the ordered turns. Callers can't mutate the history through it.
func (h *History) Turns() Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()
	ret := make(Conversation, len(h.turns))
	copy(ret, h.turns)
	return ret
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Last returns the most recent turn, if any.
func (h *History) Last() (Turn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.turns) == 0 {
		return Turn{}, false
	}
	return h.turns[len(h.turns)-1], true
}
