package ui

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/sessionbot/pkg/chatbot"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ReplyMsg carries the text returned by a finished Send, reply or fault.
type ReplyMsg struct {
	SessionID string
	Text      string
}

// EventMsg forwards an inference event from the router into the program.
type EventMsg struct {
	Event events.Event
}

// ManagerBackend runs one Send at a time in the background of a bubbletea program.
type ManagerBackend struct {
	manager *chatbot.Manager

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewManagerBackend(manager *chatbot.Manager) *ManagerBackend {
	return &ManagerBackend{manager: manager}
}

// Start sends message to the current session. The returned command blocks until
// the manager answers and then yields a ReplyMsg.
func (b *ManagerBackend) Start(ctx context.Context, message string) (tea.Cmd, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return nil, errors.New("a message is already being answered")
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	session := b.manager.CurrentSession()

	return func() tea.Msg {
		text := b.manager.Send(ctx, message, session)

		b.mu.Lock()
		b.cancel = nil
		b.mu.Unlock()
		cancel()

		return ReplyMsg{SessionID: session, Text: text}
	}, nil
}

// Interrupt cancels the running Send. Its reply becomes a fault.
func (b *ManagerBackend) Interrupt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	} else {
		log.Debug().Msg("no message is being answered")
	}
}

func (b *ManagerBackend) IsFinished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancel == nil
}

// EventForwardFunc returns a router handler that hands every event to p.
func EventForwardFunc(p *tea.Program) events.EventHandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		p.Send(EventMsg{Event: e})
		return nil
	}
}

// RawEventForwardFunc is EventForwardFunc for handlers registered with AddHandler.
func RawEventForwardFunc(p *tea.Program) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		msg.Ack()

		e, err := events.NewEventFromJson(msg.Payload)
		if err != nil {
			return err
		}
		p.Send(EventMsg{Event: e})
		return nil
	}
}
