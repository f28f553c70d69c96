package chatbot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/conversation"
	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine/factory"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultSessionID = "default"

// Manager keeps any number of independent conversations, keyed by session id, in
// front of a single engine. Every Send prepends the system instruction to the
// session's history and records both sides of the exchange.
//
// An empty session id passed to any method means the current session.
// A Manager is not meant to be driven by several callers at once.
type Manager struct {
	engine       engine.Engine
	stepSettings *settings.StepSettings
	sinks        []events.EventSink
	templateData map[string]interface{}
	rawSystem    bool

	systemInstruction string
	registry          *conversation.Registry

	mu             sync.Mutex
	currentSession string
}

// NewManager builds the engine and renders the system instruction. Failing to build
// an engine, for example because no API key is configured, is an error.
func NewManager(systemInstruction string, options ...ManagerOption) (*Manager, error) {
	m := &Manager{
		templateData:   map[string]interface{}{},
		registry:       conversation.NewRegistry(),
		currentSession: DefaultSessionID,
	}
	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}

	if m.engine == nil {
		stepSettings := m.stepSettings
		if stepSettings == nil {
			stepSettings = settings.NewStepSettings()
		}
		e, err := factory.NewEngineFromStepSettings(stepSettings)
		if err != nil {
			return nil, errors.Wrap(err, "could not create engine")
		}
		m.engine = e
	}

	if _, ok := m.templateData["Model"]; !ok {
		m.templateData["Model"] = m.Model()
	}
	if _, ok := m.templateData["Date"]; !ok {
		m.templateData["Date"] = time.Now().Format("2006-01-02")
	}
	rendered := systemInstruction
	if !m.rawSystem {
		var err error
		rendered, err = RenderSystemInstruction(systemInstruction, m.templateData)
		if err != nil {
			return nil, err
		}
	}
	m.systemInstruction = rendered

	log.Debug().
		Str("model", m.Model()).
		Str("session", m.currentSession).
		Int("system_len", len(rendered)).
		Msg("chat manager created")

	return m, nil
}

func (m *Manager) resolve(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	return m.CurrentSession()
}

// Send sends message in the context of the session's history and returns the reply.
// Engine failures come back as "Error: <description>" and are recorded in the
// history like any other reply.
func (m *Manager) Send(ctx context.Context, message string, sessionID string) string {
	id := m.resolve(sessionID)
	history := m.registry.GetOrCreate(id)

	prompt := builder.Build(m.systemInstruction, history.Turns(), message)
	log.Trace().Str("session", id).Str("prompt", prompt.String()).Msg("sending prompt")

	ctx = events.WithSessionID(ctx, id)
	ctx = events.WithEventSinks(ctx, m.sinks...)
	res := m.engine.RunInference(ctx, prompt)

	history.Append(prompt.Input, conversation.NewAssistantTurn(res.Text()))

	ev := log.Debug().
		Str("session", id).
		Bool("fault", res.IsFault()).
		Int("history_len", history.Len())
	if res.Metadata != nil && res.Metadata.Usage != nil {
		ev = ev.Int("input_tokens", res.Metadata.Usage.InputTokens).
			Int("output_tokens", res.Metadata.Usage.OutputTokens)
	}
	ev.Msg("send finished")

	return res.Text()
}

// SwitchSession makes id the current session, creating it if needed.
func (m *Manager) SwitchSession(id string) string {
	m.registry.GetOrCreate(id)
	m.mu.Lock()
	m.currentSession = id
	m.mu.Unlock()
	return fmt.Sprintf("Switched to session: %s", id)
}

func (m *Manager) CurrentSession() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentSession
}

// History returns a copy of the session's turns. Like Send, it registers an unknown session.
func (m *Manager) History(sessionID string) conversation.Conversation {
	return m.registry.GetOrCreate(m.resolve(sessionID)).Turns()
}

// Turns returns a copy of the session's turns without registering the session.
// An unknown session has no turns.
func (m *Manager) Turns(sessionID string) conversation.Conversation {
	h, ok := m.registry.Get(m.resolve(sessionID))
	if !ok {
		return conversation.Conversation{}
	}
	return h.Turns()
}

// ClearSession empties the session's history. Unknown sessions are left alone.
func (m *Manager) ClearSession(sessionID string) {
	id := m.resolve(sessionID)
	if h, ok := m.registry.Get(id); ok {
		h.Clear()
		log.Debug().Str("session", id).Msg("cleared session")
	}
}

// ListSessions returns every known session id in creation order.
func (m *Manager) ListSessions() []string {
	return m.registry.IDs()
}

// Summarize describes the session without creating it.
func (m *Manager) Summarize(sessionID string) string {
	id := m.resolve(sessionID)
	h, ok := m.registry.Get(id)
	if !ok {
		return fmt.Sprintf("Session %s not found", id)
	}
	return fmt.Sprintf("Session '%s': %d messages", id, h.Len())
}

func (m *Manager) Exists(sessionID string) bool {
	return m.registry.Exists(m.resolve(sessionID))
}

func (m *Manager) SystemInstruction() string {
	return m.systemInstruction
}

// Model returns the engine's model, or "" when the engine doesn't report one.
func (m *Manager) Model() string {
	if r, ok := m.engine.(engine.ModelReporter); ok {
		return r.Model()
	}
	return ""
}
