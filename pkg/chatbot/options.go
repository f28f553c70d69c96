package chatbot

import (
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/pkg/errors"
)

type ManagerOption func(*Manager) error

// WithEngine sets the engine used for every Send. It takes precedence over WithStepSettings.
func WithEngine(e engine.Engine) ManagerOption {
	return func(m *Manager) error {
		if e == nil {
			return errors.New("engine cannot be nil")
		}
		m.engine = e
		return nil
	}
}

// WithStepSettings makes the manager build its engine from stepSettings.
func WithStepSettings(stepSettings *settings.StepSettings) ManagerOption {
	return func(m *Manager) error {
		if stepSettings == nil {
			return settings.ErrMissingSettings
		}
		m.stepSettings = stepSettings
		return nil
	}
}

// WithEventSink adds a sink receiving the inference events of every Send.
func WithEventSink(sink events.EventSink) ManagerOption {
	return func(m *Manager) error {
		m.sinks = append(m.sinks, sink)
		return nil
	}
}

func WithDefaultSession(id string) ManagerOption {
	return func(m *Manager) error {
		if id == "" {
			return errors.New("default session id cannot be empty")
		}
		m.currentSession = id
		return nil
	}
}

// WithTemplateData sets the values available to the system instruction template.
func WithTemplateData(data map[string]interface{}) ManagerOption {
	return func(m *Manager) error {
		for k, v := range data {
			m.templateData[k] = v
		}
		return nil
	}
}

// WithRawSystemInstruction uses the system instruction verbatim, so literal "{{" is kept as text.
func WithRawSystemInstruction() ManagerOption {
	return func(m *Manager) error {
		m.rawSystem = true
		return nil
	}
}
