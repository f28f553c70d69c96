package factory

import (
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/spf13/viper"
)

// NewEngineFromStepSettings creates an engine with a StandardEngineFactory.
func NewEngineFromStepSettings(stepSettings *settings.StepSettings, options ...engine.Option) (engine.Engine, error) {
	factory := NewStandardEngineFactory()
	return factory.CreateEngine(stepSettings, options...)
}

// NewEngineFromViper starts from the default step settings, applies every key set in v
// and creates the engine.
func NewEngineFromViper(v *viper.Viper, options ...engine.Option) (engine.Engine, *settings.StepSettings, error) {
	stepSettings := settings.NewStepSettings()
	if err := stepSettings.UpdateFromViper(v); err != nil {
		return nil, nil, err
	}

	e, err := NewEngineFromStepSettings(stepSettings, options...)
	if err != nil {
		return nil, nil, err
	}
	return e, stepSettings, nil
}
