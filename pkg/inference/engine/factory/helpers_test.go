package factory

import (
	"testing"

	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineFromViper(t *testing.T) {
	v := viper.New()
	v.Set(settings.KeyApiType, "groq")
	v.Set("groq-api-key", "gsk_test")
	v.Set(settings.KeyEngine, settings.ModelLlama3_70B)

	e, s, err := NewEngineFromViper(v)
	require.NoError(t, err)
	reporter, ok := e.(engine.ModelReporter)
	require.True(t, ok)
	assert.Equal(t, settings.ModelLlama3_70B, reporter.Model())
	assert.Equal(t, "gsk_test", s.API.GetAPIKey("groq"))
}

func TestNewEngineFromViperRejectsUnknownModel(t *testing.T) {
	v := viper.New()
	v.Set("groq-api-key", "gsk_test")
	v.Set(settings.KeyEngine, "gpt-4")

	_, _, err := NewEngineFromViper(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, settings.ErrUnknownModel)
}

func TestNewEngineFromViperEcho(t *testing.T) {
	v := viper.New()
	v.Set(settings.KeyApiType, "echo")

	e, _, err := NewEngineFromViper(v)
	require.NoError(t, err)
	require.NotNil(t, e)
}
