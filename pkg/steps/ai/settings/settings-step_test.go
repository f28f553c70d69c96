package settings

import (
	"strings"
	"testing"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepSettingsDefaults(t *testing.T) {
	s := NewStepSettings()
	assert.Equal(t, types.ApiTypeGroq, s.Chat.GetApiType())
	assert.Equal(t, "llama3-8b-8192", s.Chat.GetEngine())
	assert.Equal(t, 0.7, s.Chat.GetTemperature())
	assert.Equal(t, 1000, s.Chat.GetMaxResponseTokens())
	assert.Equal(t, 60*time.Second, s.Client.GetTimeout())
	assert.Equal(t, DefaultGroqBaseURL, s.API.GetBaseURL(types.ApiTypeGroq))
}

func TestValidateMissingAPIKey(t *testing.T) {
	s := NewStepSettings()
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))

	s.API.SetAPIKey(types.ApiTypeGroq, "   ")
	assert.True(t, errors.Is(s.Validate(), ErrMissingAPIKey))

	s.API.SetAPIKey(types.ApiTypeGroq, "gsk_test")
	require.NoError(t, s.Validate())
}

func TestValidateUnknownModel(t *testing.T) {
	s := NewStepSettings()
	s.API.SetAPIKey(types.ApiTypeGroq, "gsk_test")
	engine := "gpt-4"
	s.Chat.Engine = &engine

	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownModel))
	assert.Contains(t, err.Error(), "mixtral-8x7b-32768")
}

func TestValidateEchoNeedsNoKey(t *testing.T) {
	s := NewStepSettings()
	echo := types.ApiTypeEcho
	s.Chat.ApiType = &echo
	require.NoError(t, s.Validate())

	bogus := types.ApiType("bogus")
	s.Chat.ApiType = &bogus
	assert.True(t, errors.Is(s.Validate(), ErrUnknownApiType))
}

func TestValidateNil(t *testing.T) {
	var s *StepSettings
	assert.True(t, errors.Is(s.Validate(), ErrMissingSettings))
}

func TestAllowedModels(t *testing.T) {
	require.Len(t, AllowedModels, 4)
	assert.Equal(t, DefaultModel, AllowedModels[0])
	assert.True(t, IsAllowedModel("gemma-7b-it"))
	assert.False(t, IsAllowedModel("Gemma-7b-it"))
}

func TestUpdateFromViper(t *testing.T) {
	v := viper.New()
	v.Set(KeyEngine, "llama3-70b-8192")
	v.Set(KeyTemperature, 0.2)
	v.Set(KeyMaxResponseTokens, 256)
	v.Set(KeyTimeout, 5)
	v.Set("groq-api-key", "gsk_from_viper")
	v.Set("groq-base-url", "http://localhost:1234/v1")

	s := NewStepSettings()
	require.NoError(t, s.UpdateFromViper(v))

	assert.Equal(t, "llama3-70b-8192", s.Chat.GetEngine())
	assert.Equal(t, 0.2, s.Chat.GetTemperature())
	assert.Equal(t, 256, s.Chat.GetMaxResponseTokens())
	assert.Equal(t, 5*time.Second, s.Client.GetTimeout())
	assert.Equal(t, "gsk_from_viper", s.API.GetAPIKey(types.ApiTypeGroq))
	assert.Equal(t, "http://localhost:1234/v1", s.API.GetBaseURL(types.ApiTypeGroq))
	require.NoError(t, s.Validate())
}

func TestUpdateFromViperKeepsDefaultsForUnsetKeys(t *testing.T) {
	s := NewStepSettings()
	require.NoError(t, s.UpdateFromViper(viper.New()))
	assert.Equal(t, DefaultModel, s.Chat.GetEngine())
	assert.Equal(t, "", s.API.GetAPIKey(types.ApiTypeGroq))
}

func TestNewStepSettingsFromYAML(t *testing.T) {
	in := `
factories:
  chat:
    engine: mixtral-8x7b-32768
    temperature: 0.1
  client:
    timeout: 10
  api:
    api_keys:
      groq-api-key: gsk_yaml
`
	s, err := NewStepSettingsFromYAML(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "mixtral-8x7b-32768", s.Chat.GetEngine())
	assert.Equal(t, 0.1, s.Chat.GetTemperature())
	// untouched defaults survive
	assert.Equal(t, 1000, s.Chat.GetMaxResponseTokens())
	assert.Equal(t, 10*time.Second, s.Client.GetTimeout())
	assert.Equal(t, "gsk_yaml", s.API.GetAPIKey(types.ApiTypeGroq))
}

func TestNewStepSettingsFromYAMLInvalid(t *testing.T) {
	_, err := NewStepSettingsFromYAML(strings.NewReader("factories: ["))
	require.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	s := NewStepSettings()
	s.API.SetAPIKey(types.ApiTypeGroq, "a")
	c := s.Clone()

	*c.Chat.Engine = "gemma-7b-it"
	c.API.SetAPIKey(types.ApiTypeGroq, "b")

	assert.Equal(t, DefaultModel, s.Chat.GetEngine())
	assert.Equal(t, "a", s.API.GetAPIKey(types.ApiTypeGroq))
}

func TestGetMetadataOmitsSecrets(t *testing.T) {
	s := NewStepSettings()
	s.API.SetAPIKey(types.ApiTypeGroq, "gsk_secret")
	md := s.GetMetadata()
	assert.Equal(t, DefaultModel, md[KeyEngine])
	for _, v := range md {
		assert.NotEqual(t, "gsk_secret", v)
	}
}
