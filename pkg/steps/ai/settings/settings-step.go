package settings

import (
	"io"
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrUnknownModel    = errors.New("unknown model")
	ErrUnknownApiType  = errors.New("unknown api type")
	ErrMissingSettings = errors.New("missing settings")
)

// Viper keys, which double as command line flag names.
const (
	KeyApiType           = "ai-api-type"
	KeyEngine            = "ai-engine"
	KeyTemperature       = "ai-temperature"
	KeyMaxResponseTokens = "ai-max-response-tokens"
	KeyTimeout           = "timeout"
	KeyUserAgent         = "user-agent"
)

type factoryConfigFileWrapper struct {
	Factories *StepSettings
}

type StepSettings struct {
	Chat   *ChatSettings   `yaml:"chat,omitempty"`
	Client *ClientSettings `yaml:"client,omitempty"`
	API    *APISettings    `yaml:"api,omitempty"`
}

func NewStepSettings() *StepSettings {
	return &StepSettings{
		Chat:   NewChatSettings(),
		Client: NewClientSettings(),
		API:    NewAPISettings(),
	}
}

// NewStepSettingsFromYAML reads a profile of the form
//
//	factories:
//	  chat:
//	    engine: llama3-70b-8192
//	  api:
//	    api_keys:
//	      groq-api-key: ...
//
// Missing sections keep their defaults.
func NewStepSettingsFromYAML(s io.Reader) (*StepSettings, error) {
	settings_ := factoryConfigFileWrapper{
		Factories: NewStepSettings(),
	}
	if err := yaml.NewDecoder(s).Decode(&settings_); err != nil {
		return nil, errors.Wrap(err, "could not decode step settings")
	}
	if settings_.Factories == nil {
		return NewStepSettings(), nil
	}

	return settings_.Factories, nil
}

// UpdateFromViper overrides the settings with every key set in v.
func (ss *StepSettings) UpdateFromViper(v *viper.Viper) error {
	if ss.Chat == nil || ss.Client == nil || ss.API == nil {
		return ErrMissingSettings
	}

	if v.IsSet(KeyApiType) {
		apiType := types.ApiType(strings.ToLower(v.GetString(KeyApiType)))
		ss.Chat.ApiType = &apiType
	}
	if v.IsSet(KeyEngine) {
		engine := v.GetString(KeyEngine)
		ss.Chat.Engine = &engine
	}
	if v.IsSet(KeyTemperature) {
		temperature := v.GetFloat64(KeyTemperature)
		ss.Chat.Temperature = &temperature
	}
	if v.IsSet(KeyMaxResponseTokens) {
		maxTokens := v.GetInt(KeyMaxResponseTokens)
		ss.Chat.MaxResponseTokens = &maxTokens
	}
	if v.IsSet(KeyTimeout) {
		ss.Client.SetTimeoutSeconds(v.GetInt(KeyTimeout))
	}
	if v.IsSet(KeyUserAgent) {
		userAgent := v.GetString(KeyUserAgent)
		ss.Client.UserAgent = &userAgent
	}

	apiType := ss.Chat.GetApiType()
	if key := APIKeyKey(apiType); v.IsSet(key) && v.GetString(key) != "" {
		ss.API.SetAPIKey(apiType, v.GetString(key))
	}
	if key := APIBaseURLKey(apiType); v.IsSet(key) && v.GetString(key) != "" {
		ss.API.SetBaseURL(apiType, v.GetString(key))
	}

	return nil
}

// Validate checks that an engine can be built from these settings.
func (ss *StepSettings) Validate() error {
	if ss == nil || ss.Chat == nil || ss.API == nil {
		return ErrMissingSettings
	}

	switch apiType := ss.Chat.GetApiType(); apiType {
	case types.ApiTypeGroq:
		if strings.TrimSpace(ss.API.GetAPIKey(apiType)) == "" {
			return errors.Wrapf(ErrMissingAPIKey, "%s", APIKeyKey(apiType))
		}
		if !IsAllowedModel(ss.Chat.GetEngine()) {
			return errors.Wrapf(ErrUnknownModel, "%q (allowed: %s)",
				ss.Chat.GetEngine(), strings.Join(AllowedModels, ", "))
		}
	case types.ApiTypeEcho:
	default:
		return errors.Wrapf(ErrUnknownApiType, "%q", apiType)
	}

	return nil
}

// GetMetadata returns the non-secret settings, for logging and event metadata.
func (ss *StepSettings) GetMetadata() map[string]interface{} {
	metadata := make(map[string]interface{})

	if ss.Chat != nil {
		metadata[KeyApiType] = string(ss.Chat.GetApiType())
		metadata[KeyEngine] = ss.Chat.GetEngine()
		metadata[KeyTemperature] = ss.Chat.GetTemperature()
		metadata[KeyMaxResponseTokens] = ss.Chat.GetMaxResponseTokens()
	}

	if ss.Client != nil {
		metadata[KeyTimeout] = ss.Client.GetTimeout().String()
		if ss.Client.UserAgent != nil {
			metadata[KeyUserAgent] = *ss.Client.UserAgent
		}
	}

	if ss.API != nil && ss.Chat != nil {
		if url := ss.API.GetBaseURL(ss.Chat.GetApiType()); url != "" {
			metadata[APIBaseURLKey(ss.Chat.GetApiType())] = url
		}
	}

	return metadata
}

func (ss *StepSettings) Clone() *StepSettings {
	ret := &StepSettings{}
	if ss.Chat != nil {
		ret.Chat = ss.Chat.Clone()
	}
	if ss.Client != nil {
		ret.Client = ss.Client.Clone()
	}
	if ss.API != nil {
		ret.API = ss.API.Clone()
	}
	return ret
}
