package settings

import (
	"github.com/go-go-golems/sessionbot/pkg/helpers"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/huandu/go-clone"
)

const (
	DefaultTemperature       = 0.7
	DefaultMaxResponseTokens = 1000
)

type ChatSettings struct {
	ApiType           *types.ApiType `yaml:"api_type,omitempty"`
	Engine            *string        `yaml:"engine,omitempty"`
	MaxResponseTokens *int           `yaml:"max_response_tokens,omitempty"`
	Temperature       *float64       `yaml:"temperature,omitempty"`
}

func NewChatSettings() *ChatSettings {
	apiType := types.ApiTypeGroq
	return &ChatSettings{
		ApiType:           &apiType,
		Engine:            helpers.StringPointer(DefaultModel),
		MaxResponseTokens: helpers.IntPointer(DefaultMaxResponseTokens),
		Temperature:       helpers.Float64Pointer(DefaultTemperature),
	}
}

func (s *ChatSettings) Clone() *ChatSettings {
	return clone.Clone(s).(*ChatSettings)
}

func (s *ChatSettings) GetApiType() types.ApiType {
	return helpers.Deref(s.ApiType, types.ApiTypeGroq)
}

func (s *ChatSettings) GetEngine() string {
	return helpers.Deref(s.Engine, DefaultModel)
}

func (s *ChatSettings) GetTemperature() float64 {
	return helpers.Deref(s.Temperature, DefaultTemperature)
}

func (s *ChatSettings) GetMaxResponseTokens() int {
	return helpers.Deref(s.MaxResponseTokens, DefaultMaxResponseTokens)
}

const AiChatSlug = "ai-chat"
