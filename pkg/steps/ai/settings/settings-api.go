package settings

import (
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/huandu/go-clone"
)

const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// APISettings holds credentials and endpoints, keyed "<api-type>-api-key" and "<api-type>-base-url".
type APISettings struct {
	APIKeys  map[string]string `yaml:"api_keys,omitempty"`
	BaseUrls map[string]string `yaml:"base_urls,omitempty"`
}

func NewAPISettings() *APISettings {
	return &APISettings{
		APIKeys: map[string]string{},
		BaseUrls: map[string]string{
			APIBaseURLKey(types.ApiTypeGroq): DefaultGroqBaseURL,
		},
	}
}

func APIKeyKey(apiType types.ApiType) string {
	return string(apiType) + "-api-key"
}

func APIBaseURLKey(apiType types.ApiType) string {
	return string(apiType) + "-base-url"
}

func (s *APISettings) GetAPIKey(apiType types.ApiType) string {
	return s.APIKeys[APIKeyKey(apiType)]
}

func (s *APISettings) SetAPIKey(apiType types.ApiType, key string) {
	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	s.APIKeys[APIKeyKey(apiType)] = key
}

func (s *APISettings) GetBaseURL(apiType types.ApiType) string {
	return s.BaseUrls[APIBaseURLKey(apiType)]
}

func (s *APISettings) SetBaseURL(apiType types.ApiType, url string) {
	if s.BaseUrls == nil {
		s.BaseUrls = map[string]string{}
	}
	s.BaseUrls[APIBaseURLKey(apiType)] = url
}

func (s *APISettings) Clone() *APISettings {
	return clone.Clone(s).(*APISettings)
}
