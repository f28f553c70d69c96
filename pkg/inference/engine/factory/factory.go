package factory

import (
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/chat"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/groq"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/pkg/errors"
)

// EngineFactory creates inference engines based on provider settings.
type EngineFactory interface {
	// CreateEngine creates an Engine for the provider named in settings.Chat.ApiType.
	CreateEngine(settings *settings.StepSettings, options ...engine.Option) (engine.Engine, error)

	// SupportedProviders returns the provider names this factory supports.
	SupportedProviders() []string

	// DefaultProvider is used when settings.Chat.ApiType is not set.
	DefaultProvider() string
}

// StandardEngineFactory builds Groq engines, and echo engines for offline use.
type StandardEngineFactory struct{}

func NewStandardEngineFactory() *StandardEngineFactory {
	return &StandardEngineFactory{}
}

func (f *StandardEngineFactory) CreateEngine(settings *settings.StepSettings, options ...engine.Option) (engine.Engine, error) {
	if settings == nil {
		return nil, errors.New("settings cannot be nil")
	}

	provider := f.DefaultProvider()
	if settings.Chat != nil && settings.Chat.ApiType != nil {
		provider = strings.ToLower(string(*settings.Chat.ApiType))
	}

	switch provider {
	case string(types.ApiTypeGroq):
		return groq.NewGroqEngine(settings, options...)

	case string(types.ApiTypeEcho):
		return chat.NewEchoEngine(options...)

	default:
		supported := strings.Join(f.SupportedProviders(), ", ")
		return nil, errors.Errorf("unsupported provider %s. Supported providers: %s", provider, supported)
	}
}

func (f *StandardEngineFactory) SupportedProviders() []string {
	return []string{
		string(types.ApiTypeGroq),
		string(types.ApiTypeEcho),
	}
}

func (f *StandardEngineFactory) DefaultProvider() string {
	return string(types.ApiTypeGroq)
}

var _ EngineFactory = (*StandardEngineFactory)(nil)
