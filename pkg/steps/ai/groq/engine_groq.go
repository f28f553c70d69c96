package groq

import (
	"context"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// GroqEngine implements engine.Engine against Groq's OpenAI-compatible chat completions API.
// Its settings are cloned at construction and never change afterwards.
type GroqEngine struct {
	settings *settings.StepSettings
	config   *engine.Config
	client   *go_openai.Client
}

var _ engine.Engine = (*GroqEngine)(nil)
var _ engine.ModelReporter = (*GroqEngine)(nil)

// NewGroqEngine validates the settings and builds the API client.
// A missing API key or a model outside settings.AllowedModels is an error.
func NewGroqEngine(stepSettings *settings.StepSettings, options ...engine.Option) (*GroqEngine, error) {
	if err := stepSettings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid groq settings")
	}

	config := engine.NewConfig()
	if err := engine.ApplyOptions(config, options...); err != nil {
		return nil, err
	}

	s := stepSettings.Clone()
	client, err := MakeClient(s)
	if err != nil {
		return nil, err
	}

	return &GroqEngine{
		settings: s,
		config:   config,
		client:   client,
	}, nil
}

func (e *GroqEngine) Model() string {
	return e.settings.Chat.GetEngine()
}

func (e *GroqEngine) publishEvent(ctx context.Context, event events.Event) {
	events.PublishEvent(event, e.config.EventSinks...)
	events.PublishEventToContext(ctx, event)
}

// RunInference sends the prompt as a single, non-streaming chat completion.
// There are no retries: a failed call yields one fault.
func (e *GroqEngine) RunInference(ctx context.Context, prompt builder.Prompt) engine.Result {
	log.Debug().
		Str("model", e.Model()).
		Int("num_messages", prompt.Len()).
		Msg("Groq RunInference started")

	temperature := e.settings.Chat.GetTemperature()
	maxTokens := e.settings.Chat.GetMaxResponseTokens()
	metadata := events.NewEventMetadata(events.SessionIDFromContext(ctx), uuid.NewString())
	metadata.LLMInferenceData = events.LLMInferenceData{
		Model:       e.Model(),
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}

	req, err := MakeCompletionRequest(e.settings, prompt)
	if err != nil {
		return e.fail(ctx, metadata, err.Error())
	}

	timeout := e.settings.Client.GetTimeout()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	e.publishEvent(ctx, events.NewStartEvent(metadata))

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(callCtx, *req)
	durationMs := time.Since(start).Milliseconds()
	metadata.DurationMs = &durationMs

	if err != nil {
		log.Debug().Err(err).Str("model", e.Model()).Msg("Groq chat completion failed")
		return e.fail(ctx, metadata, describeError(err, timeout))
	}

	if usage := resp.Usage; usage.PromptTokens > 0 || usage.CompletionTokens > 0 {
		metadata.Usage = &events.Usage{
			InputTokens:  usage.PromptTokens,
			OutputTokens: usage.CompletionTokens,
		}
	}

	if len(resp.Choices) == 0 {
		return e.fail(ctx, metadata, "empty response from model")
	}
	if finishReason := string(resp.Choices[0].FinishReason); finishReason != "" {
		metadata.StopReason = &finishReason
	}

	text := resp.Choices[0].Message.Content
	log.Debug().Object("meta", metadata).Msg("Groq RunInference finished")
	e.publishEvent(ctx, events.NewFinalEvent(metadata, text))

	data := metadata.LLMInferenceData
	return engine.Reply(text).WithMetadata(&data)
}

func (e *GroqEngine) fail(ctx context.Context, metadata events.EventMetadata, description string) engine.Result {
	res := engine.Fault(description)
	e.publishEvent(ctx, events.NewErrorEvent(metadata, res.Text()))
	data := metadata.LLMInferenceData
	return res.WithMetadata(&data)
}
