package chat

import (
	"context"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const EchoModel = "echo"

// EchoEngine replies with the user's message. It needs no network access and is
// used for offline runs and tests.
type EchoEngine struct {
	// TimePerCharacter slows the reply down to simulate a model. Zero replies immediately.
	TimePerCharacter time.Duration
	config           *engine.Config
}

var _ engine.Engine = (*EchoEngine)(nil)
var _ engine.ModelReporter = (*EchoEngine)(nil)

func NewEchoEngine(options ...engine.Option) (*EchoEngine, error) {
	config := engine.NewConfig()
	if err := engine.ApplyOptions(config, options...); err != nil {
		return nil, err
	}
	return &EchoEngine{config: config}, nil
}

func (e *EchoEngine) Model() string {
	return EchoModel
}

func (e *EchoEngine) publishEvent(ctx context.Context, event events.Event) {
	events.PublishEvent(event, e.config.EventSinks...)
	events.PublishEventToContext(ctx, event)
}

func (e *EchoEngine) RunInference(ctx context.Context, prompt builder.Prompt) engine.Result {
	metadata := events.NewEventMetadata(events.SessionIDFromContext(ctx), uuid.NewString())
	metadata.Model = EchoModel
	e.publishEvent(ctx, events.NewStartEvent(metadata))

	text := prompt.Input.Text
	delay := e.TimePerCharacter * time.Duration(len(text))
	if delay > 0 {
		select {
		case <-ctx.Done():
			res := engine.FaultFromError(ctx.Err())
			e.publishEvent(ctx, events.NewErrorEvent(metadata, res.Text()))
			return res
		case <-time.After(delay):
		}
	}

	log.Trace().Int("len", len(text)).Msg("echo reply")
	e.publishEvent(ctx, events.NewFinalEvent(metadata, text))
	data := metadata.LLMInferenceData
	return engine.Reply(text).WithMetadata(&data)
}
