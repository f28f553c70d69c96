package engine

import (
	"context"

	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
)

// Engine sends an assembled prompt to a model and returns what it said.
//
// RunInference never returns an error: every failure (auth, network, rate
// limiting, timeouts, malformed responses) is reported as a Fault result, so
// that callers always have a text to record as the assistant's turn.
type Engine interface {
	RunInference(ctx context.Context, prompt builder.Prompt) Result
}

// ModelReporter is implemented by engines that know which model they talk to.
type ModelReporter interface {
	Model() string
}
