package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Usage represents token usage information reported by the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
}

// LLMInferenceData consolidates common LLM inference metadata for UI/logging.
type LLMInferenceData struct {
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	StopReason  *string  `json:"stop_reason,omitempty" yaml:"stop_reason,omitempty"`
	Usage       *Usage   `json:"usage,omitempty" yaml:"usage,omitempty"`
	DurationMs  *int64   `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
}

type EventMetadata struct {
	ID          uuid.UUID `json:"message_id"`
	SessionID   string    `json:"session_id,omitempty"`
	InferenceID string    `json:"inference_id,omitempty"`
	Time        time.Time `json:"time"`
	LLMInferenceData
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("message_id", em.ID.String())
	if em.SessionID != "" {
		e.Str("session_id", em.SessionID)
	}
	if em.InferenceID != "" {
		e.Str("inference_id", em.InferenceID)
	}
	if em.Model != "" {
		e.Str("model", em.Model)
	}
	if em.Usage != nil {
		e.Int("input_tokens", em.Usage.InputTokens)
		e.Int("output_tokens", em.Usage.OutputTokens)
	}
	if em.StopReason != nil {
		e.Str("stop_reason", *em.StopReason)
	}
	if em.DurationMs != nil {
		e.Int64("duration_ms", *em.DurationMs)
	}
}
