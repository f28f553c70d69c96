package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/conversation"
	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettings(baseURL string) *settings.StepSettings {
	s := settings.NewStepSettings()
	s.API.SetAPIKey(types.ApiTypeGroq, "gsk_test")
	s.API.SetBaseURL(types.ApiTypeGroq, baseURL)
	return s
}

func TestNewGroqEngineRequiresAPIKey(t *testing.T) {
	_, err := NewGroqEngine(settings.NewStepSettings())
	require.Error(t, err)
	assert.True(t, errors.Is(err, settings.ErrMissingAPIKey))
}

func TestNewGroqEngineRejectsUnknownModel(t *testing.T) {
	s := newTestSettings("http://localhost")
	model := "llama2-70b-4096"
	s.Chat.Engine = &model
	_, err := NewGroqEngine(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, settings.ErrUnknownModel))
}

func TestNewGroqEngineClonesSettings(t *testing.T) {
	s := newTestSettings("http://localhost")
	e, err := NewGroqEngine(s)
	require.NoError(t, err)

	model := settings.ModelGemma7B
	s.Chat.Engine = &model
	assert.Equal(t, settings.DefaultModel, e.Model())
}

func TestMakeCompletionRequest(t *testing.T) {
	s := newTestSettings("http://localhost")
	history := conversation.Conversation{
		conversation.NewUserTurn("hi"),
		conversation.NewAssistantTurn("hello"),
	}
	req, err := MakeCompletionRequest(s, builder.Build("S", history, "how are you?"))
	require.NoError(t, err)

	assert.Equal(t, "llama3-8b-8192", req.Model)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	require.Len(t, req.Messages, 4)
	assert.Equal(t, go_openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "S", req.Messages[0].Content)
	assert.Equal(t, go_openai.ChatMessageRoleUser, req.Messages[1].Role)
	assert.Equal(t, go_openai.ChatMessageRoleAssistant, req.Messages[2].Role)
	assert.Equal(t, "how are you?", req.Messages[3].Content)
}

func TestRunInferenceReply(t *testing.T) {
	var got go_openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "sessionbot-test", r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(go_openai.ChatCompletionResponse{
			Model: got.Model,
			Choices: []go_openai.ChatCompletionChoice{{
				Message:      go_openai.ChatCompletionMessage{Role: "assistant", Content: "Hello there!"},
				FinishReason: go_openai.FinishReasonStop,
			}},
			Usage: go_openai.Usage{PromptTokens: 12, CompletionTokens: 3},
		})
	}))
	defer srv.Close()

	s := newTestSettings(srv.URL)
	ua := "sessionbot-test"
	s.Client.UserAgent = &ua
	sink := events.NewCollectingSink()
	e, err := NewGroqEngine(s, engine.WithSink(sink))
	require.NoError(t, err)

	ctx := events.WithSessionID(context.Background(), "a")
	res := e.RunInference(ctx, builder.Build("S", nil, "hi"))

	require.False(t, res.IsFault(), res.Text())
	assert.Equal(t, "Hello there!", res.Text())
	require.NotNil(t, res.Metadata)
	require.NotNil(t, res.Metadata.Usage)
	assert.Equal(t, 12, res.Metadata.Usage.InputTokens)
	assert.Equal(t, "stop", *res.Metadata.StopReason)
	assert.Len(t, got.Messages, 2)

	evs := sink.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.EventTypeStart, evs[0].Type)
	assert.Equal(t, events.EventTypeFinal, evs[1].Type)
	assert.Equal(t, "a", evs[1].Metadata.SessionID)
	assert.Equal(t, "Hello there!", evs[1].Text)
}

func TestRunInferenceAPIErrorBecomesFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	sink := events.NewCollectingSink()
	e, err := NewGroqEngine(newTestSettings(srv.URL), engine.WithSink(sink))
	require.NoError(t, err)

	res := e.RunInference(context.Background(), builder.Build("S", nil, "hi"))
	require.True(t, res.IsFault())
	assert.True(t, strings.HasPrefix(res.Text(), engine.FaultPrefix))
	assert.Contains(t, res.Text(), "401")
	assert.Contains(t, res.Text(), "Invalid API Key")

	evs := sink.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.EventTypeError, evs[1].Type)
	assert.Equal(t, res.Text(), evs[1].Text)
}

func TestRunInferenceRateLimitBecomesFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer srv.Close()

	e, err := NewGroqEngine(newTestSettings(srv.URL))
	require.NoError(t, err)

	res := e.RunInference(context.Background(), builder.Build("S", nil, "hi"))
	require.True(t, res.IsFault())
	assert.Contains(t, res.Text(), "429")
}

func TestRunInferenceEmptyChoicesBecomesFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	e, err := NewGroqEngine(newTestSettings(srv.URL))
	require.NoError(t, err)

	res := e.RunInference(context.Background(), builder.Build("S", nil, "hi"))
	require.True(t, res.IsFault())
	assert.Equal(t, "Error: empty response from model", res.Text())
}

func TestRunInferenceMalformedBodyBecomesFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	e, err := NewGroqEngine(newTestSettings(srv.URL))
	require.NoError(t, err)

	res := e.RunInference(context.Background(), builder.Build("S", nil, "hi"))
	require.True(t, res.IsFault())
	assert.NotEqual(t, engine.FaultPrefix, res.Text())
}

func TestRunInferenceTimeoutBecomesFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	s := newTestSettings(srv.URL)
	timeout := 50 * time.Millisecond
	s.Client.Timeout = &timeout
	e, err := NewGroqEngine(s)
	require.NoError(t, err)

	res := e.RunInference(context.Background(), builder.Build("S", nil, "hi"))
	require.True(t, res.IsFault())
	assert.Contains(t, res.Text(), "timed out")
}

func TestRunInferenceUnreachableHostBecomesFault(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	e, err := NewGroqEngine(newTestSettings(url))
	require.NoError(t, err)

	res := e.RunInference(context.Background(), builder.Build("S", nil, "hi"))
	require.True(t, res.IsFault())
	assert.True(t, strings.HasPrefix(res.Text(), "Error: "))
}
