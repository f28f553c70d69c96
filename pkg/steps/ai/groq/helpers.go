package groq

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-go-golems/sessionbot/pkg/conversation"
	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
)

func roleToOpenAI(role conversation.Role) string {
	switch role {
	case conversation.RoleSystem:
		return go_openai.ChatMessageRoleSystem
	case conversation.RoleAssistant:
		return go_openai.ChatMessageRoleAssistant
	default:
		return go_openai.ChatMessageRoleUser
	}
}

// MakeCompletionRequest builds the chat completion request for prompt.
func MakeCompletionRequest(
	settings *settings.StepSettings,
	prompt builder.Prompt,
) (*go_openai.ChatCompletionRequest, error) {
	if settings == nil || settings.Chat == nil {
		return nil, errors.New("no chat settings")
	}
	chatSettings := settings.Chat

	messages := prompt.Messages()
	msgs_ := make([]go_openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs_ = append(msgs_, go_openai.ChatCompletionMessage{
			Role:    roleToOpenAI(m.Role),
			Content: m.Text,
		})
	}

	return &go_openai.ChatCompletionRequest{
		Model:       chatSettings.GetEngine(),
		Messages:    msgs_,
		MaxTokens:   chatSettings.GetMaxResponseTokens(),
		Temperature: float32(chatSettings.GetTemperature()),
	}, nil
}

func MakeClient(stepSettings *settings.StepSettings) (*go_openai.Client, error) {
	apiKey := stepSettings.API.GetAPIKey(types.ApiTypeGroq)
	if apiKey == "" {
		return nil, errors.Wrap(settings.ErrMissingAPIKey, settings.APIKeyKey(types.ApiTypeGroq))
	}
	baseURL := stepSettings.API.GetBaseURL(types.ApiTypeGroq)
	if baseURL == "" {
		baseURL = settings.DefaultGroqBaseURL
	}

	config := go_openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	httpClient := &http.Client{}
	if stepSettings.Client != nil && stepSettings.Client.HTTPClient != nil {
		httpClient = stepSettings.Client.HTTPClient
	}
	if stepSettings.Client != nil && stepSettings.Client.UserAgent != nil {
		transport := httpClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		httpClient = &http.Client{
			Transport:     &userAgentTransport{userAgent: *stepSettings.Client.UserAgent, next: transport},
			CheckRedirect: httpClient.CheckRedirect,
			Jar:           httpClient.Jar,
			Timeout:       httpClient.Timeout,
		}
	}
	config.HTTPClient = httpClient

	return go_openai.NewClientWithConfig(config), nil
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

// describeError turns a failed call into the fault description shown to the user.
func describeError(err error, timeout time.Duration) string {
	var apiErr *go_openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode != 0 {
			return fmt.Sprintf("groq API returned status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return fmt.Sprintf("groq API error: %s", apiErr.Message)
	}

	var reqErr *go_openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("groq request failed with status %d: %v", reqErr.HTTPStatusCode, reqErr.Err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("request timed out after %s", timeout)
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}

	return err.Error()
}
