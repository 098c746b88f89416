package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mutarjim/translation-service/internal/lang"
)

// defaultOpenAIModel is the chat model used when none is configured.
const defaultOpenAIModel = openai.GPT4oMini

// chatCompleter is the subset of the OpenAI client the engine uses.
// *openai.Client implements this implicitly; tests inject mocks.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ chatCompleter = (*openai.Client)(nil)

// OpenAI translates through an OpenAI-compatible chat completion API.
// A custom base URL points it at local OpenAI-compatible servers.
type OpenAI struct {
	client  chatCompleter
	apiKey  string
	baseURL string
	model   string
}

var _ Engine = (*OpenAI)(nil)

// OpenAIOption configures an OpenAI engine.
type OpenAIOption func(*OpenAI)

// WithModel sets the chat model.
func WithModel(model string) OpenAIOption {
	return func(e *OpenAI) {
		if model != "" {
			e.model = model
		}
	}
}

// WithBaseURL points the engine at an OpenAI-compatible server.
func WithBaseURL(url string) OpenAIOption {
	return func(e *OpenAI) {
		e.baseURL = url
	}
}

// WithChatClient sets a custom chat client (for testing).
func WithChatClient(client chatCompleter) OpenAIOption {
	return func(e *OpenAI) {
		e.client = client
	}
}

// NewOpenAI creates an OpenAI engine.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	e := &OpenAI{
		apiKey: apiKey,
		model:  defaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		cfg := openai.DefaultConfig(apiKey)
		if e.baseURL != "" {
			cfg.BaseURL = e.baseURL
		}
		e.client = openai.NewClientWithConfig(cfg)
	}

	return e
}

// Name identifies the engine.
func (e *OpenAI) Name() string {
	return "openai"
}

// Translate sends the text through a chat completion with a per-direction
// translation instruction.
func (e *OpenAI) Translate(ctx context.Context, text string, direction lang.Direction) (string, error) {
	if !direction.Valid() {
		return "", fmt.Errorf("direction %q: %w", direction, lang.ErrUnsupportedDirection)
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: translateInstruction(direction),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.3,
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned: %w", ErrBadRequest)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// translateInstruction builds the system prompt for a direction.
func translateInstruction(direction lang.Direction) string {
	return fmt.Sprintf(
		"Translate the user's text from %s to %s. Preserve the meaning, tone, and punctuation. Respond with only the translation, nothing else.",
		languageName(direction.Source()), languageName(direction.Target()))
}

func languageName(l lang.Language) string {
	if l == lang.Arabic {
		return "Arabic"
	}
	return "English"
}

// classifyOpenAIError maps OpenAI API errors onto the engine sentinels.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish between temporary rate limit and quota exceeded
			// (billing issue). Quota exceeded should not be retried - it
			// requires user action.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrBadRequest)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrUnavailable)
		}
	}

	// Check for context timeout/deadline exceeded.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	return err
}
