package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient is a Completer backed by an OpenAI-compatible chat endpoint.
// BaseURL may point at any server speaking the same API, which covers local
// inference runtimes as well.
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

// NewOpenAIClient builds a client. baseURL is optional; empty means the
// provider default.
func NewOpenAIClient(apiKey, baseURL, model string, log *slog.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}
}

// Complete sends the prompt and input as a two-message chat completion and
// returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt, input string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		perr := classifyProviderError(err)
		c.log.Warn("completion failed", "kind", perr.Kind, "error", err)
		return "", perr
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Kind: ErrProvider, Err: fmt.Errorf("empty response from %s", c.model)}
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyProviderError maps SDK errors onto stable kinds.
func classifyProviderError(err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401:
			return &ProviderError{Kind: ErrInvalidAPIKey, Err: err}
		case apiErr.HTTPStatusCode == 429 && apiErr.Code == "insufficient_quota":
			return &ProviderError{Kind: ErrInsufficientQuota, Err: err}
		case apiErr.HTTPStatusCode == 429:
			return &ProviderError{Kind: ErrRateLimited, Err: err}
		default:
			return &ProviderError{Kind: ErrProvider, Err: err}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{Kind: ErrProvider, Err: err}
	}
	return &ProviderError{Kind: ErrNetwork, Err: err}
}
