// Package llm wraps the chat-completion provider behind a one-method
// interface so the ingest and intent pipelines never touch provider SDK
// types directly.
package llm

import "context"

// Completer produces a completion for a system prompt plus user input.
// Implementations return raw model text; downstream code is responsible for
// digging structured data out of it.
type Completer interface {
	Complete(ctx context.Context, prompt, input string) (string, error)
}

// ErrorKind classifies provider failures so handlers can map them to
// actionable messages without string-matching SDK errors.
type ErrorKind string

const (
	ErrInvalidAPIKey     ErrorKind = "invalid_api_key"
	ErrRateLimited       ErrorKind = "rate_limited"
	ErrInsufficientQuota ErrorKind = "insufficient_quota"
	ErrNetwork           ErrorKind = "network_error"
	ErrProvider          ErrorKind = "provider_error"
)

// ProviderError is a classified provider failure.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Message returns user-facing guidance for the failure.
func (e *ProviderError) Message() string {
	switch e.Kind {
	case ErrInvalidAPIKey:
		return "The configured API key was rejected. Check the llm.api_key setting."
	case ErrRateLimited:
		return "The model provider is rate limiting requests. Try again in a moment."
	case ErrInsufficientQuota:
		return "The provider account is out of quota."
	case ErrNetwork:
		return "Could not reach the model provider."
	default:
		return "The model provider returned an error."
	}
}
