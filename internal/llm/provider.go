package llm

import (
	"context"
	"fmt"
)

// Provider identifies a model backend. The set is closed: adding a
// provider means adding a variant and its constructor here.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	switch Provider(name) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	default:
		return "", &ConfigurationError{BackendError: BackendError{
			Message: fmt.Sprintf("unknown provider %q (supported: openai, anthropic)", name),
		}}
	}
}

// DefaultModel returns the model used for a provider when none is
// configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "claude-sonnet-4-5"
	default:
		return "gpt-4o"
	}
}

// Backend sends one conversation to a model and returns its response.
// Implementations are stateless and safe for concurrent use.
type Backend interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Response, error)
}

// New constructs the backend for a provider. A missing credential is a
// precondition failure, reported before any loop starts.
func New(p Provider, apiKey string) (Backend, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{BackendError: BackendError{
			Message: fmt.Sprintf("missing API key for provider %q", p),
		}}
	}
	switch p {
	case ProviderOpenAI:
		return newOpenAIBackend(apiKey), nil
	case ProviderAnthropic:
		return newAnthropicBackend(apiKey), nil
	default:
		return nil, &ConfigurationError{BackendError: BackendError{
			Message: fmt.Sprintf("unknown provider %q", p),
		}}
	}
}
