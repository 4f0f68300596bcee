// Package config resolves runtime configuration from the environment.
// Credentials and provider selection come from environment variables,
// optionally seeded from a .env file by the CLI layer.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/quillhq/gitquill/internal/llm"
)

// Config holds everything resolved from the environment.
type Config struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	Provider        string `env:"GITQUILL_PROVIDER, default=openai"`
	Model           string `env:"GITQUILL_MODEL"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return &cfg, nil
}

// APIKey returns the credential for a provider. An empty result means
// the credential is unset.
func (c *Config) APIKey(p llm.Provider) string {
	switch p {
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// Backend resolves the provider, model, and credential into a ready
// model backend. Flag values override the environment when non-empty.
// A missing credential fails here, before any agent loop starts.
func (c *Config) Backend(providerFlag, modelFlag string) (llm.Backend, string, error) {
	name := c.Provider
	if providerFlag != "" {
		name = providerFlag
	}
	provider, err := llm.ParseProvider(name)
	if err != nil {
		return nil, "", err
	}

	model := c.Model
	if modelFlag != "" {
		model = modelFlag
	}
	if model == "" {
		model = llm.DefaultModel(provider)
	}

	backend, err := llm.New(provider, c.APIKey(provider))
	if err != nil {
		return nil, "", err
	}
	return backend, model, nil
}
