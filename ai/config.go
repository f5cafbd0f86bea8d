// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"strings"
	"time"
)

// Provider identifies which semantic linking backend to use.
type Provider int

const (
	// ProviderNone disables semantic linking entirely.
	ProviderNone Provider = iota

	// ProviderLocal uses a local OpenAI-compatible server such as Ollama.
	ProviderLocal

	// ProviderOpenAI uses the hosted OpenAI API.
	ProviderOpenAI

	// ProviderAnthropic uses the Anthropic API.
	ProviderAnthropic

	// ProviderGemini uses the Google Gemini API.
	ProviderGemini
)

var providerNames = map[Provider]string{
	ProviderNone:      "none",
	ProviderLocal:     "local",
	ProviderOpenAI:    "openai",
	ProviderAnthropic: "anthropic",
	ProviderGemini:    "gemini",
}

// String returns the lowercase name of the provider.
func (p Provider) String() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return "none"
}

// ParseProvider maps a provider name to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ProviderNone, nil
	case "local", "ollama":
		return ProviderLocal, nil
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic":
		return ProviderAnthropic, nil
	case "gemini", "googleai":
		return ProviderGemini, nil
	default:
		return ProviderNone, ErrUnknownProvider
	}
}

// Config holds configuration for the semantic linking backend.
type Config struct {
	// Provider selects the backend. ProviderNone disables linking.
	Provider Provider

	// Host is the base URL for OpenAI-compatible backends.
	// Example: "http://localhost:11434/v1" for a local Ollama server.
	Host string

	// Model is the chat model identifier.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// APIKey authenticates against hosted providers. Local
	// OpenAI-compatible servers usually accept any value.
	APIKey string

	// Timeout bounds each call into the model.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxRetries is the number of attempts per linking call.
	// Default: 2
	MaxRetries int

	// RetryBaseDelay is the backoff base between attempts (doubles each retry).
	// Default: 500ms
	RetryBaseDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider selects the backend provider.
func WithProvider(provider Provider) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the base URL for OpenAI-compatible backends.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTimeout bounds each call into the model.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the attempt count and backoff base delay.
func WithRetries(maxRetries int, baseDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryBaseDelay = baseDelay
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderLocal,
		Host:           "http://localhost:11434/v1",
		Model:          "qwen2.5:3b",
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. For
// OpenAI-compatible backends the host must end in /v1, which most
// local servers (Ollama, LocalAI, vLLM) expect.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete for the
// selected provider. It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Provider == ProviderNone {
		return nil
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return errors.New("ai config: MaxRetries must be at least 1")
	}

	switch c.Provider {
	case ProviderLocal:
		if c.Host == "" {
			return errors.New("ai config: Host is required for local provider")
		}
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		if c.APIKey == "" {
			return errors.New("ai config: APIKey is required for hosted providers")
		}
	}
	return nil
}
