package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	cases := []struct {
		input string
		want  Provider
	}{
		{"", ProviderNone},
		{"none", ProviderNone},
		{"local", ProviderLocal},
		{"ollama", ProviderLocal},
		{"OpenAI", ProviderOpenAI},
		{"anthropic", ProviderAnthropic},
		{"gemini", ProviderGemini},
		{"googleai", ProviderGemini},
	}

	for _, tc := range cases {
		got, err := ParseProvider(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}

	_, err := ParseProvider("cohere")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestProviderString(t *testing.T) {
	assert.Equal(t, "local", ProviderLocal.String())
	assert.Equal(t, "none", Provider(99).String())
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("trailing slash", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})

	t.Run("already normalized", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("none provider needs nothing", func(t *testing.T) {
		cfg := &Config{Provider: ProviderNone}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("hosted providers require api key", func(t *testing.T) {
		cfg := NewConfig(WithProvider(ProviderOpenAI), WithModel("gpt-4o-mini"))
		assert.Error(t, cfg.Validate())

		cfg = NewConfig(WithProvider(ProviderOpenAI), WithModel("gpt-4o-mini"), WithAPIKey("sk-test"))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("invalid retries", func(t *testing.T) {
		cfg := NewConfig(WithRetries(0, time.Second))
		assert.Error(t, cfg.Validate())
	})
}
