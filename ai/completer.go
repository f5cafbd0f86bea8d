package ai

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// modelCompleter adapts a langchaingo chat model to the Completer interface.
type modelCompleter struct {
	client llms.Model
}

var _ Completer = (*modelCompleter)(nil)

// NewCompleter creates a chat completion backend for the configured
// provider. Returns ErrProviderDisabled for ProviderNone.
func NewCompleter(ctx context.Context, config *Config) (Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var client llms.Model
	var err error

	switch config.Provider {
	case ProviderNone:
		return nil, ErrProviderDisabled
	case ProviderLocal:
		// Local OpenAI-compatible services don't require authentication,
		// but the client insists on a token
		token := config.APIKey
		if token == "" {
			token = "none"
		}
		client, err = openai.New(
			openai.WithBaseURL(config.Host),
			openai.WithToken(token),
			openai.WithModel(config.Model),
		)
	case ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(config.APIKey),
			openai.WithModel(config.Model),
		}
		if config.Host != "" {
			opts = append(opts, openai.WithBaseURL(config.Host))
		}
		client, err = openai.New(opts...)
	case ProviderAnthropic:
		client, err = anthropic.New(
			anthropic.WithToken(config.APIKey),
			anthropic.WithModel(config.Model),
		)
	case ProviderGemini:
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(config.APIKey),
			googleai.WithDefaultModel(config.Model),
		)
	default:
		return nil, ErrUnknownProvider
	}
	if err != nil {
		return nil, err
	}

	return &modelCompleter{client: client}, nil
}

// Complete sends the prompts with temperature 0 so rankings stay stable
// across identical requests.
func (m *modelCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	response, err := m.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", nil
	}
	return response.Choices[0].Content, nil
}
