package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sbeeredd04/promen/internal/config"
)

const providerName = "openai"

// Provider generates text through the OpenAI chat completions API using
// the official openai-go SDK.
type Provider struct {
	model string
	opts  []option.RequestOption
}

// NewProvider constructs a Provider for the supplied model and key.
func NewProvider(apiKey, model string, providerCfg config.ProviderConfig, httpCfg config.HTTPConfig) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	if model == "" {
		return nil, errors.New("openai model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpCfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(httpCfg.MaxRetries))
	}

	return &Provider{model: model, opts: opts}, nil
}

// WithBaseURL points the provider at a custom endpoint (for testing or
// OpenAI-compatible gateways).
func (p *Provider) WithBaseURL(url string) *Provider {
	p.opts = append(p.opts, option.WithBaseURL(url))
	return p
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return providerName
}

// Generate sends the prompt as a single user message and returns the reply.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(p.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}

	return resp.Choices[0].Message.Content, nil
}
