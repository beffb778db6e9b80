package gemini

import (
	"context"
	"fmt"
)

const providerName = "gemini"

// Client abstracts the Gemini HTTP client behaviour we need.
type Client interface {
	Call(ctx context.Context, prompt string, options CallOptions) (*APIResponse, error)
}

// Provider generates text through the Gemini generateContent API.
type Provider struct {
	model  string
	client Client
}

// NewProvider constructs a Provider for the supplied model.
func NewProvider(model string, client Client) *Provider {
	return &Provider{
		model:  model,
		client: client,
	}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return providerName
}

// Generate sends the prompt to Gemini and returns the generated text.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("gemini client missing")
	}

	resp, err := p.client.Call(ctx, prompt, CallOptions{})
	if err != nil {
		return "", err
	}

	return resp.Text, nil
}
