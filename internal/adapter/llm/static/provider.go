// Package static provides a deterministic in-process provider for tests
// and offline development. It never touches the network.
package static

import (
	"context"
	"fmt"
)

const providerName = "static"

// Provider returns canned text derived from the prompt.
type Provider struct {
	model string
}

// NewProvider constructs a static Provider.
func NewProvider(model string) *Provider {
	return &Provider{
		model: model,
	}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return providerName
}

// Generate echoes the prompt back with a static preamble so callers can
// see the full pipeline end to end without an API key.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	return fmt.Sprintf("**Static response** from %s:\n\n%s", p.model, prompt), nil
}
