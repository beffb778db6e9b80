// Package proxy is the background half of the assistant: it owns the API
// key, builds provider prompts from actions, and dispatches transform
// requests to the active model provider.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/store"
)

var (
	// ErrKeyNotSet is returned when no API key has been stored for the
	// active provider.
	ErrKeyNotSet = errors.New("API key not set")

	// ErrNoText is returned when a transform request carries no text.
	ErrNoText = errors.New("no text provided")

	// ErrUnknownAction is returned for actions the proxy does not handle.
	ErrUnknownAction = errors.New("unknown action")

	// ErrAgentUnavailable is returned for the agent action, which is
	// reserved but not implemented.
	ErrAgentUnavailable = errors.New("agent mode is not available")

	// ErrInactive is returned when the assistant has been switched off.
	ErrInactive = errors.New("assistant is disabled")
)

// Generator is the outbound port to a model provider.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// BuildGenerator constructs a provider bound to an API key. The proxy
// calls it lazily so that a key update takes effect on the next request.
type BuildGenerator func(apiKey string) (Generator, error)

// Settings is the slice of the store the proxy needs.
type Settings interface {
	SetSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, error)
	DeleteSetting(ctx context.Context, key string) error
}

// Proxy resolves credentials and dispatches transform requests.
type Proxy struct {
	providerName string
	settings     Settings
	build        BuildGenerator
	configKey    string

	mu     sync.Mutex
	gen    Generator
	genKey string
}

// New creates a Proxy for the named provider.
func New(providerName string, settings Settings, build BuildGenerator) *Proxy {
	return &Proxy{
		providerName: providerName,
		settings:     settings,
		build:        build,
	}
}

// SetConfigKey installs a config-supplied API key that overrides the
// credential store, for headless use.
func (p *Proxy) SetConfigKey(key string) {
	p.configKey = key
}

// Transform builds the prompt for an action and sends it to the provider.
// It implements the transform port the session orchestrator calls.
func (p *Proxy) Transform(ctx context.Context, action domain.Action, text string) (string, error) {
	active, err := p.Active(ctx)
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrInactive
	}

	prompt, err := BuildPrompt(action, text)
	if err != nil {
		return "", err
	}

	gen, err := p.generator(ctx)
	if err != nil {
		return "", err
	}

	return gen.Generate(ctx, prompt)
}

// UpdateKey stores a new API key and drops the cached provider so the
// next request picks it up.
func (p *Proxy) UpdateKey(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyNotSet
	}
	if err := p.settings.SetSetting(ctx, store.APIKeySetting(p.providerName), key); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	p.mu.Lock()
	p.gen = nil
	p.genKey = ""
	p.mu.Unlock()
	return nil
}

// ClearKey removes the stored API key.
func (p *Proxy) ClearKey(ctx context.Context) error {
	if err := p.settings.DeleteSetting(ctx, store.APIKeySetting(p.providerName)); err != nil {
		return fmt.Errorf("clear api key: %w", err)
	}

	p.mu.Lock()
	p.gen = nil
	p.genKey = ""
	p.mu.Unlock()
	return nil
}

// Key returns the active API key, or ErrKeyNotSet. A config-supplied key
// takes precedence; stored key updates have no effect while one is set.
func (p *Proxy) Key(ctx context.Context) (string, error) {
	if p.configKey != "" {
		return p.configKey, nil
	}

	key, err := p.settings.GetSetting(ctx, store.APIKeySetting(p.providerName))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrKeyNotSet
	}
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	if key == "" {
		return "", ErrKeyNotSet
	}
	return key, nil
}

// SetActive switches the assistant on or off.
func (p *Proxy) SetActive(ctx context.Context, active bool) error {
	return p.settings.SetSetting(ctx, store.SettingActive, strconv.FormatBool(active))
}

// Active reports whether the assistant is switched on. An unset flag
// means on.
func (p *Proxy) Active(ctx context.Context) (bool, error) {
	value, err := p.settings.GetSetting(ctx, store.SettingActive)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read active flag: %w", err)
	}
	return value != "false", nil
}

// ProviderName names the provider this proxy dispatches to.
func (p *Proxy) ProviderName() string {
	return p.providerName
}

// generator returns a provider bound to the current key, rebuilding it
// when the key has changed since the last call.
func (p *Proxy) generator(ctx context.Context) (Generator, error) {
	key, err := p.Key(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != nil && p.genKey == key {
		return p.gen, nil
	}

	gen, err := p.build(key)
	if err != nil {
		return nil, fmt.Errorf("build provider %s: %w", p.providerName, err)
	}

	p.gen = gen
	p.genKey = key
	return gen, nil
}
