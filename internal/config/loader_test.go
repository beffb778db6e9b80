package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvString(t *testing.T) {
	os.Setenv("TEST_API_KEY", "secret-key-123")
	os.Setenv("TEST_PATH", "/path/to/data")
	defer os.Unsetenv("TEST_API_KEY")
	defer os.Unsetenv("TEST_PATH")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "expand ${VAR} syntax",
			input:    "${TEST_API_KEY}",
			expected: "secret-key-123",
		},
		{
			name:     "expand $VAR syntax",
			input:    "$TEST_API_KEY",
			expected: "secret-key-123",
		},
		{
			name:     "expand in middle of string",
			input:    "key:${TEST_API_KEY}:end",
			expected: "key:secret-key-123:end",
		},
		{
			name:     "expand multiple variables",
			input:    "${TEST_API_KEY}:${TEST_PATH}",
			expected: "secret-key-123:/path/to/data",
		},
		{
			name:     "leave non-existent var unchanged",
			input:    "${NONEXISTENT_VAR}",
			expected: "${NONEXISTENT_VAR}",
		},
		{
			name:     "handle empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "handle string without variables",
			input:    "plain-text",
			expected: "plain-text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvString(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExpandEnvString_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	assert.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "expand tilde at start",
			input:    "~/.config/promen/promen.db",
			expected: home + "/.config/promen/promen.db",
		},
		{
			name:     "expand tilde alone",
			input:    "~",
			expected: home,
		},
		{
			name:     "do not expand tilde in middle",
			input:    "/path/~/file",
			expected: "/path/~/file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvString(tt.input)
			assert.Equal(t, tt.expected, result, "input: %s", tt.input)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "AIza-test-123")
	os.Setenv("STORE_PATH", "/data/promen.db")
	defer os.Unsetenv("GEMINI_API_KEY")
	defer os.Unsetenv("STORE_PATH")

	cfg := Config{
		Providers: map[string]ProviderConfig{
			"gemini": {
				Enabled: true,
				Model:   "gemini-2.0-flash",
				APIKey:  "${GEMINI_API_KEY}",
			},
		},
		Store: StoreConfig{
			Path: "${STORE_PATH}",
		},
	}

	expanded := expandEnvVars(cfg)

	assert.Equal(t, "AIza-test-123", expanded.Providers["gemini"].APIKey)
	assert.Equal(t, "/data/promen.db", expanded.Store.Path)
}

func TestExpandEnvVars_HTTPConfig(t *testing.T) {
	os.Setenv("HTTP_TIMEOUT", "120s")
	os.Setenv("HTTP_BACKOFF", "5s")
	defer os.Unsetenv("HTTP_TIMEOUT")
	defer os.Unsetenv("HTTP_BACKOFF")

	cfg := Config{
		HTTP: HTTPConfig{
			Timeout:        "${HTTP_TIMEOUT}",
			InitialBackoff: "${HTTP_BACKOFF}",
			MaxBackoff:     "30s", // Plain string
		},
	}

	expanded := expandEnvVars(cfg)

	assert.Equal(t, "120s", expanded.HTTP.Timeout)
	assert.Equal(t, "5s", expanded.HTTP.InitialBackoff)
	assert.Equal(t, "30s", expanded.HTTP.MaxBackoff)
}

func TestExpandEnvVars_ProviderHTTPOverrides(t *testing.T) {
	os.Setenv("GEMINI_TIMEOUT", "180s")
	defer os.Unsetenv("GEMINI_TIMEOUT")

	timeout := "${GEMINI_TIMEOUT}"
	maxRetries := 3

	cfg := Config{
		Providers: map[string]ProviderConfig{
			"gemini": {
				Enabled:    true,
				Model:      "gemini-2.0-flash",
				Timeout:    &timeout,
				MaxRetries: &maxRetries,
			},
		},
	}

	expanded := expandEnvVars(cfg)

	assert.NotNil(t, expanded.Providers["gemini"].Timeout)
	assert.Equal(t, "180s", *expanded.Providers["gemini"].Timeout)
	assert.NotNil(t, expanded.Providers["gemini"].MaxRetries)
	assert.Equal(t, 3, *expanded.Providers["gemini"].MaxRetries)
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{
		ConfigPaths: []string{"testdata"},
		FileName:    "nonexistent", // Should use defaults
	})
	assert.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)

	assert.Equal(t, "60s", cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t, "1s", cfg.HTTP.InitialBackoff)
	assert.Equal(t, "8s", cfg.HTTP.MaxBackoff)
	assert.Equal(t, 2.0, cfg.HTTP.BackoffMultiplier)

	assert.Equal(t, 3, cfg.Channel.Attempts)
	assert.Equal(t, "200ms", cfg.Channel.Delay)

	assert.True(t, cfg.Store.Enabled)
	assert.NotEmpty(t, cfg.Store.Path)

	assert.Equal(t, "127.0.0.1:8791", cfg.Server.Listen)

	assert.True(t, cfg.Observability.Logging.Enabled)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.True(t, cfg.Observability.Logging.RedactAPIKeys)

	assert.True(t, cfg.Providers["gemini"].Enabled)
	assert.Equal(t, "gemini-2.0-flash", cfg.Providers["gemini"].Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers["openai"].Model)
}

func TestMerge(t *testing.T) {
	base := Config{
		Provider: "gemini",
		Channel:  ChannelConfig{Attempts: 3, Delay: "200ms"},
		Providers: map[string]ProviderConfig{
			"gemini": {Enabled: true, Model: "gemini-2.0-flash"},
		},
	}
	overlay := Config{
		Provider: "openai",
		Channel:  ChannelConfig{Attempts: 5, Delay: "50ms"},
		Providers: map[string]ProviderConfig{
			"openai": {Enabled: true, Model: "gpt-4o-mini"},
		},
	}

	merged := Merge(base, overlay)

	assert.Equal(t, "openai", merged.Provider)
	assert.Equal(t, 5, merged.Channel.Attempts)
	assert.Equal(t, "50ms", merged.Channel.Delay)
	assert.Equal(t, "gemini-2.0-flash", merged.Providers["gemini"].Model)
	assert.Equal(t, "gpt-4o-mini", merged.Providers["openai"].Model)
}
