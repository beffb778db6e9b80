package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sbeeredd04/promen/internal/config"
)

func TestParseTimeout(t *testing.T) {
	override := "30s"
	negative := "-5s"
	invalid := "not-a-duration"

	tests := []struct {
		name     string
		override *string
		global   string
		expected time.Duration
	}{
		{"provider override wins", &override, "60s", 30 * time.Second},
		{"global used when no override", nil, "90s", 90 * time.Second},
		{"default when nothing set", nil, "", 60 * time.Second},
		{"negative override rejected", &negative, "45s", 45 * time.Second},
		{"invalid override falls through", &invalid, "45s", 45 * time.Second},
		{"invalid global falls to default", nil, "garbage", 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTimeout(tt.override, tt.global, 60*time.Second)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuildRetryConfig(t *testing.T) {
	httpCfg := config.HTTPConfig{
		Timeout:           "60s",
		MaxRetries:        2,
		InitialBackoff:    "1s",
		MaxBackoff:        "8s",
		BackoffMultiplier: 2.0,
	}

	t.Run("global config only", func(t *testing.T) {
		retryConf := BuildRetryConfig(config.ProviderConfig{}, httpCfg)

		assert.Equal(t, 2, retryConf.MaxRetries)
		assert.Equal(t, time.Second, retryConf.InitialBackoff)
		assert.Equal(t, 8*time.Second, retryConf.MaxBackoff)
		assert.Equal(t, 2.0, retryConf.Multiplier)
	})

	t.Run("provider overrides win", func(t *testing.T) {
		maxRetries := 5
		initialBackoff := "500ms"
		maxBackoff := "4s"
		provider := config.ProviderConfig{
			MaxRetries:     &maxRetries,
			InitialBackoff: &initialBackoff,
			MaxBackoff:     &maxBackoff,
		}

		retryConf := BuildRetryConfig(provider, httpCfg)

		assert.Equal(t, 5, retryConf.MaxRetries)
		assert.Equal(t, 500*time.Millisecond, retryConf.InitialBackoff)
		assert.Equal(t, 4*time.Second, retryConf.MaxBackoff)
	})
}
