package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	provider := NewProvider("static-v1")

	text, err := provider.Generate(context.Background(), "my prompt")

	require.NoError(t, err)
	assert.Contains(t, text, "static-v1")
	assert.Contains(t, text, "my prompt")
}

func TestName(t *testing.T) {
	assert.Equal(t, "static", NewProvider("static-v1").Name())
}
