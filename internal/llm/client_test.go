package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientAppliesDefaults(t *testing.T) {
	client, err := NewClient(Config{APIKey: "sk-test"})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.config.Model)
	assert.Equal(t, 0.7, client.config.Temperature)
	assert.Equal(t, 2000, client.config.MaxTokens)
}

func TestNewClientKeepsExplicitSettings(t *testing.T) {
	client, err := NewClient(Config{APIKey: "sk-test", Model: "gpt-4o", Temperature: 0.2, MaxTokens: 500})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.config.Model)
	assert.Equal(t, 0.2, client.config.Temperature)
	assert.Equal(t, 500, client.config.MaxTokens)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})

	require.Error(t, err)
	assert.Equal(t, CategoryCredentialMissing, Classify(err).Category)
}
