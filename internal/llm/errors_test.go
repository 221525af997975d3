package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRateLimit(t *testing.T) {
	err := Classify(errors.New("429: Rate Limit exceeded for requests"))
	assert.Equal(t, CategoryRateLimited, err.Category)
	assert.Contains(t, err.Message, "wait a moment")
}

func TestClassifyContextTooLarge(t *testing.T) {
	for _, raw := range []string{
		"this model's maximum context length is 8192 tokens",
		"request exceeds Context Length",
	} {
		err := Classify(errors.New(raw))
		assert.Equal(t, CategoryContextTooLarge, err.Category, raw)
	}
}

func TestClassifyCredentialRejected(t *testing.T) {
	err := Classify(errors.New("Incorrect API key provided"))
	assert.Equal(t, CategoryCredentialRejected, err.Category)
	assert.Contains(t, err.Message, "Check your settings")
}

func TestClassifyUnknownPreservesMessage(t *testing.T) {
	err := Classify(errors.New("something exploded upstream"))
	assert.Equal(t, CategoryUnknown, err.Category)
	assert.Equal(t, "something exploded upstream", err.Message)
}

func TestClassifyPriorityOrder(t *testing.T) {
	// Rate limit outranks context length outranks API key.
	err := Classify(errors.New("rate limit hit: maximum context length for this API key"))
	assert.Equal(t, CategoryRateLimited, err.Category)

	err = Classify(errors.New("maximum tokens exceeded for API key"))
	assert.Equal(t, CategoryContextTooLarge, err.Category)
}

func TestClassifyNilError(t *testing.T) {
	err := Classify(nil)
	require.NotNil(t, err)
	assert.Equal(t, CategoryUnknown, err.Category)
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	original := ErrCredentialMissing()
	wrapped := fmt.Errorf("send failed: %w", original)
	assert.Same(t, original, Classify(wrapped))
}

func TestCredentialErrorsCarryExpectedFragments(t *testing.T) {
	assert.Contains(t, ErrCredentialMissing().Error(), "API key required")
	assert.Contains(t, ErrCredentialInvalid().Error(), "Invalid API key")
}

func TestValidCredential(t *testing.T) {
	assert.True(t, ValidCredential("sk-abc123"))
	assert.False(t, ValidCredential("invalid-key"))
	assert.False(t, ValidCredential(""))
}
