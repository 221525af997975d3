package llm

import (
	"errors"
	"strings"
)

// Category identifies one of the fixed user-facing failure buckets.
type Category string

const (
	CategoryCredentialMissing  Category = "credential_missing"
	CategoryCredentialInvalid  Category = "credential_invalid"
	CategoryCredentialRejected Category = "credential_rejected"
	CategoryRateLimited        Category = "rate_limited"
	CategoryContextTooLarge    Category = "context_too_large"
	CategoryProxyError         Category = "proxy_error"
	CategoryUnknown            Category = "unknown"
)

// Human-readable messages surfaced to the user. Tests and callers match on
// the leading fragments, so changes here are breaking.
const (
	msgCredentialMissing  = "API key required. Add your OpenAI API key in settings to use the AI assistant."
	msgCredentialInvalid  = `Invalid API key. OpenAI keys start with "sk-". Check your settings.`
	msgCredentialRejected = "API key was rejected by the provider. Check your settings."
	msgRateLimited        = "Rate limit exceeded. Please wait a moment and try again."
	msgContextTooLarge    = "Selected code is too large for the model. Select a smaller portion."
	msgProxyPrefix        = "Review service error: "
)

// ClassifiedError is the only error type the pipeline surfaces to callers.
type ClassifiedError struct {
	Category Category
	Message  string
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

// ErrCredentialMissing reports an absent API key, raised before any network
// call is made.
func ErrCredentialMissing() *ClassifiedError {
	return &ClassifiedError{Category: CategoryCredentialMissing, Message: msgCredentialMissing}
}

// ErrCredentialInvalid reports a locally malformed API key.
func ErrCredentialInvalid() *ClassifiedError {
	return &ClassifiedError{Category: CategoryCredentialInvalid, Message: msgCredentialInvalid}
}

// ErrProxy wraps a concrete failure reported by a reachable proxy. These are
// authoritative and never trigger fallback.
func ErrProxy(message string) *ClassifiedError {
	return &ClassifiedError{Category: CategoryProxyError, Message: msgProxyPrefix + message}
}

// Classify maps a raw provider failure to one of the fixed categories.
// Substrings are checked case-insensitively in priority order; first match
// wins. Unrecognized failures keep their original message since no better
// categorization exists. Total: never panics, always returns a result.
func Classify(raw error) *ClassifiedError {
	var classified *ClassifiedError
	if errors.As(raw, &classified) {
		return classified
	}

	message := ""
	if raw != nil {
		message = raw.Error()
	}
	lowered := strings.ToLower(message)

	switch {
	case strings.Contains(lowered, "rate limit"):
		return &ClassifiedError{Category: CategoryRateLimited, Message: msgRateLimited}
	case strings.Contains(lowered, "context length") || strings.Contains(lowered, "maximum"):
		return &ClassifiedError{Category: CategoryContextTooLarge, Message: msgContextTooLarge}
	case strings.Contains(lowered, "api key"):
		return &ClassifiedError{Category: CategoryCredentialRejected, Message: msgCredentialRejected}
	default:
		return &ClassifiedError{Category: CategoryUnknown, Message: message}
	}
}
