package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens/pkg/models"
)

func TestChatSuccess(t *testing.T) {
	var received models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, ChatPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(models.ChatResponse{Content: "looks good"})
	}))
	defer srv.Close()

	outcome := NewClient(srv.URL).Chat(context.Background(), models.ChatRequest{
		CodeContext: "func main() {}",
		UserMessage: "review this",
		Language:    "go",
	})

	assert.Equal(t, OutcomeOK, outcome.Kind)
	assert.Equal(t, "looks good", outcome.Content)
	assert.Equal(t, "review this", received.UserMessage)
}

func TestChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "rate limit exceeded"})
	}))
	defer srv.Close()

	outcome := NewClient(srv.URL).Chat(context.Background(), models.ChatRequest{})

	assert.Equal(t, OutcomeHTTPError, outcome.Kind)
	assert.Equal(t, http.StatusTooManyRequests, outcome.Status)
	assert.Equal(t, "rate limit exceeded", outcome.Message)
}

func TestChatServerErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	outcome := NewClient(srv.URL).Chat(context.Background(), models.ChatRequest{})

	assert.Equal(t, OutcomeHTTPError, outcome.Kind)
	assert.Contains(t, outcome.Message, "bad gateway")
}

func TestChatUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before calling

	outcome := NewClient(srv.URL).Chat(context.Background(), models.ChatRequest{})

	assert.Equal(t, OutcomeUnreachable, outcome.Kind)
	assert.NotEmpty(t, outcome.Message)
}

func TestChatNotConfigured(t *testing.T) {
	outcome := NewClient("").Chat(context.Background(), models.ChatRequest{})

	assert.Equal(t, OutcomeUnreachable, outcome.Kind)
	assert.Contains(t, outcome.Message, "not configured")
}

func TestChatMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	outcome := NewClient(srv.URL).Chat(context.Background(), models.ChatRequest{})

	// A reached proxy with a garbled body must not look like infrastructure
	// absence, or the router would silently fall back.
	assert.Equal(t, OutcomeHTTPError, outcome.Kind)
}
