package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codelens/pkg/models"
)

// ChatPath is the fixed route the trusted proxy serves.
const ChatPath = "/api/v1/ai/chat"

// OutcomeKind tags the result of one proxy attempt. The dispatch router
// decides fallback-vs-propagate on this tag rather than on error strings.
type OutcomeKind int

const (
	// OutcomeOK means the proxy answered with a completion.
	OutcomeOK OutcomeKind = iota
	// OutcomeHTTPError means the proxy was reached and reported a concrete
	// failure. Authoritative: never triggers fallback.
	OutcomeHTTPError
	// OutcomeUnreachable means the proxy is absent, unreachable, or not
	// configured. The only fallback-eligible outcome.
	OutcomeUnreachable
)

// Outcome is the tagged result of a proxy attempt.
type Outcome struct {
	Kind    OutcomeKind
	Content string // set when Kind == OutcomeOK
	Status  int    // set when Kind == OutcomeHTTPError
	Message string // failure description for the non-OK kinds
}

// Client posts chat requests to the trusted proxy endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a proxy client for baseURL. An empty baseURL yields a
// client whose every attempt reports OutcomeUnreachable, which the router
// treats the same as an absent proxy.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Chat issues one POST to the proxy. It never returns an error; every
// failure mode is expressed in the Outcome tag.
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) Outcome {
	if c.baseURL == "" {
		return Outcome{Kind: OutcomeUnreachable, Message: "proxy endpoint not configured"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Outcome{Kind: OutcomeUnreachable, Message: fmt.Sprintf("failed to encode request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(body))
	if err != nil {
		return Outcome{Kind: OutcomeUnreachable, Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("url", c.baseURL).Msg("Proxy unreachable")
		return Outcome{Kind: OutcomeUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Kind: OutcomeUnreachable, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := serverErrorMessage(raw, resp.StatusCode)
		log.Debug().Int("status", resp.StatusCode).Str("error", message).Msg("Proxy returned error")
		return Outcome{Kind: OutcomeHTTPError, Status: resp.StatusCode, Message: message}
	}

	var chatResp models.ChatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		// Reached but garbled: still HTTPError, never fallback.
		return Outcome{
			Kind:    OutcomeHTTPError,
			Status:  resp.StatusCode,
			Message: "invalid response from review service",
		}
	}

	return Outcome{Kind: OutcomeOK, Content: chatResp.Content}
}

// serverErrorMessage extracts the {error} body if present, falling back to
// the raw body or the status code.
func serverErrorMessage(raw []byte, status int) string {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return fmt.Sprintf("HTTP %d", status)
}
