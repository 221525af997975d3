package models

// Shared wire-level models exchanged between the assist pipeline, the proxy
// endpoint, and the model provider. These are payload snapshots, never live
// references into editor or store state.

// Chat roles as they appear in model-facing payloads.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one history entry reduced to the role+content pair the model
// sees. Timestamps and IDs never leave the conversation store.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenFile represents a file the user has open in the editor, supplied as
// auxiliary cross-file context.
type OpenFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// ChatRequest is the JSON body POSTed to the proxy endpoint.
type ChatRequest struct {
	CodeContext string        `json:"code_context"`
	UserMessage string        `json:"user_message"`
	History     []ChatMessage `json:"history"`
	Language    string        `json:"language"`
}

// ChatResponse is the proxy endpoint's success body.
type ChatResponse struct {
	Content string `json:"content"`
}

// ErrorResponse is the proxy endpoint's failure body, paired with a non-2xx
// status.
type ErrorResponse struct {
	Error string `json:"error"`
}
