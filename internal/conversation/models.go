package conversation

// Domain models for the review chat graph: threads anchored to a code
// selection (or unscoped), each holding an ordered message sequence.

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Range is the editor selection a thread is anchored to.
type Range struct {
	StartLine   int `json:"start_line"`
	EndLine     int `json:"end_line"`
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
}

// Message is one conversation entry. Immutable once created; ordered by
// insertion within a thread.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Thread is a conversation about one code selection. Range nil means a
// general, unscoped chat. CodeContext is a point-in-time snapshot of the
// selection taken at creation; it never tracks later edits.
type Thread struct {
	ID          string    `json:"id"`
	Range       *Range    `json:"range,omitempty"`
	CodeContext string    `json:"code_context"`
	Messages    []Message `json:"messages"`
}
