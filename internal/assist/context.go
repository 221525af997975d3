package assist

import (
	"fmt"
	"strings"

	"github.com/codelens/internal/truncate"
	"github.com/codelens/pkg/models"
)

// Budgets that are part of the observable contract. The primary budget is
// intentionally larger than the per-file budget: the selection the user asked
// about always outranks cross-file context.
const (
	primaryContextLimit = 15000
	fileContextLimit    = 5000
	maxOpenFiles        = 5
	maxHistoryMessages  = 10
)

// assembledContext is the composed prompt payload handed to the dispatcher.
type assembledContext struct {
	EnhancedContext string
	LimitedHistory  []models.ChatMessage
}

// assemble merges the primary code selection with a bounded set of open-file
// contexts and trims history to the retained window. Deterministic and
// side-effect free; inputs are never mutated.
func assemble(codeContext string, openFiles []models.OpenFile, history []models.ChatMessage) assembledContext {
	var notes []string

	primary := truncate.Truncate(codeContext, primaryContextLimit)
	if primary.Truncated {
		notes = append(notes, "Note: the selected code was truncated to fit the context budget. Focus on the visible portion.")
	}

	retained := openFiles
	if len(retained) > maxOpenFiles {
		dropped := len(retained) - maxOpenFiles
		noun := "files were"
		if dropped == 1 {
			noun = "file was"
		}
		notes = append(notes, fmt.Sprintf("Note: %d additional open %s omitted from context.", dropped, noun))
		retained = retained[:maxOpenFiles]
	}

	var out strings.Builder
	out.WriteString(primary.Text)

	for _, file := range retained {
		content := truncate.Truncate(file.Content, fileContextLimit)
		label := fmt.Sprintf("%s (%s)", file.Name, file.Language)
		if content.Truncated {
			label += " [truncated]"
		}
		out.WriteString(fmt.Sprintf("\n\n--- Open file: %s ---\n```%s\n%s\n```", label, file.Language, content.Text))
	}

	for _, note := range notes {
		out.WriteString("\n\n")
		out.WriteString(note)
	}

	return assembledContext{
		EnhancedContext: out.String(),
		LimitedHistory:  limitHistory(history),
	}
}

// limitHistory keeps the most recent window of messages in chronological
// order, copied so callers keep ownership of their slice.
func limitHistory(history []models.ChatMessage) []models.ChatMessage {
	start := 0
	if len(history) > maxHistoryMessages {
		start = len(history) - maxHistoryMessages
	}
	limited := make([]models.ChatMessage, len(history)-start)
	copy(limited, history[start:])
	return limited
}
