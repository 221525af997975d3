package prompts

import (
	"fmt"
	"strings"
)

// largeFileLineThreshold is the line count above which the prompt carries the
// large file warning block.
const largeFileLineThreshold = 100

// BuildSystemPrompt assembles the instruction document sent as the system
// message. It embeds the (already budgeted) code as a labeled fenced block
// and appends the invariant review guidance. Deterministic for identical
// inputs.
func BuildSystemPrompt(codeContext, languageHint string) string {
	language := DetectLanguage(codeContext, languageHint)
	lineCount := strings.Count(codeContext, "\n") + 1

	var prompt strings.Builder
	prompt.WriteString(CodeReviewerRole)
	prompt.WriteString("\n\n")

	if lineCount > largeFileLineThreshold {
		prompt.WriteString(LargeFileWarning)
		prompt.WriteString("\n\n")
	}

	prompt.WriteString(fmt.Sprintf("The user selected the following %s code:\n\n", language))
	prompt.WriteString(fmt.Sprintf("```%s\n%s\n```\n\n", language, codeContext))
	prompt.WriteString(ReviewGuidelines)
	prompt.WriteString("\n\n")
	prompt.WriteString(CompleteCodeRequirement)

	return prompt.String()
}
