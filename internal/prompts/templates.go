package prompts

// System role definitions
const (
	// CodeReviewerRole defines the primary AI role for review chat
	CodeReviewerRole = "You are an expert code reviewer helping a developer improve a selected piece of code."
)

// Core instruction templates
const (
	// ReviewGuidelines provides the invariant quality guidance appended to
	// every system prompt.
	ReviewGuidelines = `REVIEW GUIDELINES:
- Be specific: reference exact function names, variable names, and line numbers from the code
- Avoid generic boilerplate advice that could apply to any codebase
- Cover correctness, security, performance, and code quality
- Keep explanations concise and use active voice`

	// CompleteCodeRequirement instructs the model to always return full
	// replacement blocks. The editor substitutes the model's code block over
	// the original selection verbatim, so partial snippets would corrupt it.
	CompleteCodeRequirement = `CRITICAL: When you suggest replacement code, always return the COMPLETE code block,
never a partial snippet. The suggested code will be substituted over the original
selection as-is, so anything you omit is deleted.`

	// LargeFileWarning is included when the selection exceeds the line
	// threshold, so the model prioritizes before its output gets cut off.
	LargeFileWarning = `LARGE FILE WARNING: The code below is large. Prioritize the most important findings
first and keep each suggestion compact, since your response may be truncated if it
runs too long.`
)
