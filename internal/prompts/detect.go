package prompts

import "strings"

// languageSignature pairs a label with substrings that must all be present
// for the label to match.
type languageSignature struct {
	label   string
	markers []string
}

// Checked in order; first full match wins. Signatures are deliberately
// conservative (two markers each) to cut down on false positives from
// comments and string literals.
var languageSignatures = []languageSignature{
	{"go", []string{"package ", "func "}},
	{"rust", []string{"fn ", "let "}},
	{"python", []string{"def ", ":"}},
	{"typescript", []string{"interface ", ": "}},
	{"javascript", []string{"function ", "const "}},
	{"java", []string{"public class ", "void "}},
	{"c", []string{"#include", ";"}},
	{"ruby", []string{"def ", "end"}},
	{"php", []string{"<?php", "$"}},
	{"sql", []string{"select ", "from "}},
}

// genericHints are placeholder labels the editor sends when it has no real
// language information.
var genericHints = map[string]bool{
	"":          true,
	"plaintext": true,
	"text":      true,
	"unknown":   true,
}

// DetectLanguage resolves an advisory language label for the prompt. A
// concrete hint from the editor wins outright; otherwise a keyword scan over
// the code decides, falling back to "unknown". The result only labels the
// prompt for the model and never gates behavior, since keyword detection can
// misfire on code that merely mentions another language's keywords.
func DetectLanguage(code, hint string) string {
	normalized := strings.ToLower(strings.TrimSpace(hint))
	if !genericHints[normalized] {
		return hint
	}

	lowered := strings.ToLower(code)
	for _, sig := range languageSignatures {
		matched := true
		for _, marker := range sig.markers {
			if !strings.Contains(lowered, marker) {
				matched = false
				break
			}
		}
		if matched {
			return sig.label
		}
	}

	if normalized != "" {
		return normalized
	}
	return "unknown"
}
