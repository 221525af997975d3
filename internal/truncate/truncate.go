package truncate

import (
	"strings"
	"unicode/utf8"
)

// Marker is appended to any text that was cut short.
const Marker = "\n\n... [truncated - code too long]"

// lineBoundaryRatio is the fraction of the budget below which we refuse to
// back up to the previous newline and cut mid-line instead.
const lineBoundaryRatio = 0.8

// Result holds the possibly shortened text and whether a cut happened.
type Result struct {
	Text      string
	Truncated bool
}

// Truncate shortens text to at most max characters, preferring to cut at a
// line boundary when one exists in the final 20% of the budget. The cut never
// splits a multi-byte rune. The marker is appended after the cut, so the
// returned text can exceed max by len(Marker). Truncating already truncated
// text may cut into the marker; callers should treat Truncate as single-shot.
func Truncate(text string, max int) Result {
	if max < 0 {
		max = 0
	}
	if len(text) <= max {
		return Result{Text: text, Truncated: false}
	}

	limit := max
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}

	cut := text[:limit]
	if idx := strings.LastIndex(cut, "\n"); idx >= 0 && float64(idx) >= lineBoundaryRatio*float64(max) {
		cut = cut[:idx]
	}

	return Result{Text: cut + Marker, Truncated: true}
}
