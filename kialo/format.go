package kialo

import (
	"regexp"
	"strings"
)

// ClaimsPerSide is how many pro and con claims a discussion carries.
const ClaimsPerSide = 3

// maxSummaryLen is the Kialo thesis field limit.
const maxSummaryLen = 500

var (
	numberPrefixRe = regexp.MustCompile(`(?m)^\s*\d+\)\s+`)
	markerRe       = regexp.MustCompile(`(?m)^(?:-|\d+\))\s+`)
)

// FormatArguments splits LLM-generated pros or cons text into exactly
// ClaimsPerSide ordered argument strings. The generator is asked for three
// clauses numbered "1) 2) 3)", each on its own line; this tolerates deviation
// by zero-padding short input and ignoring extra clauses. It never fails:
// input without any recognizable clause marker degrades to all-empty
// arguments.
func FormatArguments(raw string) [ClaimsPerSide]string {
	var out [ClaimsPerSide]string

	normalized := numberPrefixRe.ReplaceAllString(raw, "- ")

	markers := markerRe.FindAllStringIndex(normalized, -1)
	var segments []string
	for i, m := range markers {
		end := len(normalized)
		if i < len(markers)-1 {
			end = markers[i+1][0]
		}
		seg := normalized[m[1]:end]
		segments = append(segments, strings.TrimSpace(seg))
	}

	for i := 0; i < ClaimsPerSide && i < len(segments); i++ {
		out[i] = segments[i]
	}
	return out
}

// TruncateSummary caps a bill summary at the thesis field limit, counted in
// characters, preferring to cut at the last sentence boundary at or before
// the limit. If no period exists in range, the cut may land mid-word; that is
// accepted for the sake of the UI field limit.
func TruncateSummary(s string) string {
	r := []rune(s)
	if len(r) <= maxSummaryLen {
		return s
	}
	head := string(r[:maxSummaryLen])
	if i := strings.LastIndex(head, "."); i >= 0 {
		return head[:i+1]
	}
	return head
}
