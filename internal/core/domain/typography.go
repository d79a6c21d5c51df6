package domain

import "strings"

// nbsp is the non-breaking space inserted after short conjunctions.
const nbsp = "\u00a0"

// conjunctions are the short Polish words that must not be left
// orphaned at the end of a line.
var conjunctions = map[string]struct{}{
	"w": {}, "z": {}, "i": {}, "a": {}, "o": {}, "u": {}, "na": {}, "do": {},
}

// ApplyNonBreakingSpaces replaces the space after each short
// conjunction word with a non-breaking space, once per occurrence.
// The check is case-insensitive and only fires when the conjunction
// is immediately followed by a regular space, so already-typeset text
// passes through unchanged.
func ApplyNonBreakingSpaces(s string) string {
	if s == "" {
		return s
	}

	words := strings.Split(s, " ")
	if len(words) == 1 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i, w := range words {
		b.WriteString(w)
		if i == len(words)-1 {
			break
		}
		if _, ok := conjunctions[strings.ToLower(w)]; ok {
			b.WriteString(nbsp)
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}
