package domain

import "strings"

// Token returns the literal placeholder marker for a field as it
// appears in template text runs, e.g. "{Imię}".
func Token(f Field) string {
	return "{" + string(f) + "}"
}

// SubstituteTokens replaces every occurrence of every recognized
// placeholder token in text with the value the callback returns for
// that field, preserving all other literal text. The second return
// reports whether anything changed.
//
// Substitution is a single pass per distinct token: a substituted
// value is never re-scanned, so a value that happens to contain no
// recognized token cannot trigger a second substitution.
func SubstituteTokens(text string, value func(Field) string) (string, bool) {
	changed := false
	for _, f := range TextFields {
		token := Token(f)
		if !strings.Contains(text, token) {
			continue
		}
		text = strings.ReplaceAll(text, token, value(f))
		changed = true
	}
	return text, changed
}

// ContainsToken reports whether text carries the token for a field.
func ContainsToken(text string, f Field) bool {
	return strings.Contains(text, Token(f))
}

// ContainsAnyToken reports whether text carries any recognized token.
func ContainsAnyToken(text string) bool {
	for _, f := range TextFields {
		if ContainsToken(text, f) {
			return true
		}
	}
	return false
}
