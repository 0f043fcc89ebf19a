package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxValueLength caps a shared string value in bytes.
const MaxValueLength = 1024

// SanitizeString validates a shared string value and strips control characters.
// Oversized or invalid UTF-8 values are rejected rather than truncated.
func SanitizeString(s string) (string, bool) {
	if len(s) > MaxValueLength || !utf8.ValidString(s) {
		return "", false
	}

	// Fast path: nothing to strip.
	if strings.IndexFunc(s, isUnsafeControl) < 0 {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), true
}

// Newlines and tabs survive; ESC, NUL, BEL and friends do not.
func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
