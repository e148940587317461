package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContainsControl checks if a string contains control characters, NUL included
func ContainsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidWord checks if s can be used as a vocabulary word or a query.
// Words must be non-empty valid UTF-8 without whitespace or control characters.
func IsValidWord(s string) bool {
	if len(s) == 0 {
		return false
	}
	if !utf8.ValidString(s) {
		return false
	}
	if ContainsControl(s) {
		return false
	}
	return !strings.ContainsFunc(s, unicode.IsSpace)
}

// TrimLine strips surrounding whitespace, including a trailing CR from CRLF files
func TrimLine(s string) string {
	return strings.TrimSpace(s)
}
