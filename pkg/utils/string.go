package utils

import (
	"strings"
	"unicode/utf8"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces every whitespace run, newlines included, with
// a single space and trims both ends.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// CutFrom drops everything from the first occurrence of marker to the end.
// The string is returned unchanged when marker does not occur.
func (s *StringHelper) CutFrom(str, marker string) string {
	if i := strings.Index(str, marker); i >= 0 {
		return str[:i]
	}

	return str
}

// TruncateString keeps the first maxLength runes of str and marks the cut
// with an ellipsis.
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	if utf8.RuneCountInString(str) <= maxLength {
		return str
	}

	return string([]rune(str)[:maxLength]) + "..."
}
