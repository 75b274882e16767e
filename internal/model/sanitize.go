package model

import (
	"strings"
	"unicode"
)

// Sanitize turns a collection title into its directory-safe name.
//
// The title is trimmed and every character maps to exactly one output byte:
// ASCII letters are lowercased, ASCII digits, '.' and '_' are kept,
// whitespace becomes '_' and everything else becomes '-'. Distinct titles of
// different length never share a name.
//
// Example:
//
//	Sanitize("  Trip to Köln! ") // Returns "trip_to_k-ln-"
func Sanitize(title string) string {
	trimmed := strings.TrimSpace(title)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case r == '.' || r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case isASCIIAlnum(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('_')
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
