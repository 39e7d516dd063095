package util

import (
	"strings"
	"unicode"
)

// CleanText trims s and drops control and invisible formatting characters,
// keeping newlines and tabs. It is applied to free text users submit.
func CleanText(s string) string {
	trimmed := strings.TrimSpace(s)

	builder := strings.Builder{}
	builder.Grow(len(trimmed))

	for _, char := range trimmed {
		if char == '\n' || char == '\t' {
			builder.WriteRune(char)
			continue
		}
		if char == '\r' || unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}

		builder.WriteRune(char)
	}

	return strings.TrimSpace(builder.String())
}

// CleanLine is CleanText for single-line fields such as titles; line breaks
// and tabs collapse to spaces.
func CleanLine(s string) string {
	return strings.Join(strings.Fields(CleanText(s)), " ")
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF', // Zero-Width No-Break Space / BOM
		'\uFFF9', // Interlinear Annotation Anchor
		'\uFFFA', // Interlinear Annotation Separator
		'\uFFFB': // Interlinear Annotation Terminator
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
