package domain

import (
	"strings"
	"unicode/utf8"
)

// StripFrontmatter drops a leading YAML frontmatter block if the text
// carries one; crawled markdown often does.
func StripFrontmatter(text string) string {
	stripped := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(stripped, "---") {
		return text
	}
	parts := strings.SplitN(stripped, "---", 3)
	if len(parts) == 3 {
		return parts[2]
	}
	return text
}

// ShortenText collapses whitespace and truncates at a word boundary,
// appending an ellipsis when anything was cut.
func ShortenText(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}
	// maxLen counts bytes; back up so the cut never lands inside a
	// multi-byte rune.
	for maxLen > 0 && !utf8.RuneStart(text[maxLen]) {
		maxLen--
	}
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
