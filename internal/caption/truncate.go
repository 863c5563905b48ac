package caption

import (
	"strings"
	"unicode"
)

// Truncate shortens text to at most max runes, cutting at the last word
// boundary. A single word longer than max is cut hard.
func Truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	cut := runes[:max]
	if unicode.IsSpace(runes[max]) {
		return strings.TrimRightFunc(string(cut), unicode.IsSpace)
	}
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			return strings.TrimRightFunc(string(cut[:i]), unicode.IsSpace)
		}
	}
	return string(cut)
}
