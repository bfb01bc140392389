package sanitize

import (
	"strings"
)

const truncationMarker = "…"

var flaggedWords = []string{"fuck", "shit", "ngoma", "kichaa", "mjinga", "nonsense"}

// Clean обрезает пробелы, удаляет управляющие символы (C0 и C1) и ограничивает
// длину текста maxLen символами, добавляя маркер усечения.
func Clean(raw string, maxLen int) string {
	text := strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			continue
		}
		b.WriteRune(r)
	}
	text = b.String()

	if maxLen > 0 {
		runes := []rune(text)
		if len(runes) > maxLen {
			text = string(runes[:maxLen]) + truncationMarker
		}
	}

	return text
}

// HasProfanity проверяет текст по фиксированному списку грубых слов
// без учета регистра.
func HasProfanity(text string) bool {
	lowered := strings.ToLower(text)
	for _, word := range flaggedWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}
