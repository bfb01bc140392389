package language

import (
	"testing"
)

func TestDetectReliableText(t *testing.T) {
	got := Detect("Это достаточно длинное сообщение на русском языке для надежного определения.", "en", "en")
	if got != "rus" {
		t.Fatalf("ожидался код rus, получено %q", got)
	}
}

func TestDetectFallsBackToLocale(t *testing.T) {
	got := Detect("12345", "sw", "en")
	if got != "sw" {
		t.Fatalf("при ненадежном определении должен возвращаться locale, получено %q", got)
	}
}

func TestDetectFallsBackToDefault(t *testing.T) {
	got := Detect("12345", "", "en")
	if got != "en" {
		t.Fatalf("при пустом locale должен возвращаться язык по умолчанию, получено %q", got)
	}
}
