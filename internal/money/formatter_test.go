package money

import (
	"strings"
	"testing"
)

// TestRound2 проверяет округление до двух знаков.
func TestRound2(t *testing.T) {
	if got := Round2(10.005); got != 10.01 {
		t.Fatalf("expected 10.01, got %v", got)
	}
	if got := Round2(-3.333); got != -3.33 {
		t.Fatalf("expected -3.33, got %v", got)
	}
}

// TestFormatFallbackOnBadCurrency проверяет запасной формат для мусорного кода валюты.
func TestFormatFallbackOnBadCurrency(t *testing.T) {
	f := NewFormatter(nil)

	got := f.Format(12.3, "???", "en-US")
	if got != "12.30 ???" {
		t.Fatalf("expected fallback format, got %q", got)
	}
}

// TestFormatFallbackOnBadLocale проверяет запасной формат для мусорной локали.
func TestFormatFallbackOnBadLocale(t *testing.T) {
	f := NewFormatter(nil)

	got := f.Format(5, "USD", "not a locale!!")
	if got != "5.00 USD" {
		t.Fatalf("expected fallback format, got %q", got)
	}
}

// TestFormatKnownCurrency проверяет, что валидная пара валюта+локаль дает локализованную строку.
func TestFormatKnownCurrency(t *testing.T) {
	f := NewFormatter(nil)

	got := f.Format(1234.5, "USD", "en-US")
	if !strings.Contains(got, "1,234.50") {
		t.Fatalf("expected localized amount, got %q", got)
	}
}
