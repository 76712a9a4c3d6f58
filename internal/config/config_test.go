package config

import (
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка email из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " Admin@example.com, ,USER@Example.com ")

	got := parseCSVEnv("ADMIN_EMAILS")
	want := []string{"admin@example.com", "user@example.com"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseBoolEnv проверяет разбор булевой переменной и значение по умолчанию.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("CHALLENGE_AUTO_RUN", "false")

	got, err := parseBoolEnv("CHALLENGE_AUTO_RUN", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got {
		t.Fatal("expected false")
	}

	got, err = parseBoolEnv("MISSING_BOOL_ENV", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !got {
		t.Fatal("expected fallback true")
	}
}

// TestParseBoolEnvInvalid проверяет ошибку на неразборчивом значении.
func TestParseBoolEnvInvalid(t *testing.T) {
	t.Setenv("CHALLENGE_AUTO_RUN", "maybe")

	if _, err := parseBoolEnv("CHALLENGE_AUTO_RUN", true); err == nil {
		t.Fatal("expected error for invalid boolean")
	}
}
