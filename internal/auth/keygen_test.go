package auth

import (
	"strings"
	"testing"
)

func TestGenerateKey_Format(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		key := GenerateKey()
		if len(key) != KeyLength {
			t.Fatalf("key %q should be %d chars", key, KeyLength)
		}
		for _, c := range key {
			if !strings.ContainsRune(KeyAlphabet, c) {
				t.Fatalf("key %q contains character %q outside the alphabet", key, c)
			}
		}
		if !ValidateKeyFormat(key) {
			t.Fatalf("generated key %q should pass ValidateKeyFormat", key)
		}
	}
}

func TestGenerateKey_IndependentDraws(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[GenerateKey()] = true
	}

	// 62^6 keyspace: a handful of repeats in 1000 draws would mean a broken source.
	if len(seen) < 995 {
		t.Errorf("expected nearly all keys unique, got %d distinct of 1000", len(seen))
	}
}

func TestGenerateKey_CoversAlphabet(t *testing.T) {
	t.Parallel()

	counts := make(map[rune]int)
	for i := 0; i < 2000; i++ {
		for _, c := range GenerateKey() {
			counts[c]++
		}
	}

	// 12000 draws over 62 symbols: every symbol is expected ~193 times.
	if len(counts) != len(KeyAlphabet) {
		t.Errorf("expected all %d symbols to appear, got %d", len(KeyAlphabet), len(counts))
	}
}

func TestValidateKeyFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{"valid", "aB3xY9", true},
		{"too short", "aB3xY", false},
		{"too long", "aB3xY9z", false},
		{"symbol", "aB3-Y9", false},
		{"empty", "", false},
		{"unicode", "aB3xYé", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateKeyFormat(tt.key); got != tt.valid {
				t.Errorf("ValidateKeyFormat(%q) = %v, want %v", tt.key, got, tt.valid)
			}
		})
	}
}
