package security

import (
	"strings"
	"testing"
)

func TestValidCookieFormat(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		value  string
		want   bool
	}{
		{"typical ASP session", "ASPSESSIONIDQWERTYUI", "ABCDEFGHIJKLMNOP", true},
		{"typical sessionid", "sessionid", "abc123-def456_ghi", true},
		{"empty name", "", "value", false},
		{"empty value", "sessionid", "", false},
		{"name with separator", "session id", "value", false},
		{"name with equals", "session=id", "value", false},
		{"name with semicolon", "session;id", "value", false},
		{"value with newline", "sessionid", "abc\ndef", false},
		{"value with NUL", "sessionid", "abc\x00def", false},
		{"value with carriage return", "sessionid", "abc\rdef", false},
		{"over-length name", strings.Repeat("a", 300), "value", false},
		{"over-length value", "sessionid", strings.Repeat("v", 5000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidCookieFormat(tt.cookie, tt.value, 256, 4096)
			if got != tt.want {
				t.Errorf("ValidCookieFormat(%q, %q) = %v, want %v", tt.cookie, tt.value, got, tt.want)
			}
		})
	}
}

func TestSanitizeCookieValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean value unchanged", "abc123-def456", "abc123-def456"},
		{"strips spaces", "abc def", "abcdef"},
		{"strips quotes", `abc"def`, "abcdef"},
		{"strips semicolons and commas", "abc;def,ghi", "abcdefghi"},
		{"strips backslash", `abc\def`, "abcdef"},
		{"strips control bytes", "abc\tdef\x01ghi", "abcdefghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeCookieValue(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeCookieValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeCookieValueIdempotent(t *testing.T) {
	inputs := []string{
		"abc123-def456",
		"abc def;ghi\"jkl",
		"x\x00y\nz",
	}
	for _, input := range inputs {
		once := SanitizeCookieValue(input)
		twice := SanitizeCookieValue(once)
		if once != twice {
			t.Errorf("sanitize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
