package security

import "testing"

func TestGenerateULIDUniqueAndSortable(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()

	if len(a) != 26 || len(b) != 26 {
		t.Errorf("ULID lengths = %d, %d, want 26", len(a), len(b))
	}
	if a == b {
		t.Error("consecutive ULIDs collided")
	}
	if b < a {
		t.Error("later ULID sorts before earlier one")
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	b, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	if a == b {
		t.Error("two generated tokens collided")
	}
}

func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(64)
	if err != nil {
		t.Fatalf("GenerateSecureKey failed: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(key))
	}
	// A 64-hex-char key is a 32-byte AES-256 key when used as a string.
	if _, err := Encrypt("probe", key[:32]); err != nil {
		t.Errorf("generated key unusable for encryption: %v", err)
	}
}
