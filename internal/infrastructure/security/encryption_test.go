package security

import "testing"

const testAESKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	plaintext := "ASPSESSIONIDQWERTYUI=ABCDEFGHIJKLMNOP"

	encrypted, err := Encrypt(plaintext, testAESKey)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if encrypted == plaintext {
		t.Error("ciphertext equals plaintext")
	}

	decrypted, err := Decrypt(encrypted, testAESKey)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("roundtrip mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := Encrypt("data", ""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := Encrypt("data", "short"); err == nil {
		t.Error("expected error for invalid key length")
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	encrypted, err := Encrypt("secret", testAESKey)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	otherKey := "fedcba9876543210fedcba9876543210"
	if _, err := Decrypt(encrypted, otherKey); err == nil {
		t.Error("expected error decrypting with the wrong key")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	if _, err := Decrypt("not-base64!!!", testAESKey); err == nil {
		t.Error("expected error for non-base64 input")
	}
	if _, err := Decrypt("dG9vc2hvcnQ=", testAESKey); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
