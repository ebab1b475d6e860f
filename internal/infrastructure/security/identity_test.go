package security

import "testing"

const testIterations = 1024

func TestDeriveIdentityDeterministic(t *testing.T) {
	a := DeriveIdentity("user@example.com", "hunter2", testIterations)
	b := DeriveIdentity("user@example.com", "hunter2", testIterations)
	if a != b {
		t.Errorf("same credentials produced different identities: %s vs %s", a, b)
	}
}

func TestDeriveIdentityFieldSensitive(t *testing.T) {
	base := DeriveIdentity("user@example.com", "hunter2", testIterations)

	if got := DeriveIdentity("other@example.com", "hunter2", testIterations); got == base {
		t.Error("different email produced the same identity")
	}
	if got := DeriveIdentity("user@example.com", "hunter3", testIterations); got == base {
		t.Error("different password produced the same identity")
	}
}

func TestDeriveIdentityNormalizesEmail(t *testing.T) {
	base := DeriveIdentity("user@example.com", "hunter2", testIterations)

	if got := DeriveIdentity("USER@Example.COM", "hunter2", testIterations); got != base {
		t.Error("email case changed the identity")
	}
	if got := DeriveIdentity("  user@example.com  ", "hunter2", testIterations); got != base {
		t.Error("surrounding whitespace changed the identity")
	}
}

func TestDeriveIdentityShape(t *testing.T) {
	id := DeriveIdentity("user@example.com", "hunter2", testIterations)
	if len(id) != 64 {
		t.Errorf("identity length = %d, want 64 hex chars", len(id))
	}
	for _, c := range string(id) {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("identity contains non-hex char %q", c)
		}
	}
}
