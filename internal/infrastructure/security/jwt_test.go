package security

import "testing"

func TestAdminTokenRoundtrip(t *testing.T) {
	secret := "test-jwt-secret"

	token, err := GenerateAdminToken(secret)
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("ValidateJWT failed: %v", err)
	}
	if !IsAdminClaims(claims) {
		t.Error("generated token does not carry admin claims")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("secret-one")
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}

	if _, err := ValidateJWT(token, "secret-two"); err == nil {
		t.Error("token validated under the wrong secret")
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token", "secret"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestIsAdminClaimsRequiresRoleAndType(t *testing.T) {
	if IsAdminClaims(map[string]any{"role": "admin"}) {
		t.Error("claims without admin_auth type accepted")
	}
	if IsAdminClaims(map[string]any{"type": "admin_auth"}) {
		t.Error("claims without admin role accepted")
	}
}
