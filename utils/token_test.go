package utils

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	access, refresh, err := GenerateTokenPair("64f1c2d3e4a5b6c7d8e9f0a1", "user@example.com", "access-secret", "refresh-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected non-empty tokens")
	}
	if access == refresh {
		t.Error("access and refresh tokens should differ")
	}

	userID, err := ValidateToken(access, "access-secret")
	if err != nil {
		t.Fatalf("ValidateToken(access): %v", err)
	}
	if userID != "64f1c2d3e4a5b6c7d8e9f0a1" {
		t.Errorf("user id = %q", userID)
	}

	userID, err = ValidateToken(refresh, "refresh-secret")
	if err != nil {
		t.Fatalf("ValidateToken(refresh): %v", err)
	}
	if userID != "64f1c2d3e4a5b6c7d8e9f0a1" {
		t.Errorf("refresh user id = %q", userID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	access, _, err := GenerateTokenPair("abc123", "user@example.com", "access-secret", "refresh-secret")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := ValidateToken(access, "wrong-secret"); err == nil {
		t.Error("expected validation to fail with the wrong secret")
	}
	// Access tokens must not validate against the refresh secret.
	if _, err := ValidateToken(access, "refresh-secret"); err == nil {
		t.Error("access token should not validate against refresh secret")
	}
}

func TestGenerateTokenPairRequiresSecrets(t *testing.T) {
	if _, _, err := GenerateTokenPair("abc123", "user@example.com", "", "refresh-secret"); err == nil {
		t.Error("expected error with empty access secret")
	}
	if _, _, err := GenerateTokenPair("abc123", "user@example.com", "access-secret", ""); err == nil {
		t.Error("expected error with empty refresh secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token", "secret"); err == nil {
		t.Error("expected error for malformed token")
	}
}
