package utils

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("expected hash, got plaintext back")
	}
	if !ValidatePassword(hash, "correct horse battery staple") {
		t.Error("expected hash to validate against the original password")
	}
	if ValidatePassword(hash, "wrong password") {
		t.Error("expected hash to reject a different password")
	}
}

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("user@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	parsed, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if !parsed.Valid {
		t.Error("expected freshly issued token to be valid")
	}

	if _, err := ValidateJWT(token + "tampered"); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}
