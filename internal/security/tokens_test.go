package security

import (
	"testing"
	"time"
)

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken("test-secret", 42, "ana@clinic.example", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.ProfessionalID != 42 {
		t.Errorf("ProfessionalID = %d, want 42", claims.ProfessionalID)
	}
	if claims.Email != "ana@clinic.example" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret-a", 1, "a@b.c", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := IssueToken("test-secret", 1, "a@b.c", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("test-secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("valid password rejected")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	gen := NewCSRFGenerator("csrf-secret")

	token, err := gen.GenerateToken("abc123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !gen.ValidateToken("abc123", token) {
		t.Error("valid token rejected")
	}
	if gen.ValidateToken("other-session", token) {
		t.Error("token accepted for different session")
	}
	if gen.ValidateToken("abc123", "forged") {
		t.Error("forged token accepted")
	}
}
