package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/models"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("Hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("Expected correct password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to fail")
	}
}

func newTestTokens(t *testing.T, ttl time.Duration) *Tokens {
	t.Helper()
	tokens, err := NewTokens(models.AuthConfig{JWTSecret: "test-secret", TokenTTL: ttl})
	if err != nil {
		t.Fatalf("NewTokens failed: %v", err)
	}
	return tokens
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := newTestTokens(t, time.Hour)
	user := &models.User{Id: "user-1", Role: models.RoleBookie}

	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Expected subject user-1, got %q", claims.Subject)
	}
	if claims.Role != string(models.RoleBookie) {
		t.Errorf("Expected role BOOKIE, got %q", claims.Role)
	}
}

func TestTokens_RejectsTampering(t *testing.T) {
	tokens := newTestTokens(t, time.Hour)
	signed, err := tokens.Issue(&models.User{Id: "user-1", Role: models.RoleClient})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tampered := signed[:len(signed)-2] + "xx"
	if _, err := tokens.Verify(tampered); err == nil {
		t.Error("Expected tampered token to fail verification")
	}

	if _, err := tokens.Verify("not-a-token"); err == nil {
		t.Error("Expected garbage token to fail verification")
	}
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	issuer := newTestTokens(t, time.Hour)
	signed, err := issuer.Issue(&models.User{Id: "user-1", Role: models.RoleClient})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	verifier, err := NewTokens(models.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokens failed: %v", err)
	}
	if _, err := verifier.Verify(signed); err == nil {
		t.Error("Expected token signed with another secret to fail")
	}
}

func TestTokens_RejectsExpired(t *testing.T) {
	tokens := newTestTokens(t, time.Nanosecond)
	signed, err := tokens.Issue(&models.User{Id: "user-1", Role: models.RoleClient})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := tokens.Verify(signed); err == nil {
		t.Error("Expected expired token to fail verification")
	}
}

func TestNewTokens_Validation(t *testing.T) {
	if _, err := NewTokens(models.AuthConfig{JWTSecret: "", TokenTTL: time.Hour}); err == nil ||
		!strings.Contains(err.Error(), "secret") {
		t.Errorf("Expected empty-secret error, got %v", err)
	}
	if _, err := NewTokens(models.AuthConfig{JWTSecret: "x", TokenTTL: 0}); err == nil {
		t.Error("Expected zero-ttl error")
	}
}
