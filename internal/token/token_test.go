package token

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)

	signed, err := issuer.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user id 'user-1', got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username 'alice', got %q", claims.Username)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	signed, err := issuer.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Verify(signed); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", time.Minute)
	other := NewIssuer("secret-b", time.Minute)

	signed, err := issuer.Issue("user-1", "alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Verify(signed); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)
	if _, err := issuer.Verify("not.a.token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for garbage input, got %v", err)
	}
}

func TestHash_Deterministic(t *testing.T) {
	if Hash("abc") != Hash("abc") {
		t.Error("expected identical hashes for identical input")
	}
	if Hash("abc") == Hash("abd") {
		t.Error("expected different hashes for different input")
	}
}
