package auth_test

import (
	"testing"
	"time"

	"github.com/arkodev/learnhub/internal/auth"
)

func TestIssueAndVerify(t *testing.T) {
	m := auth.NewManager("test-secret", 24*time.Hour)

	token, err := m.Issue("user-123")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if token == "" {
		t.Fatal("issued an empty token")
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Subject != "user-123" {
		t.Fatalf("got subject %q, want %q", claims.Subject, "user-123")
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("claims missing issuedAt/expiresAt")
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)

	if ttl != 24*time.Hour {
		t.Fatalf("got ttl %v, want 24h", ttl)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	// negative TTL mints a token that is already past its expiry
	m := auth.NewManager("test-secret", -1*time.Second)

	token, err := m.Issue("user-123")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = m.Verify(token)

	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	issuer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	token, err := issuer.Issue("user-123")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = verifier.Verify(token)

	if err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	for _, tokenStr := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := m.Verify(tokenStr); err == nil {
			t.Fatalf("expected %q to be rejected", tokenStr)
		}
	}
}
