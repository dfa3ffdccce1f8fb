package token

import (
	"errors"
	"testing"
	"time"

	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("test-secret", "bibliotheque", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	raw, expiresAt, err := issuer.Issue("user-1", "ada@example.org", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	claims, err := issuer.Verify(raw, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "ada@example.org" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer, _ := NewJWTIssuer("test-secret", "bibliotheque", time.Hour)
	other, _ := NewJWTIssuer("other-secret", "bibliotheque", time.Hour)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	raw, _, _ := issuer.Issue("user-1", "ada@example.org", now)
	if _, err := issuer.Verify(raw, now.Add(2*time.Hour)); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	foreign, _, _ := other.Issue("user-1", "ada@example.org", now)
	if _, err := issuer.Verify(foreign, now); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}

	if _, err := issuer.Verify("not-a-token", now); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected garbage to be rejected, got %v", err)
	}
}

func TestNewJWTIssuerRequiresSecret(t *testing.T) {
	if _, err := NewJWTIssuer("  ", "", 0); !errors.Is(err, domainerrors.ErrTokenSecretRequired) {
		t.Fatalf("expected secret error, got %v", err)
	}
}
