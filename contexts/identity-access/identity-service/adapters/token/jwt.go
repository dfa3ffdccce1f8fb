package token

import (
	"fmt"
	"strings"
	"time"

	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 12 * time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 bearer tokens. Roles are never carried in the token;
// callers resolve them from the store on each request.
type JWTIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTIssuer(secret string, issuer string, ttl time.Duration) (*JWTIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, domainerrors.ErrTokenSecretRequired
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWTIssuer{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		ttl:    ttl,
	}, nil
}

func (i *JWTIssuer) Issue(subject string, email string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl).UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (i *JWTIssuer) Verify(raw string, now time.Time) (ports.TokenClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		options = append(options, jwt.WithIssuer(i.issuer))
	}

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(_ *jwt.Token) (any, error) {
		return i.secret, nil
	}, options...)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidToken, err)
	}
	parsedClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	if strings.TrimSpace(parsedClaims.Subject) == "" {
		return ports.TokenClaims{}, fmt.Errorf("%w: missing subject", domainerrors.ErrInvalidToken)
	}

	result := ports.TokenClaims{
		Subject: parsedClaims.Subject,
		Email:   parsedClaims.Email,
	}
	if parsedClaims.ExpiresAt != nil {
		result.ExpiresAt = parsedClaims.ExpiresAt.Time.UTC()
	}
	return result, nil
}
