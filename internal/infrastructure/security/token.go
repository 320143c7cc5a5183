package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
)

// ErrEmptySecret is returned by NewHS256Signer when no key is configured.
var ErrEmptySecret = errors.New("security: jwt secret is empty")

// HS256Signer signs JWT payloads with HMAC-SHA256.
type HS256Signer struct {
	secret []byte
}

var _ ports.TokenSigner = (*HS256Signer)(nil)

func NewHS256Signer(secret string) (*HS256Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HS256Signer{secret: []byte(secret)}, nil
}

// Sign encodes payload as the token claims.
func (s *HS256Signer) Sign(payload *domain.JWTPayload) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Owner verifies accessToken and returns its subject. Expired tokens and
// tokens signed with another algorithm or key are rejected.
func (s *HS256Signer) Owner(accessToken string) (domain.TokenOwner, error) {
	claims := &domain.JWTPayload{}
	tkn, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.TokenOwner{}, fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return domain.TokenOwner{}, jwt.ErrTokenInvalidClaims
	}

	if claims.Sub == "" {
		return domain.NewTokenOwner(domain.None[string]()), nil
	}
	return domain.NewTokenOwner(domain.Some(claims.Sub)), nil
}
