package ports

import "github.com/cashback-api/cashback-system/internal/core/domain"

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(hashedPassword, password string) bool
}

// PasswordHasher also produces hashes for new users.
type PasswordHasher interface {
	PasswordVerifier
	Hash(password string) (string, error)
}

// TokenSigner turns a payload into an access token and decodes tokens back
// into their owner claim.
type TokenSigner interface {
	Sign(payload *domain.JWTPayload) (string, error)
	Owner(accessToken string) (domain.TokenOwner, error)
}
