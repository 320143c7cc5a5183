package security

import (
	"errors"
	"strings"
)

var (
	ErrMissingAuthorization = errors.New("missing authorization header")
	ErrInvalidAuthorization = errors.New("invalid authorization header")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthorization
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidAuthorization
	}
	return strings.TrimSpace(parts[1]), nil
}
