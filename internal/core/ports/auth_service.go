package ports

import (
	"context"

	"github.com/cashback-api/cashback-system/internal/core/domain"
)

// NewUserInput carries the attributes of a user being provisioned.
type NewUserInput struct {
	Username string
	Password string
	FullName domain.Optional[string]
	Email    domain.Optional[string]
}

type AuthService interface {
	Register(ctx context.Context, in NewUserInput) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.Token, error)
	CurrentUser(ctx context.Context, accessToken string) (domain.User, error)
}
