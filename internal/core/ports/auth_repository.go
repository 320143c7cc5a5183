package ports

import (
	"context"

	"github.com/cashback-api/cashback-system/internal/core/domain"
)

// UserRepository is the identity store.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (domain.UserInDB, error)
	Create(ctx context.Context, user domain.UserInDB) error
}
