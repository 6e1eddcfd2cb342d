package auth

import (
	"context"

	"davrcash/internal/core/id"
)

// UserRepository defines user storage. Implementations load the user's
// roles, permissions and terminal assignments alongside the row.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, userID id.ID) error
}
