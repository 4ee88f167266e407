package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// UserStore persists users and their avatars.
type UserStore interface {
	// Create hashes user.Password, then stores the user and avatar in one
	// transaction. Returns ErrEmailExists when the email is taken.
	Create(ctx context.Context, user *domain.User, avatar *domain.Avatar) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound if the user does not exist.
	// The returned user carries HashedPassword and no plaintext password.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetProfile returns the user's public fields and avatar file key.
	// AvatarURL is left empty. Returns ErrUserNotFound if the user does not exist.
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}
