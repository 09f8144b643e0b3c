package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository handles persistence for the user aggregate.
type UserRepository interface {
	// Save persists a user, inserting or updating as needed.
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail retrieves a user by email address.
	FindByEmail(ctx context.Context, email Email) (*User, error)

	// FindByIDs retrieves multiple users by ID. Missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
}
