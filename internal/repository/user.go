package repository

import (
	"context"

	"docvault/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user row and returns the stored record.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID returns a user by id, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email, or sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindAll returns all users ordered by creation time ascending.
	FindAll(ctx context.Context) ([]model.User, error)

	// Update persists mutable profile fields (email, names, password hash,
	// role, active flag) and refreshes updated_at.
	Update(ctx context.Context, user *model.User) (*model.User, error)

	// Delete removes a user by id. Returns sql.ErrNoRows if absent.
	Delete(ctx context.Context, id string) error
}
