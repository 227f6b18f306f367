package auth

import "context"

// UserRepository defines user storage operations.
type UserRepository interface {
	// GetByEmail retrieves a user by email, lowercased.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Upsert creates the user or refreshes its display name and role.
	Upsert(ctx context.Context, user *User) error
}
