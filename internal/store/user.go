package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/domain"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	// Create saves a new user. The caller must have populated
	// HashedPassword; the plaintext Password field is never persisted.
	// Returns ErrEmailExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email, including the hashed
	// password for credential verification. Returns ErrUserNotFound
	// when no user matches.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound when no
	// user matches.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
