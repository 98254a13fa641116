package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores accounts. Email lookups are case-insensitive; Create
// returns ErrEmailTaken when the address is already registered under any
// role, and lookups return ErrNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByEmailAndRole(ctx context.Context, email string, role Role) (User, error)
	// ListByRole returns users with role ordered by name.
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
