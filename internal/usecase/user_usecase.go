package usecase

import (
	"context"
	"errors"
	"fmt"

	"aegis/internal/domain/user"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
}

// Accounts serves reads of the caller's own account.
type Accounts struct {
	users user.Repository
}

func NewUserUsecase(users user.Repository) *Accounts {
	return &Accounts{users: users}
}

func (a *Accounts) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := a.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrUserNotFound
	case err != nil:
		return user.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	usr.PasswordHash = ""
	return usr, nil
}
