package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aegis/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// account validates the input and returns the user to store, without a
// password hash.
func (in RegisterInput) account() (user.User, error) {
	u := user.User{
		Name:  strings.TrimSpace(in.Name),
		Email: normalizeEmail(in.Email),
	}
	if u.Name == "" || u.Email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return user.User{}, ErrInvalidInput
	}
	role, err := user.ParseRole(in.Role)
	if err != nil {
		return user.User{}, ErrInvalidRole
	}
	u.Role = role
	return u, nil
}

type LoginInput struct {
	Email    string
	Password string
	Role     string
}

// Service owns credentials: account creation and password checks.
type Service struct {
	users user.Repository
	cost  int
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	u, err := in.account()
	if err != nil {
		return user.User{}, err
	}

	switch _, err := s.users.GetByEmail(ctx, u.Email); {
	case err == nil:
		return user.User{}, ErrEmailAlreadyRegistered
	case !errors.Is(err, user.ErrNotFound):
		return user.User{}, fmt.Errorf("%w: lookup email: %v", ErrInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}
	u.ID = uuid.New()
	u.PasswordHash = string(hash)

	// The unique index still decides a concurrent registration.
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}

	u.PasswordHash = ""
	return u, nil
}

// Login matches on email and role together, so the same address registered
// under another role does not authenticate.
func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	role, err := user.ParseRole(in.Role)
	if email == "" || in.Password == "" || err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmailAndRole(ctx, email, role)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrInvalidCredentials
	case err != nil:
		return user.User{}, fmt.Errorf("%w: lookup user: %v", ErrInternal, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return user.User{}, ErrInvalidCredentials
	}

	u.PasswordHash = ""
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
