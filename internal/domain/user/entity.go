package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleProgrammer Role = "programmer"
	RoleRecruiter  Role = "recruiter"
	RoleGuide      Role = "guide"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("invalid role")
)

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleProgrammer, RoleRecruiter, RoleGuide:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
