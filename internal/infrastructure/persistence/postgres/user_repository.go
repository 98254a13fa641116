package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"aegis/internal/database"
	"aegis/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, role, created_at`

// UserRepository keeps prepared statements on the pool's database/sql view
// for the lookups hit on every login and token refresh.
type UserRepository struct {
	db database.DB

	stmtCreate            *sql.Stmt
	stmtGetByID           *sql.Stmt
	stmtGetByEmail        *sql.Stmt
	stmtGetByEmailAndRole *sql.Stmt
	stmtListByRole        *sql.Stmt
}

func NewUserRepository(ctx context.Context, db database.DB) (*UserRepository, error) {
	sqlDB := db.SQLDB()
	if sqlDB == nil {
		return nil, database.ErrNilDB
	}
	r := &UserRepository{db: db}

	prepare := func(dst **sql.Stmt, query string) error {
		stmt, err := sqlDB.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		*dst = stmt
		return nil
	}

	for _, p := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.stmtCreate, `INSERT INTO users (id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5)`},
		{&r.stmtGetByID, `SELECT ` + userColumns + ` FROM users WHERE id = $1`},
		{&r.stmtGetByEmail, `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`},
		{&r.stmtGetByEmailAndRole, `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) AND role = $2`},
		{&r.stmtListByRole, `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY name ASC`},
	} {
		if err := prepare(p.dst, p.query); err != nil {
			_ = r.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *UserRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtCreate)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetByEmail)
	closeStmt(r.stmtGetByEmailAndRole)
	closeStmt(r.stmtListByRole)

	return firstErr
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.stmtCreate.ExecContext(ctx, u.ID, u.Name, strings.TrimSpace(u.Email), u.PasswordHash, string(u.Role))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.stmtGetByEmail.QueryRowContext(ctx, strings.TrimSpace(email)))
}

func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email string, role user.Role) (user.User, error) {
	return scanUser(r.stmtGetByEmailAndRole.QueryRowContext(ctx, strings.TrimSpace(email), string(role)))
}

func (r *UserRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	rows, err := r.stmtListByRole.QueryContext(ctx, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}
