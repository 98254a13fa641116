package repository

import (
	"context"

	"aegis/internal/database"
	"aegis/internal/domain/job"

	"github.com/google/uuid"
)

type CompanyRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, c job.Company) error
	ListWithRoles(ctx context.Context) ([]job.CompanyRoles, error)
}

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM companies`)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, c job.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, name, description, location, industry, employees)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))`,
		c.ID, c.Name, c.Description, c.Location, c.Industry, c.Employees,
	)
	return err
}

// ListWithRoles returns companies ordered by name, each carrying its job
// titles ordered by title. Companies without jobs have an empty role list.
func (r *PostgresCompanyRepository) ListWithRoles(ctx context.Context) ([]job.CompanyRoles, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.name, j.id, j.title
		 FROM companies c
		 LEFT JOIN jobs j ON j.company_id = c.id
		 ORDER BY c.name ASC, j.title ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.CompanyRoles, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			companyID uuid.UUID
			name      string
			jobID     *uuid.UUID
			title     *string
		)
		if err := rows.Scan(&companyID, &name, &jobID, &title); err != nil {
			return nil, err
		}

		i, ok := index[companyID]
		if !ok {
			out = append(out, job.CompanyRoles{ID: companyID, Name: name, JobRoles: []job.RoleRef{}})
			i = len(out) - 1
			index[companyID] = i
		}
		if jobID != nil && title != nil {
			out[i].JobRoles = append(out[i].JobRoles, job.RoleRef{ID: *jobID, Title: *title})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
