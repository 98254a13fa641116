package repository

import (
	"context"
	"fmt"

	"aegis/internal/database"
	"aegis/internal/domain/job"

	"github.com/google/uuid"
)

// JobUpsert identifies a job by (Title, CompanyName).
type JobUpsert struct {
	Title        string
	Description  string
	CompanyName  string
	Requirements string
	Location     string
	RecruiterID  *uuid.UUID
}

type JobRepository interface {
	Create(ctx context.Context, j job.Job) error
	Upsert(ctx context.Context, in JobUpsert) (id uuid.UUID, created bool, err error)
	ListListings(ctx context.Context) ([]job.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (job.Listing, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const listingSelect = `SELECT j.id, j.company_id, j.recruiter_id, j.title, j.description,
		COALESCE(j.requirements, ''), COALESCE(j.location, ''), j.created_at,
		c.name, COALESCE(c.industry, ''), COALESCE(c.location, '')
	 FROM jobs j
	 JOIN companies c ON c.id = j.company_id`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, title, description, requirements, location, company_id, recruiter_id)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
		j.ID, j.Title, j.Description, j.Requirements, j.Location, j.CompanyID, j.RecruiterID,
	)
	return err
}

// Upsert finds or creates the company by name, then updates the job with the
// same title at that company or inserts a new one, in a single transaction.
func (r *PostgresJobRepository) Upsert(ctx context.Context, in JobUpsert) (uuid.UUID, bool, error) {
	var (
		jobID   uuid.UUID
		created bool
	)
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		companyID, err := findOrCreateCompany(ctx, tx, in.CompanyName)
		if err != nil {
			return err
		}

		row := tx.QueryRow(ctx, `SELECT id FROM jobs WHERE title = $1 AND company_id = $2 FOR UPDATE`, in.Title, companyID)
		if err := row.Scan(&jobID); err != nil {
			if !isNoRows(err) {
				return fmt.Errorf("find job: %w", err)
			}
			jobID = uuid.New()
			created = true
			_, err = tx.Exec(ctx,
				`INSERT INTO jobs (id, title, description, requirements, location, company_id, recruiter_id)
				 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)`,
				jobID, in.Title, in.Description, in.Requirements, in.Location, companyID, in.RecruiterID,
			)
			if err != nil {
				return fmt.Errorf("insert job: %w", err)
			}
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE jobs SET description = $1, requirements = NULLIF($2, ''), location = NULLIF($3, '')
			 WHERE id = $4`,
			in.Description, in.Requirements, in.Location, jobID,
		)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return jobID, created, nil
}

func findOrCreateCompany(ctx context.Context, tx database.Tx, name string) (uuid.UUID, error) {
	var id uuid.UUID
	row := tx.QueryRow(ctx,
		`INSERT INTO companies (id, name) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		uuid.New(), name,
	)
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("find or create company: %w", err)
	}
	return id, nil
}

func (r *PostgresJobRepository) ListListings(ctx context.Context) ([]job.Listing, error) {
	rows, err := r.db.Query(ctx, listingSelect+` ORDER BY j.created_at DESC, j.title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) GetListing(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx, listingSelect+` WHERE j.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return job.Listing{}, job.ErrNotFound
		}
		return job.Listing{}, err
	}
	return l, nil
}

func scanListing(row database.Row) (job.Listing, error) {
	var l job.Listing
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.RecruiterID, &l.Title, &l.Description,
		&l.Requirements, &l.Location, &l.CreatedAt,
		&l.CompanyName, &l.Industry, &l.CompanyLocation,
	)
	return l, err
}
