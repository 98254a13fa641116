package seeder

import (
	"context"

	"aegis/internal/database"
	"aegis/internal/domain/job"
	"aegis/internal/repository"

	"github.com/google/uuid"
)

// CatalogSeeder inserts the sample companies and their starter job. It does
// nothing once any company exists.
type CatalogSeeder struct{}

func (CatalogSeeder) Name() string { return "catalog" }

func (CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	if err := checkColumns(ctx, db, catalogColumns); err != nil {
		return err
	}

	companies := repository.NewPostgresCompanyRepository(db)
	n, err := companies.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	techCorp := job.Company{ID: uuid.New(), Name: "TechCorp", Description: "AI + ML", Location: "SF", Industry: "Tech", Employees: "500-1000"}
	dataFlow := job.Company{ID: uuid.New(), Name: "DataFlow", Description: "Big Data", Location: "Austin", Industry: "Analytics", Employees: "100-500"}
	for _, c := range []job.Company{techCorp, dataFlow} {
		if err := companies.Create(ctx, c); err != nil {
			return err
		}
	}

	return repository.NewPostgresJobRepository(db).Create(ctx, job.Job{
		ID:           uuid.New(),
		CompanyID:    techCorp.ID,
		Title:        "Full-Stack Dev",
		Description:  "Build web apps",
		Requirements: "React, Node.js",
		Location:     "Remote",
	})
}
