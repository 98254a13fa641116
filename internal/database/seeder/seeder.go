package seeder

import (
	"context"

	"aegis/internal/database"
)

// Seeder writes fixture data. Implementations must be safe to run on every
// boot.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults is the seed set used by the server and aegisctl.
func Defaults() []Seeder {
	return []Seeder{CatalogSeeder{}}
}
