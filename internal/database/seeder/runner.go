package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"aegis/internal/database"
)

type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("level=info msg=\"seeder finished\" name=%s duration_ms=%d", s.Name(), time.Since(start).Milliseconds())
		}
	}
	return nil
}
