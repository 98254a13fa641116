package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"aegis/internal/database"
)

var errSchemaMismatch = errors.New("schema mismatch")

// catalogColumns are the columns CatalogSeeder writes, per table.
var catalogColumns = map[string][]string{
	"companies": {"id", "name", "description", "location", "industry", "employees"},
	"jobs":      {"id", "title", "description", "requirements", "location", "company_id"},
}

// checkColumns reports every expected column missing from the public schema,
// so a stale database fails before any row is written.
func checkColumns(ctx context.Context, db database.DB, want map[string][]string) error {
	if db == nil {
		return database.ErrNilDB
	}

	tables := make([]string, 0, len(want))
	for t := range want {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var missing []string
	for _, table := range tables {
		have, err := tableColumns(ctx, db, table)
		if err != nil {
			return fmt.Errorf("read columns of %s: %w", table, err)
		}
		for _, col := range want[table] {
			if _, ok := have[col]; !ok {
				missing = append(missing, table+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", errSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

func tableColumns(ctx context.Context, db database.DB, table string) (map[string]struct{}, error) {
	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out[c] = struct{}{}
	}
	return out, rows.Err()
}
