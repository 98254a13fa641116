package migration

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"aegis"
)

// lockKey serialises concurrent migrators across server replicas.
const lockKey int64 = 4_100_771_203

var errNilDB = errors.New("nil db")

// Runner applies V<n>__<name>.sql files from Source. A nil Source means the
// migrations embedded in the binary.
type Runner struct {
	Source fs.FS
	Logger *log.Logger
}

// Source picks the migration files for dir: the directory itself when set,
// otherwise the embedded copy.
func Source(dir string) (fs.FS, error) {
	if strings.TrimSpace(dir) == "" {
		return Embedded()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("migrations dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("migrations dir %s: not a directory", dir)
	}
	return os.DirFS(dir), nil
}

func Embedded() (fs.FS, error) {
	return fs.Sub(aegis.Migrations, "migrations")
}

// Status describes one migration file and whether it has been applied.
type Status struct {
	Version  int64
	Name     string
	Applied  bool
	Mismatch bool
}

type Migration struct {
	Version  int64
	Name     string
	Filename string
	SQL      string
	Checksum string
}

// Run applies every pending migration in version order and returns the number
// applied. An applied file whose checksum changed stops the run.
func (r Runner) Run(ctx context.Context, db *sql.DB) (int, error) {
	if db == nil {
		return 0, errNilDB
	}
	migs, err := r.load()
	if err != nil {
		return 0, err
	}
	if len(migs) == 0 {
		r.logf("level=warn msg=\"no migrations found\"")
		return 0, nil
	}

	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	applied, err := appliedChecksums(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migs {
		if sum, ok := applied[m.Version]; ok {
			if sum != m.Checksum {
				return count, fmt.Errorf("migration checksum mismatch: version=%d name=%s", m.Version, m.Name)
			}
			continue
		}

		start := time.Now()
		if err := applyOne(ctx, db, m); err != nil {
			return count, err
		}
		count++
		r.logf("level=info msg=\"migration applied\" version=%d name=%s duration_ms=%d", m.Version, m.Name, time.Since(start).Milliseconds())
	}
	return count, nil
}

// Status reports every migration file alongside its applied state without
// changing the database.
func (r Runner) Status(ctx context.Context, db *sql.DB) ([]Status, error) {
	if db == nil {
		return nil, errNilDB
	}
	migs, err := r.load()
	if err != nil {
		return nil, err
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, err
	}
	applied, err := appliedChecksums(ctx, db)
	if err != nil {
		return nil, err
	}
	return statusOf(migs, applied), nil
}

func (r Runner) load() ([]Migration, error) {
	src := r.Source
	if src == nil {
		var err error
		if src, err = Embedded(); err != nil {
			return nil, err
		}
	}
	return loadMigrations(src)
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

func statusOf(migs []Migration, applied map[int64]string) []Status {
	out := make([]Status, 0, len(migs))
	for _, m := range migs {
		st := Status{Version: m.Version, Name: m.Name}
		if sum, ok := applied[m.Version]; ok {
			st.Applied = true
			st.Mismatch = sum != m.Checksum
		}
		out = append(out, st)
	}
	return out
}

var fileRe = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)

// loadMigrations reads the top level of fsys. A missing root yields no
// migrations.
func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var migs []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m, ok, err := parseMigration(fsys, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			migs = append(migs, m)
		}
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	for i := 1; i < len(migs); i++ {
		if migs[i].Version == migs[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", migs[i].Version, migs[i-1].Filename, migs[i].Filename)
		}
	}
	return migs, nil
}

func parseMigration(fsys fs.FS, name string) (Migration, bool, error) {
	match := fileRe.FindStringSubmatch(path.Base(name))
	if match == nil {
		return Migration{}, false, nil
	}
	v, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return Migration{}, false, fmt.Errorf("invalid migration version: %s", name)
	}

	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Migration{}, false, err
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return Migration{}, false, fmt.Errorf("empty migration file: %s", name)
	}

	sum := sha256.Sum256([]byte(text))
	return Migration{
		Version:  v,
		Name:     match[2],
		Filename: name,
		SQL:      text,
		Checksum: hex.EncodeToString(sum[:]),
	}, true, nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	return err
}

func appliedChecksums(ctx context.Context, db *sql.DB) (map[int64]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		out[v] = sum
	}
	return out, rows.Err()
}

// applyOne runs the file and records it in one transaction.
func applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("apply migration version=%d file=%s: %w", m.Version, m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return err
	}
	return tx.Commit()
}
