package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"aegis/internal/database"
)

// scriptDB answers queries whose SQL contains a registered fragment.
type scriptDB struct {
	rows     map[string][][]any
	rowErr   map[string]error
	affected map[string]int64
	execs    []string

	committed  bool
	rolledBack bool
}

func newScriptDB() *scriptDB {
	return &scriptDB{
		rows:     map[string][][]any{},
		rowErr:   map[string]error{},
		affected: map[string]int64{},
	}
}

func (d *scriptDB) match(query string, m map[string][][]any) ([][]any, bool) {
	for frag, v := range m {
		if strings.Contains(query, frag) {
			return v, true
		}
	}
	return nil, false
}

func (d *scriptDB) Ping(context.Context) error { return nil }
func (d *scriptDB) Close() error               { return nil }
func (d *scriptDB) SQLDB() *sql.DB             { return nil }

func (d *scriptDB) Exec(_ context.Context, query string, _ ...any) (int64, error) {
	d.execs = append(d.execs, query)
	for frag, n := range d.affected {
		if strings.Contains(query, frag) {
			return n, nil
		}
	}
	return 1, nil
}

func (d *scriptDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	v, _ := d.match(query, d.rows)
	return &scriptRows{data: v, i: -1}, nil
}

func (d *scriptDB) QueryRow(_ context.Context, query string, _ ...any) database.Row {
	for frag, err := range d.rowErr {
		if strings.Contains(query, frag) {
			return scriptRow{err: err}
		}
	}
	v, ok := d.match(query, d.rows)
	if !ok || len(v) == 0 {
		return scriptRow{err: sql.ErrNoRows}
	}
	return scriptRow{vals: v[0]}
}

func (d *scriptDB) Begin(context.Context) (database.Tx, error) { return scriptTx{d}, nil }

type scriptTx struct{ d *scriptDB }

func (t scriptTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.d.Exec(ctx, q, args...)
}
func (t scriptTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.d.Query(ctx, q, args...)
}
func (t scriptTx) QueryRow(ctx context.Context, q string, args ...any) database.Row {
	return t.d.QueryRow(ctx, q, args...)
}
func (t scriptTx) Commit(context.Context) error {
	t.d.committed = true
	return nil
}
func (t scriptTx) Rollback(context.Context) error {
	t.d.rolledBack = true
	return nil
}

type scriptRows struct {
	data [][]any
	i    int
}

func (r *scriptRows) Close()     {}
func (r *scriptRows) Err() error { return nil }
func (r *scriptRows) Next() bool {
	r.i++
	return r.i < len(r.data)
}
func (r *scriptRows) Scan(dest ...any) error { return assign(r.data[r.i], dest) }

type scriptRow struct {
	vals []any
	err  error
}

func (r scriptRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(vals), len(dest))
	}
	for i, v := range vals {
		dv := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(v))
	}
	return nil
}
