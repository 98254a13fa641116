package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) Row        { return nil }
func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Ping(context.Context) error                          { return nil }
func (d *fakeDB) Close() error                                        { return nil }
func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) Row        { return nil }
func (d *fakeDB) Begin(context.Context) (Tx, error)                   { return d.tx, nil }
func (d *fakeDB) SQLDB() *sql.DB                                      { return nil }

func TestWithTx_Commit(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	if err := WithTx(context.Background(), db, func(Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !db.tx.committed || db.tx.rolledBack {
		t.Fatalf("expected commit only, got %+v", db.tx)
	}
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	boom := errors.New("boom")
	err := WithTx(context.Background(), db, func(Tx) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if db.tx.committed || !db.tx.rolledBack {
		t.Fatalf("expected rollback only, got %+v", db.tx)
	}
}

func TestWithTx_NilDB(t *testing.T) {
	if err := WithTx(context.Background(), nil, func(Tx) error { return nil }); !errors.Is(err, ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
}
