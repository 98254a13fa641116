package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"aegis/internal/config"
	"aegis/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Pool implements database.DB on a pgx pool. SQLDB exposes the same pool
// through database/sql for the migration runner and prepared statements.
type Pool struct {
	conn
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

// DSN renders the keyword/value connection string for cfg. appName is sent
// as application_name so sessions are identifiable in pg_stat_activity.
func DSN(cfg config.DatabaseConfig, appName string) string {
	parts := []string{
		"host=" + strings.TrimSpace(cfg.DBHost),
		"port=" + strings.TrimSpace(cfg.DBPort),
		"user=" + strings.TrimSpace(cfg.DBUser),
		"dbname=" + strings.TrimSpace(cfg.DBName),
		"sslmode=" + strings.TrimSpace(cfg.DBSSLMode),
	}
	if cfg.DBPassword != "" {
		parts = append(parts, "password="+quoteDSNValue(cfg.DBPassword))
	}
	if appName = strings.TrimSpace(appName); appName != "" {
		parts = append(parts, "application_name="+quoteDSNValue(appName))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// PoolConfig parses the DSN for cfg and applies the pool limits that are set.
func PoolConfig(cfg config.DatabaseConfig, appName string) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(DSN(cfg, appName))
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	setIf := func(v time.Duration, dst *time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	setIf(cfg.ConnectTimeout, &pcfg.ConnConfig.ConnectTimeout)
	setIf(cfg.PoolMaxConnLifetime, &pcfg.MaxConnLifetime)
	setIf(cfg.PoolMaxConnIdleTime, &pcfg.MaxConnIdleTime)
	setIf(cfg.PoolHealthCheckPeriod, &pcfg.HealthCheckPeriod)
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}
	if cfg.PoolMinConns > 0 {
		pcfg.MinConns = cfg.PoolMinConns
	}
	return pcfg, nil
}

func Connect(ctx context.Context, cfg config.DatabaseConfig, appName string) (database.DB, error) {
	pcfg, err := PoolConfig(cfg, appName)
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping %s:%s: %w", cfg.DBHost, cfg.DBPort, err)
	}

	return &Pool{conn: conn{q: p}, pool: p, sqlDB: stdlib.OpenDBFromPool(p)}, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return database.ErrNilDB
	}
	return p.pool.Ping(ctx)
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	var err error
	if p.sqlDB != nil {
		err = p.sqlDB.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return err
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	if p == nil || p.pool == nil {
		return nil, database.ErrNilDB
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return txConn{conn: conn{q: tx}, tx: tx}, nil
}

func (p *Pool) SQLDB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.sqlDB
}

// querier is the part of the pgx API shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

type conn struct {
	q querier
}

func (c conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if c.q == nil {
		return 0, database.ErrNilDB
	}
	tag, err := c.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c conn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if c.q == nil {
		return nil, database.ErrNilDB
	}
	return c.q.Query(ctx, query, args...)
}

func (c conn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if c.q == nil {
		return errRow{err: database.ErrNilDB}
	}
	return c.q.QueryRow(ctx, query, args...)
}

type txConn struct {
	conn
	tx pgx.Tx
}

func (t txConn) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t txConn) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
