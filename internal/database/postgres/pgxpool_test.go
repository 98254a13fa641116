package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"aegis/internal/config"
	"aegis/internal/database"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost:     " db ",
		DBPort:     "5432",
		DBName:     "aegis",
		DBUser:     "app",
		DBPassword: "it's secret",
		DBSSLMode:  "disable",
	}

	got := DSN(cfg, "aegis")
	want := `host=db port=5432 user=app dbname=aegis sslmode=disable password='it\'s secret' application_name=aegis`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDSN_NoPassword(t *testing.T) {
	cfg := config.DatabaseConfig{DBHost: "db", DBPort: "5432", DBName: "aegis", DBUser: "app", DBSSLMode: "require"}

	got := DSN(cfg, "")
	want := "host=db port=5432 user=app dbname=aegis sslmode=require"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPoolConfig_AppliesLimits(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost:              "db",
		DBPort:              "5432",
		DBName:              "aegis",
		DBUser:              "app",
		DBSSLMode:           "disable",
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        12,
		PoolMaxConnIdleTime: time.Minute,
	}

	pcfg, err := PoolConfig(cfg, "aegis")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pcfg.MaxConns != 12 || pcfg.MaxConnIdleTime != time.Minute {
		t.Fatalf("unexpected pool settings max=%d idle=%s", pcfg.MaxConns, pcfg.MaxConnIdleTime)
	}
	if pcfg.ConnConfig.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout %s", pcfg.ConnConfig.ConnectTimeout)
	}
	if pcfg.ConnConfig.RuntimeParams["application_name"] != "aegis" {
		t.Fatalf("expected application_name, got %v", pcfg.ConnConfig.RuntimeParams)
	}
}

func TestNilPoolReportsNilDB(t *testing.T) {
	var c conn
	if _, err := c.Exec(context.Background(), "SELECT 1"); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
	var n int
	if err := c.QueryRow(context.Background(), "SELECT 1").Scan(&n); !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
}
