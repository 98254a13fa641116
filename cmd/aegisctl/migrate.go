package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"aegis/internal/config"
	"aegis/internal/database"
	"aegis/internal/database/migration"
	dbpostgres "aegis/internal/database/postgres"

	"github.com/spf13/cobra"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "Migrations directory (defaults to DB_MIGRATIONS_DIR, then the embedded set)")
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func connect(ctx context.Context) (database.DB, config.DatabaseConfig, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, config.DatabaseConfig{}, err
	}
	if migrateDir != "" {
		cfg.MigrationsDir = migrateDir
	}
	db, err := dbpostgres.Connect(ctx, cfg, "aegisctl")
	if err != nil {
		return nil, config.DatabaseConfig{}, err
	}
	return db, cfg, nil
}

func newRunner(cfg config.DatabaseConfig) (migration.Runner, error) {
	src, err := migration.Source(cfg.MigrationsDir)
	if err != nil {
		return migration.Runner{}, err
	}
	return migration.Runner{Source: src, Logger: logger}, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, cfg, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}
	n, err := runner.Run(cmd.Context(), db.SQLDB())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	db, cfg, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(cfg)
	if err != nil {
		return err
	}
	statuses, err := runner.Status(cmd.Context(), db.SQLDB())
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATE")
	for _, s := range statuses {
		state := "pending"
		switch {
		case s.Mismatch:
			state = "checksum mismatch"
		case s.Applied:
			state = "applied"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Name, state)
	}
	return w.Flush()
}
