package main

import (
	"fmt"

	"aegis/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo companies and jobs into an empty catalog",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	db, _, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
	if err := r.Run(cmd.Context(), db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "seeding complete")
	return nil
}
