// Command aegisctl runs database maintenance and offline resume analysis.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

var rootCmd = &cobra.Command{
	Use:           "aegisctl",
	Short:         "Aegis maintenance tool",
	Long:          "aegisctl applies database migrations, seeds the demo catalog and scores resumes against a job description from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
