package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"aegis/internal/config"
	"aegis/internal/delivery/http/dto"
	"aegis/internal/document"
	"aegis/internal/domain/matching"

	"github.com/spf13/cobra"
)

var (
	analyzeResume string
	analyzeJob    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume file against a job description",
	Long:  "Extracts text from a PDF or Word resume, scores it against the job description and prints the analysis as JSON.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to a .pdf, .docx or .doc resume (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Job description text")

	if err := analyzeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if !document.Allowed(analyzeResume) {
		return fmt.Errorf("unsupported resume file %s", filepath.Base(analyzeResume))
	}
	data, err := os.ReadFile(analyzeResume)
	if err != nil {
		return fmt.Errorf("failed to read resume %s: %w", analyzeResume, err)
	}

	res := document.Extract(analyzeResume, data)
	if res.Err != nil {
		logger.Printf("Resume parse failed | file=%q err=%v", analyzeResume, res.Err)
	}

	vocab := matching.DefaultVocabulary()
	if m := config.LoadMatching(); len(m.Vocabulary) > 0 {
		vocab = matching.NewVocabulary(m.Vocabulary...)
	}
	analysis := matching.NewEngine(vocab).Analyze(res.TextOrEmpty(), analyzeJob)

	out, err := json.MarshalIndent(dto.NewAnalysisResponse(analysis), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
