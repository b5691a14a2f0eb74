package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/predict"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the weekly lineup report",
	Long: `Scores every player with data for the requested week and writes
the ranked lineup report as text and CSV to the results directory.

Example:
  go run ./cmd/gridiron report --season 2023 --week 9`,
	RunE: runReport,
}

var (
	reportSeason int
	reportWeek   int
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportSeason, "season", 0, "season to report on (required)")
	reportCmd.Flags().IntVar(&reportWeek, "week", 0, "week to report on (required)")
	_ = reportCmd.MarkFlagRequired("season")
	_ = reportCmd.MarkFlagRequired("week")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	predictor, weekRows, err := loadWeekFeatures(cfg, log, pcfg, reportSeason, reportWeek)
	if err != nil {
		return err
	}

	preds, err := predictor.PredictAll(weekRows)
	if err != nil {
		return err
	}

	report := predict.NewReport(reportSeason, reportWeek, preds)
	text := report.Render()
	fmt.Print(text)

	base := fmt.Sprintf("week_%d_%d_report", reportSeason, reportWeek)
	txtPath := filepath.Join(cfg.Data.ResultsDir, base+".txt")
	if err := os.MkdirAll(cfg.Data.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	csvPath := filepath.Join(cfg.Data.ResultsDir, base+".csv")
	if err := report.WriteCSV(csvPath); err != nil {
		return err
	}

	fmt.Printf("Report saved to %s\n", txtPath)
	fmt.Printf("CSV exported to %s\n", csvPath)
	return nil
}
