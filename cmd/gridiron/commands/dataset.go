package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/contracts"
	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/internal/features"
	"github.com/pcroft/gridiron/internal/pipelineconfig"
	"github.com/pcroft/gridiron/pkg/config"
	"github.com/pcroft/gridiron/pkg/logger"
)

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Dataset building tools",
	Long: `Builds the labeled training dataset from collected raw CSVs:
load each season, merge actuals with projections, engineer features
from prior weeks, and assign over/under labels.

Example:
  go run ./cmd/gridiron dataset build`,
}

// datasetBuildCmd represents the build subcommand
var datasetBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the labeled training dataset",
	RunE:  runDatasetBuild,
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetBuildCmd)
}

func runDatasetBuild(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	PrintHeader("Dataset Builder")
	PrintKV("Raw data", cfg.Data.RawDir)
	PrintKV("Seasons", pcfg.Data.Seasons)
	PrintKV("Positions", pcfg.Data.Positions)

	rows, names, err := buildLabeledDataset(cfg, log, pcfg)
	if err != nil {
		return err
	}

	out := labeledDatasetPath(cfg, pcfg)
	if err := features.WriteLabeledCSV(out, rows, names); err != nil {
		return err
	}

	fmt.Printf("\n  %d rows, %d features\n", len(rows), len(names))
	fmt.Printf("  written to %s\n", out)
	return nil
}

// buildLabeledDataset runs the load-merge-engineer-label stages for
// every configured season and position. Seasons with no data on disk
// are an error; missing weeks inside a season are skipped by the loader.
func buildLabeledDataset(cfg *config.Config, log *logger.Logger, pcfg *pipelineconfig.Config) ([]contracts.LabeledRow, []string, error) {
	loader := dataset.NewLoader(cfg.Data.RawDir, log.Zerolog())
	merger := dataset.NewMerger(log.Zerolog())
	engineer := features.NewEngineer(features.Options{
		Windows:     pcfg.Features.Windows,
		StatColumns: pcfg.Features.StatColumns,
	}, log.Zerolog())

	var merged []contracts.PlayerWeek
	for _, season := range pcfg.Data.Seasons {
		for _, pos := range pcfg.Data.Positions {
			actuals, projections, err := loader.LoadSeason(season, pos)
			if err != nil {
				var missing *contracts.MissingDataError
				if errors.As(err, &missing) {
					return nil, nil, fmt.Errorf("season %d has no %s data under %s (run collect first): %w",
						season, pos, cfg.Data.RawDir, err)
				}
				return nil, nil, err
			}
			merged = append(merged, merger.Merge(actuals, projections)...)
		}
	}

	featureRows := engineer.Build(merged)
	labeled := features.AssignLabels(featureRows)
	names := features.FeatureNames(featureRows)
	return labeled, names, nil
}

func labeledDatasetPath(cfg *config.Config, pcfg *pipelineconfig.Config) string {
	return filepath.Join(cfg.Data.ProcessedDir, pcfg.Meta.PipelineID+"_labeled.csv")
}
