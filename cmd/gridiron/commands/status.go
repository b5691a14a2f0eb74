package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/internal/model"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show available data and trained models",
	Long: `Lists the seasons and positions available in the raw data
directory, and the trained model if one exists.

Example:
  go run ./cmd/gridiron status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadDeps()
	if err != nil {
		return err
	}

	PrintHeader("Data Inventory")
	PrintKV("Raw data", cfg.Data.RawDir)

	available, err := dataset.Available(cfg.Data.RawDir)
	if err != nil {
		return err
	}
	if len(available) == 0 {
		fmt.Println("  no data collected yet (run collect)")
	} else {
		seasons := make([]int, 0, len(available))
		for season := range available {
			seasons = append(seasons, season)
		}
		sort.Ints(seasons)

		for _, season := range seasons {
			fmt.Printf("  %d: %s\n", season, strings.Join(available[season], ", "))
		}
	}

	fmt.Println()
	PrintKV("Models", cfg.Data.ModelsDir)

	modelPath := filepath.Join(cfg.Data.ModelsDir, "model.json")
	artifact, err := model.LoadArtifact(modelPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("  no trained model (run train)")
			return nil
		}
		return err
	}

	PrintKV("Trained", artifact.TrainedAt.Format("2006-01-02 15:04"))
	PrintKV("Hash", artifact.Hash())
	PrintKV("Features", len(artifact.FeatureNames))
	PrintKV("Trees", len(artifact.Forest.Trees))
	PrintKV("Accuracy", fmt.Sprintf("%.3f", artifact.Evaluation.Accuracy))
	PrintSeparator()
	return nil
}
