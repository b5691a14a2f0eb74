package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/contracts"
	"github.com/pcroft/gridiron/internal/pipelineconfig"
	"github.com/pcroft/gridiron/internal/predict"
	"github.com/pcroft/gridiron/internal/track"
	"github.com/pcroft/gridiron/pkg/config"
	"github.com/pcroft/gridiron/pkg/database"
	"github.com/pcroft/gridiron/pkg/logger"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score players for a week",
	Long: `Scores every player with data for the requested week against the
trained model and writes a ranked report. Features come strictly from
the weeks before the requested one.

Example:
  go run ./cmd/gridiron predict --season 2023 --week 9
  go run ./cmd/gridiron predict --season 2023 --week 9 --player "Christian McCaffrey"
  go run ./cmd/gridiron predict --season 2023 --week 9 --interactive`,
	RunE: runPredict,
}

var (
	predictSeason      int
	predictWeek        int
	predictPlayer      string
	predictInteractive bool
)

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().IntVar(&predictSeason, "season", 0, "season to predict (required)")
	predictCmd.Flags().IntVar(&predictWeek, "week", 0, "week to predict (required)")
	predictCmd.Flags().StringVar(&predictPlayer, "player", "", "predict a single player")
	predictCmd.Flags().BoolVar(&predictInteractive, "interactive", false, "prompt for player names on stdin")
	_ = predictCmd.MarkFlagRequired("season")
	_ = predictCmd.MarkFlagRequired("week")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	predictor, weekRows, err := loadWeekFeatures(cfg, log, pcfg, predictSeason, predictWeek)
	if err != nil {
		return err
	}

	if predictInteractive {
		return runInteractive(predictor, weekRows)
	}
	if predictPlayer != "" {
		return predictOne(predictor, weekRows, predictPlayer)
	}

	preds, err := predictor.PredictAll(weekRows)
	if err != nil {
		return err
	}

	report := predict.NewReport(predictSeason, predictWeek, preds)
	fmt.Print(report.Render())

	csvPath := filepath.Join(cfg.Data.ResultsDir,
		fmt.Sprintf("week_%d_%d_predictions.csv", predictSeason, predictWeek))
	if err := report.WriteCSV(csvPath); err != nil {
		return err
	}
	fmt.Printf("CSV exported to %s\n", csvPath)

	// Record for later reconciliation when a tracking DB is configured.
	if cfg.Database.Enabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect tracking database: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		repo := track.NewRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := track.NewTracker(repo, log.Zerolog()).Record(ctx, preds); err != nil {
			return err
		}
		fmt.Printf("Recorded %d predictions for tracking\n", len(preds))
	}
	return nil
}

// loadWeekFeatures loads the model and engineers feature rows for one
// week. The requested week's rows carry aggregates of the weeks strictly
// before it, so scoring a week never sees its own results.
func loadWeekFeatures(cfg *config.Config, log *logger.Logger, pcfg *pipelineconfig.Config, season, week int) (*predict.Predictor, []contracts.FeatureRow, error) {
	predictor, err := predict.Load(filepath.Join(cfg.Data.ModelsDir, "model.json"), log.Zerolog())
	if err != nil {
		return nil, nil, fmt.Errorf("load model (run train first): %w", err)
	}

	scoped := *pcfg
	scoped.Data.Seasons = []int{season}
	labeled, _, err := buildLabeledDataset(cfg, log, &scoped)
	if err != nil {
		return nil, nil, err
	}

	var weekRows []contracts.FeatureRow
	for _, row := range labeled {
		if row.Week == week {
			weekRows = append(weekRows, row.FeatureRow)
		}
	}
	if len(weekRows) == 0 {
		return nil, nil, fmt.Errorf("no data for season %d week %d", season, week)
	}
	return predictor, weekRows, nil
}

// predictOne scores a single player, matched case-insensitively with
// substring fallback.
func predictOne(predictor *predict.Predictor, rows []contracts.FeatureRow, name string) error {
	row, ok := findPlayer(rows, name)
	if !ok {
		return fmt.Errorf("no data for player %q in week %d", name, predictWeek)
	}

	pred, err := predictor.Predict(row)
	if err != nil {
		return err
	}
	displayPrediction(pred)
	return nil
}

// runInteractive prompts for player names until EOF or "quit".
func runInteractive(predictor *predict.Predictor, rows []contracts.FeatureRow) error {
	fmt.Printf("Interactive predictor: week %d, %d (type a player name, or quit)\n", predictWeek, predictSeason)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "quit") || strings.EqualFold(name, "exit") {
			break
		}

		row, ok := findPlayer(rows, name)
		if !ok {
			fmt.Printf("no data for player %q in week %d\n", name, predictWeek)
			continue
		}

		pred, err := predictor.Predict(row)
		if err != nil {
			return err
		}
		displayPrediction(pred)
	}
	return scanner.Err()
}

func findPlayer(rows []contracts.FeatureRow, name string) (contracts.FeatureRow, bool) {
	for _, row := range rows {
		if strings.EqualFold(row.Name, name) {
			return row, true
		}
	}
	// Substring fallback for partial names.
	lower := strings.ToLower(name)
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Name), lower) {
			return row, true
		}
	}
	return contracts.FeatureRow{}, false
}

func displayPrediction(pred contracts.Prediction) {
	direction := "UNDER-PERFORM"
	if pred.Class == 1 {
		direction = "OVER-PERFORM"
	}

	PrintHeader("Prediction")
	PrintKV("Player", pred.Name)
	PrintKV("Week", fmt.Sprintf("%d (%d)", pred.Week, pred.Season))
	PrintKV("Projection", fmt.Sprintf("%.1f fantasy points", pred.Projected))
	PrintKV("Prediction", direction)
	PrintKV("P(over)", fmt.Sprintf("%.1f%%", 100*pred.Probability))
	PrintKV("Confidence", predict.Confidence(pred))
	PrintKV("Recommendation", string(predict.Recommend(pred)))
	PrintSeparator()
}
