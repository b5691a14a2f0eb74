package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/contracts"
	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/internal/track"
	"github.com/pcroft/gridiron/pkg/config"
	"github.com/pcroft/gridiron/pkg/database"
	"github.com/pcroft/gridiron/pkg/logger"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Prediction tracking tools",
	Long: `Reconciles stored predictions against actual results and reports
hit rates. Requires a tracking database (DATABASE_URL).

Example:
  go run ./cmd/gridiron track reconcile --season 2023 --week 9
  go run ./cmd/gridiron track summary --season 2023`,
}

// trackReconcileCmd represents the reconcile subcommand
var trackReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Resolve stored predictions against actual results",
	RunE:  runTrackReconcile,
}

// trackSummaryCmd represents the summary subcommand
var trackSummaryCmd = &cobra.Command{
	Use:   "summary [season]",
	Short: "Report tracked hit rates for a season",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackSummary,
}

var (
	trackSeason int
	trackWeek   int
)

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackReconcileCmd)
	trackCmd.AddCommand(trackSummaryCmd)

	trackReconcileCmd.Flags().IntVar(&trackSeason, "season", 0, "season to reconcile (required)")
	trackReconcileCmd.Flags().IntVar(&trackWeek, "week", 0, "week to reconcile (required)")
	_ = trackReconcileCmd.MarkFlagRequired("season")
	_ = trackReconcileCmd.MarkFlagRequired("week")
}

// trackingRepo connects to the tracking database and ensures its schema.
func trackingRepo(cfg *config.Config) (*database.DB, *track.Repository, error) {
	if !cfg.Database.Enabled() {
		return nil, nil, fmt.Errorf("tracking requires DATABASE_URL to be set")
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect tracking database: %w", err)
	}

	repo := track.NewRepository(db.Pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}

func runTrackReconcile(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	db, repo, err := trackingRepo(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	actuals, err := loadWeekActuals(cfg, log, pcfg.Data.Positions, trackSeason, trackWeek)
	if err != nil {
		return err
	}

	tracker := track.NewTracker(repo, log.Zerolog())
	resolved, err := tracker.Reconcile(context.Background(), trackSeason, trackWeek, actuals)
	if err != nil {
		return err
	}

	PrintHeader("Reconciliation")
	PrintKV("Season", trackSeason)
	PrintKV("Week", trackWeek)
	PrintKV("Resolved", resolved)
	return nil
}

func runTrackSummary(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadDeps()
	if err != nil {
		return err
	}
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	db, repo, err := trackingRepo(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := repo.Summary(context.Background(), season)
	if err != nil {
		return err
	}

	PrintHeader(fmt.Sprintf("Tracking Summary - %d", season))
	PrintKV("Tracked", summary.Tracked)
	PrintKV("Resolved", summary.Resolved)
	PrintKV("Hits", summary.Hits)
	PrintKV("Hit rate", fmt.Sprintf("%.1f%%", 100*summary.HitRate))

	weeks := make([]int, 0, len(summary.ByWeek))
	for week := range summary.ByWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	if len(weeks) > 0 {
		fmt.Println()
		for _, week := range weeks {
			ws := summary.ByWeek[week]
			fmt.Printf("  week %-2d: %d/%d hits (%.1f%%)\n", week, ws.Hits, ws.Resolved, 100*ws.HitRate)
		}
	}
	PrintSeparator()
	return nil
}

// loadWeekActuals loads and merges one week's data for every position.
func loadWeekActuals(cfg *config.Config, log *logger.Logger, positions []string, season, week int) ([]contracts.PlayerWeek, error) {
	loader := dataset.NewLoader(cfg.Data.RawDir, log.Zerolog())
	merger := dataset.NewMerger(log.Zerolog())

	var merged []contracts.PlayerWeek
	for _, pos := range positions {
		actuals, projections, err := loader.LoadWeek(season, week, pos)
		if err != nil {
			return nil, err
		}
		merged = append(merged, merger.Merge(actuals, projections)...)
	}
	return merged, nil
}
