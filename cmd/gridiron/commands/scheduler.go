package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/internal/fetch"
	"github.com/pcroft/gridiron/internal/scheduler"
	"github.com/pcroft/gridiron/internal/scheduler/jobs"
	"github.com/pcroft/gridiron/internal/track"
	"github.com/pcroft/gridiron/pkg/database"
	"github.com/pcroft/gridiron/pkg/httputil"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the in-season job scheduler",
	Long: `Runs the scheduler in the foreground. During the season the
weekly refresh job pulls newly published weeks every Tuesday morning
and reconciles tracked predictions against the fresh results.

Example:
  go run ./cmd/gridiron scheduler --season 2023`,
	RunE: runScheduler,
}

var schedulerSeason int

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().IntVar(&schedulerSeason, "season", 0, "season to refresh (required)")
	_ = schedulerCmd.MarkFlagRequired("season")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	client := httputil.New(log, cfg.Upstream.Timeout, cfg.Upstream.RatePerSecond)
	collector := fetch.NewCollector(client, cfg.Upstream.BaseURL, cfg.Data.RawDir, log.Zerolog())
	if cfg.Upstream.ProjectionsURL != "" {
		collector = collector.WithProjectionsFallback(cfg.Upstream.ProjectionsURL)
	}
	loader := dataset.NewLoader(cfg.Data.RawDir, log.Zerolog())
	merger := dataset.NewMerger(log.Zerolog())

	// Tracking is optional; without a database the job only collects.
	var tracker *track.Tracker
	if cfg.Database.Enabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect tracking database: %w", err)
		}
		defer db.Close()

		repo := track.NewRepository(db.Pool)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		tracker = track.NewTracker(repo, log.Zerolog())
	}

	sched := scheduler.New(log)
	refresh := jobs.NewWeeklyRefresh(collector, loader, merger, tracker,
		pcfg.Data.Positions, schedulerSeason, log.Zerolog())
	if err := sched.AddJob(refresh); err != nil {
		return err
	}
	cleanup := jobs.NewResultsCleanup(cfg.Data.ResultsDir, 90*24*time.Hour, log.Zerolog())
	if err := sched.AddJob(cleanup); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	PrintHeader("Scheduler")
	PrintKV("Season", schedulerSeason)
	PrintKV("Jobs", sched.Jobs())
	fmt.Println("  running, Ctrl-C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Println("\nshutting down")
	return nil
}
