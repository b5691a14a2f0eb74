package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/internal/fetch"
	"github.com/pcroft/gridiron/pkg/httputil"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [season]",
	Short: "Download weekly stat and projection CSVs",
	Long: `Downloads actual and projected weekly CSVs from the upstream
source into the local raw-data layout. Collection stops at the first
week the upstream has not published yet.

Example:
  go run ./cmd/gridiron collect 2023
  go run ./cmd/gridiron collect 2023 --week 9
  go run ./cmd/gridiron collect --sample`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollect,
}

var (
	collectWeek   int
	collectSample bool
)

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().IntVar(&collectWeek, "week", 0, "collect a single week instead of the whole season")
	collectCmd.Flags().BoolVar(&collectSample, "sample", false, "generate a synthetic sample dataset instead of downloading")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadDeps()
	if err != nil {
		return err
	}
	pcfg, err := loadPipeline()
	if err != nil {
		return err
	}

	if collectSample {
		PrintHeader("Sample Data Generator")
		PrintKV("Root", cfg.Data.RawDir)
		PrintKV("Seasons", pcfg.Data.Seasons)

		if err := dataset.GenerateSample(cfg.Data.RawDir, pcfg.Data.Seasons, dataset.MaxWeeks, pcfg.Model.Seed); err != nil {
			return fmt.Errorf("generate sample data: %w", err)
		}
		fmt.Println("\nSample data written")
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("season argument required (e.g. collect 2023)")
	}
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	PrintHeader("Data Collector")
	PrintKV("Season", season)
	PrintKV("Positions", pcfg.Data.Positions)
	PrintKV("Source", cfg.Upstream.BaseURL)

	client := httputil.New(log, cfg.Upstream.Timeout, cfg.Upstream.RatePerSecond)
	collector := fetch.NewCollector(client, cfg.Upstream.BaseURL, cfg.Data.RawDir, log.Zerolog())
	if cfg.Upstream.ProjectionsURL != "" {
		collector = collector.WithProjectionsFallback(cfg.Upstream.ProjectionsURL)
	}

	ctx := context.Background()
	for _, pos := range pcfg.Data.Positions {
		if collectWeek > 0 {
			res, err := collector.FetchWeek(ctx, pos, season, collectWeek)
			if err != nil {
				return err
			}
			if !res.Fetched {
				fmt.Printf("  %s week %d not available upstream\n", pos, collectWeek)
				continue
			}
			fmt.Printf("  %s week %d collected\n", pos, collectWeek)
			continue
		}

		results, err := collector.FetchSeason(ctx, pos, season)
		if err != nil {
			return err
		}
		fmt.Printf("  %s: %d weeks collected\n", pos, len(results))
	}

	fmt.Println("\nCollection complete")
	return nil
}
