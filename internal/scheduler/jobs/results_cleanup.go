package jobs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ResultsCleanup prunes old report and prediction exports from the
// results directory. Model artifacts are never touched.
type ResultsCleanup struct {
	resultsDir string
	maxAge     time.Duration
	log        zerolog.Logger
}

func NewResultsCleanup(resultsDir string, maxAge time.Duration, log zerolog.Logger) *ResultsCleanup {
	return &ResultsCleanup{
		resultsDir: resultsDir,
		maxAge:     maxAge,
		log:        log,
	}
}

func (j *ResultsCleanup) Name() string { return "results_cleanup" }

// Schedule runs weekly, off-peak.
func (j *ResultsCleanup) Schedule() string { return "0 4 * * 1" }

func (j *ResultsCleanup) Run(ctx context.Context) error {
	entries, err := os.ReadDir(j.resultsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.resultsDir, entry.Name())); err != nil {
			j.log.Warn().Err(err).Str("file", entry.Name()).Msg("cleanup failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("results cleanup completed")
	}
	return nil
}
