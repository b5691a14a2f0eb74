package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/contracts"
	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/internal/fetch"
	"github.com/pcroft/gridiron/internal/track"
)

// WeeklyRefresh pulls newly published weeks from the upstream source
// and reconciles any tracked predictions against the fresh actuals.
// Runs Tuesday mornings, after Monday night games are final.
type WeeklyRefresh struct {
	collector *fetch.Collector
	loader    *dataset.Loader
	merger    *dataset.Merger
	tracker   *track.Tracker // nil when tracking is not configured
	positions []string
	season    int
	log       zerolog.Logger
}

func NewWeeklyRefresh(
	collector *fetch.Collector,
	loader *dataset.Loader,
	merger *dataset.Merger,
	tracker *track.Tracker,
	positions []string,
	season int,
	log zerolog.Logger,
) *WeeklyRefresh {
	return &WeeklyRefresh{
		collector: collector,
		loader:    loader,
		merger:    merger,
		tracker:   tracker,
		positions: positions,
		season:    season,
		log:       log,
	}
}

func (j *WeeklyRefresh) Name() string { return "weekly_refresh" }

func (j *WeeklyRefresh) Schedule() string { return "0 6 * * 2" }

func (j *WeeklyRefresh) Run(ctx context.Context) error {
	for _, pos := range j.positions {
		results, err := j.collector.FetchSeason(ctx, pos, j.season)
		if err != nil {
			return fmt.Errorf("collect %s season %d: %w", pos, j.season, err)
		}
		if len(results) == 0 {
			continue
		}

		if j.tracker == nil {
			continue
		}

		latest := results[len(results)-1].Week
		actuals, err := j.loadWeek(pos, latest)
		if err != nil {
			return err
		}

		if _, err := j.tracker.Reconcile(ctx, j.season, latest, actuals); err != nil {
			return fmt.Errorf("reconcile %s week %d: %w", pos, latest, err)
		}
	}
	return nil
}

func (j *WeeklyRefresh) loadWeek(pos string, week int) ([]contracts.PlayerWeek, error) {
	actuals, projections, err := j.loader.LoadWeek(j.season, week, pos)
	if err != nil {
		var missing *contracts.MissingDataError
		if errors.As(err, &missing) {
			j.log.Warn().Int("week", week).Str("position", pos).Msg("collected week not readable yet")
			return nil, nil
		}
		return nil, err
	}
	return j.merger.Merge(actuals, projections), nil
}
