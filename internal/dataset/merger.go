package dataset

import (
	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Merger joins actual and projected records into one PlayerWeek per
// (player, team, season, week) key present on both sides.
type Merger struct {
	log zerolog.Logger
}

// NewMerger creates a merger.
func NewMerger(log zerolog.Logger) *Merger {
	return &Merger{log: log.With().Str("component", "dataset.merger").Logger()}
}

// Merge inner-joins actuals with projections. Rows present on only one
// side are dropped: a player with no projection is not predictable, and a
// projection with no result is not learnable. Duplicate keys within a side
// keep the first encountered row; duplicates are logged, not corrected.
func (m *Merger) Merge(actuals, projections []Record) []contracts.PlayerWeek {
	projByKey := make(map[contracts.Key]Record, len(projections))
	for _, p := range projections {
		key := recordKey(p)
		if _, exists := projByKey[key]; exists {
			m.log.Warn().Stringer("key", key).Msg("duplicate projection row discarded (first wins)")
			continue
		}
		projByKey[key] = p
	}

	seen := make(map[contracts.Key]struct{}, len(actuals))
	merged := make([]contracts.PlayerWeek, 0, len(actuals))
	actualOnly := 0

	for _, a := range actuals {
		key := recordKey(a)
		if _, dup := seen[key]; dup {
			m.log.Warn().Stringer("key", key).Msg("duplicate actual row discarded (first wins)")
			continue
		}
		seen[key] = struct{}{}

		proj, ok := projByKey[key]
		if !ok {
			actualOnly++
			continue
		}

		stats := make(map[string]float64, len(a.Stats))
		for k, v := range a.Stats {
			stats[k] = v
		}

		merged = append(merged, contracts.PlayerWeek{
			Name:            a.Name,
			Team:            a.Team,
			Position:        a.Position,
			Opponent:        a.Opponent,
			Season:          a.Season,
			Week:            a.Week,
			Stats:           stats,
			ActualPoints:    a.Points,
			ProjectedPoints: proj.Points,
		})
	}

	m.log.Info().
		Int("actuals", len(actuals)).
		Int("projections", len(projections)).
		Int("merged", len(merged)).
		Int("actual_only", actualOnly).
		Int("projection_only", len(projByKey)-len(merged)).
		Msg("merge completed")

	return merged
}

func recordKey(r Record) contracts.Key {
	return contracts.Key{Name: r.Name, Team: r.Team, Season: r.Season, Week: r.Week}
}
