package features

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/contracts"
)

// nflTeams is the fixed encoding vocabulary for team one-hots. Every
// engineered row carries all of these columns so that training-time and
// prediction-time feature sets always line up.
var nflTeams = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"LAC", "LAR", "LV", "MIA", "MIN", "NE", "NO", "NYG",
	"NYJ", "PHI", "PIT", "SEA", "SF", "TB", "TEN", "WAS",
}

// Options configures the feature engineer.
type Options struct {
	// Rolling window sizes in prior weeks.
	Windows []int

	// Stat columns to build rolling aggregates for, in addition to
	// fantasy points. Columns absent from a record contribute 0.
	StatColumns []string
}

// DefaultOptions returns the standard engineering configuration.
func DefaultOptions() Options {
	return Options{
		Windows: []int{3, 5},
		StatColumns: []string{
			"rushing_yards", "rushing_touchdowns",
			"receptions", "receiving_yards", "receiving_touchdowns",
		},
	}
}

// Engineer derives model features from merged player-weeks.
//
// Every feature at week w is computed strictly from weeks < w within the
// same season. When fewer than k prior weeks exist, the window shrinks to
// what is available; with zero prior weeks every history-derived feature
// defaults to 0. That neutral default is applied consistently across all
// rolling, trend and projection-error features.
type Engineer struct {
	opts Options
	log  zerolog.Logger
}

// NewEngineer creates a feature engineer.
func NewEngineer(opts Options, log zerolog.Logger) *Engineer {
	if len(opts.Windows) == 0 {
		opts.Windows = DefaultOptions().Windows
	}
	return &Engineer{
		opts: opts,
		log:  log.With().Str("component", "features.engineer").Logger(),
	}
}

// Build produces one FeatureRow per input record. Input records are
// never mutated; ranks are assigned on a copy.
func (e *Engineer) Build(records []contracts.PlayerWeek) []contracts.FeatureRow {
	ranked := AssignRanks(records)

	type playerSeason struct {
		Name   string
		Team   string
		Season int
	}

	groups := make(map[playerSeason][]contracts.PlayerWeek)
	var order []playerSeason
	for _, pw := range ranked {
		k := playerSeason{Name: pw.Name, Team: pw.Team, Season: pw.Season}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], pw)
	}

	rows := make([]contracts.FeatureRow, 0, len(ranked))
	for _, k := range order {
		weeks := groups[k]
		sort.SliceStable(weeks, func(a, b int) bool { return weeks[a].Week < weeks[b].Week })
		rows = append(rows, e.buildPlayerSeason(weeks)...)
	}

	e.log.Info().
		Int("records", len(records)).
		Int("rows", len(rows)).
		Msg("feature engineering completed")

	return rows
}

// buildPlayerSeason walks one player's season in week order, accumulating
// history and emitting one row per week. The history never crosses a
// season boundary: each call starts empty.
func (e *Engineer) buildPlayerSeason(weeks []contracts.PlayerWeek) []contracts.FeatureRow {
	var (
		pointsHist []float64
		errorHist  []float64
		statsHist  = make(map[string][]float64, len(e.opts.StatColumns))
	)

	rows := make([]contracts.FeatureRow, 0, len(weeks))
	for _, pw := range weeks {
		f := make(map[string]float64)

		// Rolling aggregates over trailing prior weeks.
		for _, w := range e.opts.Windows {
			f[fmt.Sprintf("fantasy_points_rolling_%d", w)] = rollingMean(pointsHist, w)
			f[fmt.Sprintf("fantasy_points_rolling_%d_std", w)] = rollingStd(pointsHist, w)
			for _, stat := range e.opts.StatColumns {
				f[fmt.Sprintf("%s_rolling_%d", stat, w)] = rollingMean(statsHist[stat], w)
			}
		}

		// Trend features.
		f["fantasy_points_week_change"] = weekChange(pointsHist)
		f["fantasy_points_trend_3v3"] = recentVsPrevious(pointsHist, 3)
		f["fantasy_points_consistency"] = 1.0 / (1.0 + rollingStd(pointsHist, 5))

		// Projection-accuracy history, same season only.
		f["projection_error_mean"] = mean(errorHist)
		f["projection_error_abs_mean"] = meanAbs(errorHist)
		f["projection_vs_recent"] = pw.ProjectedPoints - rollingMean(pointsHist, 3)

		// Pre-game knowns.
		f["projected_points"] = pw.ProjectedPoints
		f["projected_rank"] = float64(pw.ProjectedRank)

		// Season context.
		f["week"] = float64(pw.Week)
		f["early_season"] = boolFeature(pw.Week <= 4)
		f["late_season"] = boolFeature(pw.Week >= 14)

		// Team one-hots over the fixed vocabulary.
		for _, team := range nflTeams {
			f["team_"+team] = boolFeature(pw.Team == team)
		}

		rows = append(rows, contracts.FeatureRow{
			Name:            pw.Name,
			Team:            pw.Team,
			Position:        pw.Position,
			Season:          pw.Season,
			Week:            pw.Week,
			ActualPoints:    pw.ActualPoints,
			ProjectedPoints: pw.ProjectedPoints,
			ActualRank:      pw.ActualRank,
			ProjectedRank:   pw.ProjectedRank,
			Features:        f,
		})

		// Only now does the current week enter the history.
		pointsHist = append(pointsHist, pw.ActualPoints)
		errorHist = append(errorHist, pw.ActualPoints-pw.ProjectedPoints)
		for _, stat := range e.opts.StatColumns {
			statsHist[stat] = append(statsHist[stat], pw.Stats[stat])
		}
	}

	return rows
}

// FeatureNames returns the sorted union of feature names across rows.
// Sorting keeps the training matrix layout deterministic.
func FeatureNames(rows []contracts.FeatureRow) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		for name := range r.Features {
			set[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
