package contracts

import (
	"context"
	"time"
)

// PredictionStore persists issued predictions and their eventual outcomes.
type PredictionStore interface {
	// SavePredictions stores a batch of predictions, upserting on
	// (name, team, season, week, model_hash).
	SavePredictions(ctx context.Context, preds []Prediction) error

	// Unreconciled returns stored predictions for a season/week that do
	// not yet have a recorded outcome.
	Unreconciled(ctx context.Context, season, week int) ([]Prediction, error)

	// SaveOutcomes records actual results against stored predictions.
	SaveOutcomes(ctx context.Context, outcomes []Outcome) error

	// Summary aggregates tracked hit rates for a season.
	Summary(ctx context.Context, season int) (*TrackingSummary, error)
}

// Outcome is the resolved result of a tracked prediction.
type Outcome struct {
	Name   string
	Team   string
	Season int
	Week   int

	ActualPoints float64
	Label        int // realized over/under label
	Hit          bool
	ResolvedAt   time.Time
}

// TrackingSummary aggregates prediction accuracy over tracked weeks.
type TrackingSummary struct {
	Season      int
	Tracked     int
	Resolved    int
	Hits        int
	HitRate     float64
	ByWeek      map[int]WeekSummary
	GeneratedAt time.Time
}

// WeekSummary is the per-week slice of a TrackingSummary.
type WeekSummary struct {
	Resolved int
	Hits     int
	HitRate  float64
}
