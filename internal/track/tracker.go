package track

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Tracker reconciles stored predictions against actual results once a
// week's games are in the books.
type Tracker struct {
	store contracts.PredictionStore
	log   zerolog.Logger
}

func NewTracker(store contracts.PredictionStore, log zerolog.Logger) *Tracker {
	return &Tracker{store: store, log: log}
}

// Record stores a fresh batch of predictions for later reconciliation.
func (t *Tracker) Record(ctx context.Context, preds []contracts.Prediction) error {
	if err := t.store.SavePredictions(ctx, preds); err != nil {
		return err
	}
	t.log.Info().Int("predictions", len(preds)).Msg("recorded predictions")
	return nil
}

// Reconcile matches unresolved predictions for a week against the
// actual results and stores the outcomes. Predictions whose player
// never appears in the actuals stay unresolved. Returns the number of
// predictions it resolved.
func (t *Tracker) Reconcile(ctx context.Context, season, week int, actuals []contracts.PlayerWeek) (int, error) {
	pending, err := t.store.Unreconciled(ctx, season, week)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	outcomes := Resolve(pending, actuals, time.Now().UTC())
	if err := t.store.SaveOutcomes(ctx, outcomes); err != nil {
		return 0, err
	}

	t.log.Info().
		Int("season", season).
		Int("week", week).
		Int("pending", len(pending)).
		Int("resolved", len(outcomes)).
		Msg("reconciled predictions")
	return len(outcomes), nil
}

// Resolve pairs predictions with actual results by (name, team) and
// computes the realized label and hit flag. The realized label follows
// the training rule: 1 iff actual points strictly exceed the projection.
func Resolve(preds []contracts.Prediction, actuals []contracts.PlayerWeek, resolvedAt time.Time) []contracts.Outcome {
	byKey := make(map[contracts.Key]contracts.PlayerWeek, len(actuals))
	for _, pw := range actuals {
		byKey[pw.Key()] = pw
	}

	outcomes := make([]contracts.Outcome, 0, len(preds))
	for _, p := range preds {
		key := contracts.Key{Name: p.Name, Team: p.Team, Season: p.Season, Week: p.Week}
		pw, ok := byKey[key]
		if !ok {
			continue
		}

		label := 0
		if pw.ActualPoints > p.Projected {
			label = 1
		}

		outcomes = append(outcomes, contracts.Outcome{
			Name:         p.Name,
			Team:         p.Team,
			Season:       p.Season,
			Week:         p.Week,
			ActualPoints: pw.ActualPoints,
			Label:        label,
			Hit:          label == p.Class,
			ResolvedAt:   resolvedAt,
		})
	}
	return outcomes
}
