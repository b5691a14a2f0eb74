package track

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/internal/contracts"
)

// memStore is an in-memory PredictionStore for tracker tests.
type memStore struct {
	preds    map[contracts.Key]contracts.Prediction
	outcomes map[contracts.Key]contracts.Outcome
}

func newMemStore() *memStore {
	return &memStore{
		preds:    make(map[contracts.Key]contracts.Prediction),
		outcomes: make(map[contracts.Key]contracts.Outcome),
	}
}

func (m *memStore) key(name, team string, season, week int) contracts.Key {
	return contracts.Key{Name: name, Team: team, Season: season, Week: week}
}

func (m *memStore) SavePredictions(_ context.Context, preds []contracts.Prediction) error {
	for _, p := range preds {
		m.preds[m.key(p.Name, p.Team, p.Season, p.Week)] = p
	}
	return nil
}

func (m *memStore) Unreconciled(_ context.Context, season, week int) ([]contracts.Prediction, error) {
	var out []contracts.Prediction
	for k, p := range m.preds {
		if p.Season == season && p.Week == week {
			if _, resolved := m.outcomes[k]; !resolved {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memStore) SaveOutcomes(_ context.Context, outcomes []contracts.Outcome) error {
	for _, o := range outcomes {
		m.outcomes[m.key(o.Name, o.Team, o.Season, o.Week)] = o
	}
	return nil
}

func (m *memStore) Summary(_ context.Context, season int) (*contracts.TrackingSummary, error) {
	s := &contracts.TrackingSummary{Season: season, ByWeek: make(map[int]contracts.WeekSummary)}
	for k, p := range m.preds {
		if p.Season != season {
			continue
		}
		s.Tracked++
		if o, ok := m.outcomes[k]; ok {
			s.Resolved++
			if o.Hit {
				s.Hits++
			}
		}
	}
	if s.Resolved > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Resolved)
	}
	return s, nil
}

func pred(name string, class int, projected float64) contracts.Prediction {
	return contracts.Prediction{
		Name: name, Team: "SF", Position: "RB",
		Season: 2023, Week: 5,
		Projected: projected, Class: class, Probability: 0.6,
	}
}

func actual(name string, points float64) contracts.PlayerWeek {
	return contracts.PlayerWeek{
		Name: name, Team: "SF", Position: "RB",
		Season: 2023, Week: 5, ActualPoints: points,
	}
}

func TestResolve(t *testing.T) {
	now := time.Now()
	preds := []contracts.Prediction{
		pred("Over Hit", 1, 10),  // predicted over, went over
		pred("Over Miss", 1, 10), // predicted over, went under
		pred("Under Hit", 0, 10), // predicted under, went under
		pred("Exact Tie", 1, 10), // tie resolves to label 0
		pred("Never Played", 1, 10),
	}
	actuals := []contracts.PlayerWeek{
		actual("Over Hit", 15),
		actual("Over Miss", 5),
		actual("Under Hit", 5),
		actual("Exact Tie", 10),
	}

	outcomes := Resolve(preds, actuals, now)
	require.Len(t, outcomes, 4) // Never Played stays pending

	byName := make(map[string]contracts.Outcome)
	for _, o := range outcomes {
		byName[o.Name] = o
	}

	assert.True(t, byName["Over Hit"].Hit)
	assert.Equal(t, 1, byName["Over Hit"].Label)

	assert.False(t, byName["Over Miss"].Hit)
	assert.Equal(t, 0, byName["Over Miss"].Label)

	assert.True(t, byName["Under Hit"].Hit)

	assert.Equal(t, 0, byName["Exact Tie"].Label)
	assert.False(t, byName["Exact Tie"].Hit)

	_, played := byName["Never Played"]
	assert.False(t, played)
}

func TestTrackerRecordAndReconcile(t *testing.T) {
	store := newMemStore()
	tr := NewTracker(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, tr.Record(ctx, []contracts.Prediction{
		pred("Over Hit", 1, 10),
		pred("Never Played", 1, 10),
	}))

	resolved, err := tr.Reconcile(ctx, 2023, 5, []contracts.PlayerWeek{actual("Over Hit", 15)})
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	// Second pass has nothing new to resolve.
	resolved, err = tr.Reconcile(ctx, 2023, 5, []contracts.PlayerWeek{actual("Over Hit", 15)})
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)

	summary, err := store.Summary(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Tracked)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, summary.Hits)
	assert.InDelta(t, 1.0, summary.HitRate, 1e-9)
}

func TestReconcileEmptyWeek(t *testing.T) {
	tr := NewTracker(newMemStore(), zerolog.Nop())

	resolved, err := tr.Reconcile(context.Background(), 2023, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)
}
