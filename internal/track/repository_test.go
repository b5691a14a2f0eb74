package track

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/internal/contracts"
)

func TestRepositoryRoundTrip(t *testing.T) {
	// Skip if running in CI without database
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "database connection failed")
	defer pool.Close()

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	season := 1999 // kept clear of real data
	_, err = pool.Exec(ctx, "DELETE FROM predictions WHERE season = $1", season)
	require.NoError(t, err)

	preds := []contracts.Prediction{
		{Name: "A", Team: "SF", Position: "RB", Season: season, Week: 1,
			Projected: 10, Class: 1, Probability: 0.8, ModelHash: "test", CreatedAt: time.Now().UTC()},
		{Name: "B", Team: "DAL", Position: "RB", Season: season, Week: 1,
			Projected: 12, Class: 0, Probability: 0.3, ModelHash: "test", CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.SavePredictions(ctx, preds))

	// Upsert: saving again must not duplicate.
	require.NoError(t, repo.SavePredictions(ctx, preds))

	pending, err := repo.Unreconciled(ctx, season, 1)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "A", pending[0].Name) // ordered by probability desc

	outcomes := []contracts.Outcome{
		{Name: "A", Team: "SF", Season: season, Week: 1,
			ActualPoints: 15, Label: 1, Hit: true, ResolvedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.SaveOutcomes(ctx, outcomes))

	pending, err = repo.Unreconciled(ctx, season, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].Name)

	summary, err := repo.Summary(ctx, season)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Tracked)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, summary.Hits)
	assert.InDelta(t, 1.0, summary.HitRate, 1e-9)
	assert.Equal(t, 1, summary.ByWeek[1].Hits)
}
