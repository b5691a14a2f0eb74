package track

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Repository persists predictions and outcomes in Postgres. It is
// optional infrastructure: the pipeline runs without a database, and
// tracking is only wired up when one is configured.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ contracts.PredictionStore = (*Repository)(nil)

// EnsureSchema creates the tracking tables if they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS predictions (
			id            BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			team          TEXT NOT NULL,
			position      TEXT NOT NULL,
			season        INT NOT NULL,
			week          INT NOT NULL,
			projected     DOUBLE PRECISION NOT NULL,
			class         INT NOT NULL,
			probability   DOUBLE PRECISION NOT NULL,
			model_hash    TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			actual_points DOUBLE PRECISION,
			actual_label  INT,
			hit           BOOLEAN,
			resolved_at   TIMESTAMPTZ,
			UNIQUE (name, team, season, week, model_hash)
		);
		CREATE INDEX IF NOT EXISTS idx_predictions_season_week
			ON predictions (season, week)`

	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure tracking schema: %w", err)
	}
	return nil
}

// SavePredictions upserts a batch of predictions on their identity key.
// Re-running a week with the same model refreshes the stored rows.
func (r *Repository) SavePredictions(ctx context.Context, preds []contracts.Prediction) error {
	if len(preds) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO predictions
			(name, team, position, season, week, projected, class, probability, model_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name, team, season, week, model_hash) DO UPDATE SET
			projected = EXCLUDED.projected,
			class = EXCLUDED.class,
			probability = EXCLUDED.probability,
			created_at = EXCLUDED.created_at`

	for _, p := range preds {
		batch.Queue(query, p.Name, p.Team, p.Position, p.Season, p.Week,
			p.Projected, p.Class, p.Probability, p.ModelHash, p.CreatedAt)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range preds {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save predictions: %w", err)
		}
	}
	return nil
}

// Unreconciled returns predictions for the season/week that have no
// recorded outcome yet.
func (r *Repository) Unreconciled(ctx context.Context, season, week int) ([]contracts.Prediction, error) {
	query := `
		SELECT name, team, position, season, week, projected, class, probability, model_hash, created_at
		FROM predictions
		WHERE season = $1 AND week = $2 AND resolved_at IS NULL
		ORDER BY probability DESC`

	rows, err := r.pool.Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("query unreconciled predictions: %w", err)
	}
	defer rows.Close()

	var preds []contracts.Prediction
	for rows.Next() {
		var p contracts.Prediction
		if err := rows.Scan(&p.Name, &p.Team, &p.Position, &p.Season, &p.Week,
			&p.Projected, &p.Class, &p.Probability, &p.ModelHash, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// SaveOutcomes records resolved results against stored predictions.
func (r *Repository) SaveOutcomes(ctx context.Context, outcomes []contracts.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		UPDATE predictions SET
			actual_points = $5,
			actual_label = $6,
			hit = $7,
			resolved_at = $8
		WHERE name = $1 AND team = $2 AND season = $3 AND week = $4`

	for _, o := range outcomes {
		batch.Queue(query, o.Name, o.Team, o.Season, o.Week,
			o.ActualPoints, o.Label, o.Hit, o.ResolvedAt)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range outcomes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save outcomes: %w", err)
		}
	}
	return nil
}

// Summary aggregates tracked hit rates for a season, overall and per week.
func (r *Repository) Summary(ctx context.Context, season int) (*contracts.TrackingSummary, error) {
	summary := &contracts.TrackingSummary{
		Season:      season,
		ByWeek:      make(map[int]contracts.WeekSummary),
		GeneratedAt: time.Now().UTC(),
	}

	query := `
		SELECT week,
			COUNT(*) AS tracked,
			COUNT(resolved_at) AS resolved,
			COUNT(*) FILTER (WHERE hit) AS hits
		FROM predictions
		WHERE season = $1
		GROUP BY week
		ORDER BY week`

	rows, err := r.pool.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("query tracking summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var week, tracked, resolved, hits int
		if err := rows.Scan(&week, &tracked, &resolved, &hits); err != nil {
			return nil, fmt.Errorf("scan tracking summary: %w", err)
		}

		ws := contracts.WeekSummary{Resolved: resolved, Hits: hits}
		if resolved > 0 {
			ws.HitRate = float64(hits) / float64(resolved)
		}
		summary.ByWeek[week] = ws

		summary.Tracked += tracked
		summary.Resolved += resolved
		summary.Hits += hits
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if summary.Resolved > 0 {
		summary.HitRate = float64(summary.Hits) / float64(summary.Resolved)
	}
	return summary, nil
}
