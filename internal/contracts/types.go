package contracts

import (
	"fmt"
	"time"
)

// PlayerWeek represents one player, one season, one week: the merged view
// of the actual stat line and the pre-game projection.
// Uniquely identified by (Name, Team, Season, Week).
type PlayerWeek struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Opponent string `json:"opponent,omitempty"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`

	// Named numeric stats discovered from the source file
	// (rushing_yards, receptions, ...).
	Stats map[string]float64 `json:"stats"`

	ActualPoints    float64 `json:"actual_points"`
	ProjectedPoints float64 `json:"projected_points"`

	// Rank among same-position players that week, by points descending,
	// stable ties. 1-based; 0 means not yet assigned.
	ActualRank    int `json:"actual_rank"`
	ProjectedRank int `json:"projected_rank"`
}

// Key uniquely identifies a PlayerWeek within a dataset.
type Key struct {
	Name   string
	Team   string
	Season int
	Week   int
}

// Key returns the record's identity key.
func (p PlayerWeek) Key() Key {
	return Key{Name: p.Name, Team: p.Team, Season: p.Season, Week: p.Week}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s %d-w%d", k.Name, k.Team, k.Season, k.Week)
}

// FeatureRow is a PlayerWeek augmented with engineered features.
// Rows are derived, never mutated: the engineer produces a fresh row
// per source record, and every feature at week w is computed from
// weeks strictly before w.
type FeatureRow struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`

	ActualPoints    float64 `json:"actual_points"`
	ProjectedPoints float64 `json:"projected_points"`
	ActualRank      int     `json:"actual_rank"`
	ProjectedRank   int     `json:"projected_rank"`

	// Model inputs keyed by feature name.
	Features map[string]float64 `json:"features"`
}

// LabeledRow is a FeatureRow plus the binary training target.
type LabeledRow struct {
	FeatureRow

	// Label is 1 iff ActualPoints > ProjectedPoints strictly; ties are 0.
	Label int `json:"label"`

	// PerformanceDiff is actual minus projected points. Carried for
	// reporting and reconciliation; never used as a model feature.
	PerformanceDiff float64 `json:"performance_diff"`
}

// Prediction is the predictor's output for one player-week.
type Prediction struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`

	Projected   float64 `json:"projected"`
	Class       int     `json:"class"`       // 1 = over-perform
	Probability float64 `json:"probability"` // P(class == 1)

	ModelHash string    `json:"model_hash,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
