package dataset

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/internal/contracts"
)

func rec(name, team string, season, week int, points float64) Record {
	return Record{
		Name: name, Team: team, Position: "RB",
		Season: season, Week: week,
		Stats:  map[string]float64{"rushing_yards": 50},
		Points: points,
	}
}

func TestMergeEmitsKeyIntersection(t *testing.T) {
	m := NewMerger(zerolog.Nop())

	actuals := []Record{
		rec("A", "SF", 2023, 1, 20.0),
		rec("B", "DAL", 2023, 1, 10.0),
		rec("C", "NYG", 2023, 1, 8.0), // no projection
	}
	projections := []Record{
		rec("A", "SF", 2023, 1, 15.0),
		rec("B", "DAL", 2023, 1, 12.0),
		rec("D", "PHI", 2023, 1, 9.0), // no actual
	}

	merged := m.Merge(actuals, projections)
	require.Len(t, merged, 2)

	keys := make(map[contracts.Key]int)
	for _, pw := range merged {
		keys[pw.Key()]++
	}
	assert.Equal(t, 1, keys[contracts.Key{Name: "A", Team: "SF", Season: 2023, Week: 1}])
	assert.Equal(t, 1, keys[contracts.Key{Name: "B", Team: "DAL", Season: 2023, Week: 1}])

	assert.InDelta(t, 20.0, merged[0].ActualPoints, 1e-9)
	assert.InDelta(t, 15.0, merged[0].ProjectedPoints, 1e-9)
	assert.InDelta(t, 50.0, merged[0].Stats["rushing_yards"], 1e-9)
}

func TestMergeNoDuplicateKeys(t *testing.T) {
	m := NewMerger(zerolog.Nop())

	// Data source inconsistency: the same key appears twice on both sides.
	actuals := []Record{
		rec("A", "SF", 2023, 1, 20.0),
		rec("A", "SF", 2023, 1, 99.0),
	}
	projections := []Record{
		rec("A", "SF", 2023, 1, 15.0),
		rec("A", "SF", 2023, 1, 77.0),
	}

	merged := m.Merge(actuals, projections)
	require.Len(t, merged, 1)

	// First encountered wins on both sides.
	assert.InDelta(t, 20.0, merged[0].ActualPoints, 1e-9)
	assert.InDelta(t, 15.0, merged[0].ProjectedPoints, 1e-9)
}

func TestMergeSameNameDifferentWeeks(t *testing.T) {
	m := NewMerger(zerolog.Nop())

	actuals := []Record{
		rec("A", "SF", 2023, 1, 20.0),
		rec("A", "SF", 2023, 2, 11.0),
	}
	projections := []Record{
		rec("A", "SF", 2023, 1, 15.0),
		rec("A", "SF", 2023, 2, 14.0),
	}

	merged := m.Merge(actuals, projections)
	require.Len(t, merged, 2)
	assert.Equal(t, 1, merged[0].Week)
	assert.Equal(t, 2, merged[1].Week)
}

func TestMergeEmptyInput(t *testing.T) {
	m := NewMerger(zerolog.Nop())
	assert.Empty(t, m.Merge(nil, nil))
}
