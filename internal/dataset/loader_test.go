package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/internal/contracts"
)

func testLoader(t *testing.T, root string) *Loader {
	t.Helper()
	return NewLoader(root, zerolog.Nop())
}

func TestLoadWeek(t *testing.T) {
	l := testLoader(t, "testdata/raw")

	actuals, projections, err := l.LoadWeek(2023, 1, "RB")
	require.NoError(t, err)

	// Ghost Runner has no points value and is dropped.
	require.Len(t, actuals, 3)
	require.Len(t, projections, 4)

	cmc := actuals[0]
	assert.Equal(t, "Christian McCaffrey", cmc.Name)
	assert.Equal(t, "SF", cmc.Team)
	assert.Equal(t, "RB", cmc.Position)
	assert.Equal(t, "PIT", cmc.Opponent)
	assert.Equal(t, 2023, cmc.Season)
	assert.Equal(t, 1, cmc.Week)
	assert.InDelta(t, 25.7, cmc.Points, 1e-9)

	// Stat columns are discovered and canonicalized.
	assert.InDelta(t, 152, cmc.Stats["rushing_yards"], 1e-9)
	assert.InDelta(t, 5, cmc.Stats["receptions"], 1e-9)
	assert.InDelta(t, 22, cmc.Stats["carries"], 1e-9)

	// Non-numeric stat values coerce to the zero sentinel.
	pollard := actuals[2]
	assert.Equal(t, "Tony Pollard", pollard.Name)
	assert.InDelta(t, 0, pollard.Stats["rushing_touchdowns"], 1e-9)
	assert.InDelta(t, 15.63, pollard.Points, 1e-9)

	assert.InDelta(t, 14.29, projections[0].Points, 1e-9)
}

func TestLoadWeekMissingFile(t *testing.T) {
	l := testLoader(t, "testdata/raw")

	_, _, err := l.LoadWeek(2023, 7, "RB")
	require.Error(t, err)

	var missing *contracts.MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2023, missing.Season)
	assert.Equal(t, 7, missing.Week)
	assert.NotEmpty(t, missing.Path)
}

func TestLoadSeasonMissing(t *testing.T) {
	l := testLoader(t, "testdata/raw")

	_, _, err := l.LoadSeason(1999, "RB")
	require.Error(t, err)

	var missing *contracts.MissingDataError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1999, missing.Season)
	assert.Zero(t, missing.Week)
}

func TestLoadSeasonSkipsAbsentWeeks(t *testing.T) {
	l := testLoader(t, "testdata/raw")

	actuals, projections, err := l.LoadSeason(2023, "RB")
	require.NoError(t, err)

	// Weeks 1 and 3 exist; week 2 and the rest are skipped silently.
	assert.Len(t, actuals, 5)
	assert.Len(t, projections, 6)

	weeks := make(map[int]bool)
	for _, a := range actuals {
		weeks[a.Week] = true
	}
	assert.Equal(t, map[int]bool{1: true, 3: true}, weeks)
}

func TestLoadWeekMalformedRowDropsOnlyThatRow(t *testing.T) {
	root := t.TempDir()
	l := testLoader(t, root)

	// Row C carries a bare quote; the rows after it must survive.
	actual := "PlayerName,Team,Pos,TotalPoints\n" +
		"Player A,SF,RB,10.0\n" +
		"Player B,DAL,RB,9.0\n" +
		"Player \"C,NYG,RB,8.0\n" +
		"Player D,MIA,RB,7.0\n" +
		"Player E,DET,RB,6.0\n"
	projected := "PlayerName,Team,Pos,PlayerWeekProjectedPts\n" +
		"Player A,SF,RB,11.0\n"

	require.NoError(t, os.MkdirAll(filepath.Dir(l.ProjectedPath(2023, 1, "RB")), 0o755))
	require.NoError(t, os.WriteFile(l.ActualPath(2023, 1, "RB"), []byte(actual), 0o644))
	require.NoError(t, os.WriteFile(l.ProjectedPath(2023, 1, "RB"), []byte(projected), 0o644))

	actuals, projections, err := l.LoadWeek(2023, 1, "RB")
	require.NoError(t, err)
	require.Len(t, projections, 1)

	require.Len(t, actuals, 4)
	names := make([]string, 0, len(actuals))
	for _, a := range actuals {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Player A", "Player B", "Player D", "Player E"}, names)
}

func TestLoadWeekSchemaError(t *testing.T) {
	l := testLoader(t, "testdata/badschema")

	_, _, err := l.LoadWeek(2023, 1, "RB")
	require.Error(t, err)

	var schema *contracts.SchemaError
	require.ErrorAs(t, err, &schema)
	assert.Equal(t, "TotalPoints", schema.Column)
}
