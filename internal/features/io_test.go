package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/internal/contracts"
)

func labeledFixture() ([]contracts.LabeledRow, []string) {
	names := []string{"avg_points_last_3", "proj_error_last_3"}
	rows := []contracts.LabeledRow{
		{
			FeatureRow: contracts.FeatureRow{
				Name: "Christian McCaffrey", Team: "SF", Position: "RB",
				Season: 2023, Week: 4,
				ActualPoints: 25.7, ProjectedPoints: 14.29,
				ActualRank: 1, ProjectedRank: 3,
				Features: map[string]float64{"avg_points_last_3": 18.2, "proj_error_last_3": 4.1},
			},
			PerformanceDiff: 11.41, Label: 1,
		},
		{
			FeatureRow: contracts.FeatureRow{
				Name: "Tony Pollard", Team: "DAL", Position: "RB",
				Season: 2023, Week: 4,
				ActualPoints: 15.63, ProjectedPoints: 17.97,
				ActualRank: 5, ProjectedRank: 2,
				Features: map[string]float64{"avg_points_last_3": 14.9, "proj_error_last_3": -1.2},
			},
			PerformanceDiff: -2.34, Label: 0,
		},
	}
	return rows, names
}

func TestWriteLabeledCSVCreatesParentDirs(t *testing.T) {
	rows, names := labeledFixture()

	// The processed directory does not exist on a fresh data root.
	path := filepath.Join(t.TempDir(), "processed", "rb_labeled.csv")
	require.NoError(t, WriteLabeledCSV(path, rows, names))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestLabeledCSVRoundTrip(t *testing.T) {
	rows, names := labeledFixture()

	path := filepath.Join(t.TempDir(), "rb_labeled.csv")
	require.NoError(t, WriteLabeledCSV(path, rows, names))

	got, gotNames, err := ReadLabeledCSV(path)
	require.NoError(t, err)
	assert.Equal(t, names, gotNames)
	assert.Equal(t, rows, got)
}

func TestReadLabeledCSVRejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	raw := "PlayerName,Team,Pos,TotalPoints\nChristian McCaffrey,SF,RB,25.7\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	_, _, err := ReadLabeledCSV(path)
	require.Error(t, err)

	var schema *contracts.SchemaError
	require.ErrorAs(t, err, &schema)
}
