package pipelineconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
meta:
  pipeline_id: gridiron-rb-weekly
  version: "2"
data:
  positions: [RB]
  seasons: [2022, 2023]
features:
  windows: [3, 5]
  stat_columns: [rushing_yards, receptions]
model:
  num_trees: 100
  max_depth: 6
  min_samples_split: 8
  min_samples_leaf: 3
  seed: 7
  test_size: 0.25
  cv_folds: 4
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "gridiron-rb-weekly", cfg.Meta.PipelineID)
	assert.Equal(t, []string{"RB"}, cfg.Data.Positions)
	assert.Equal(t, []int{2022, 2023}, cfg.Data.Seasons)
	assert.Equal(t, []int{3, 5}, cfg.Features.Windows)
	assert.Equal(t, 100, cfg.Model.NumTrees)
	assert.Equal(t, int64(7), cfg.Model.Seed)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	yaml := validYAML + "\nunknown_section:\n  foo: bar\n"
	_, err := Load(writeConfig(t, yaml))
	assert.Error(t, err)
}

func TestLoadRejectsMisspelledField(t *testing.T) {
	yaml := `
meta:
  pipeline_id: test
  verison: "1"
data:
  positions: [RB]
  seasons: [2023]
features:
  windows: [3]
model:
  num_trees: 10
  max_depth: 3
  min_samples_split: 2
  min_samples_leaf: 1
  test_size: 0.2
  cv_folds: 2
`
	_, err := Load(writeConfig(t, yaml))
	assert.Error(t, err)
}

func TestValidateConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing pipeline id", func(c *Config) { c.Meta.PipelineID = "" }, "meta.pipeline_id"},
		{"no positions", func(c *Config) { c.Data.Positions = nil }, "data.positions"},
		{"no seasons", func(c *Config) { c.Data.Seasons = nil }, "data.seasons"},
		{"window too small", func(c *Config) { c.Features.Windows = []int{1} }, "features.windows"},
		{"window too large", func(c *Config) { c.Features.Windows = []int{30} }, "features.windows"},
		{"zero trees", func(c *Config) { c.Model.NumTrees = 0 }, "model.num_trees"},
		{"bad test size", func(c *Config) { c.Model.TestSize = 1.5 }, "model.test_size"},
		{"single fold", func(c *Config) { c.Model.CVFolds = 1 }, "model.cv_folds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestHashReproducible(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := Default()
	changed.Model.Seed = 99
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
