package pipelineconfig

// Config is the full pipeline configuration: which data to build the
// dataset from, how to engineer features, and the model hyperparameters.
// Loaded strictly from YAML; unknown fields fail the load.
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Data     Data     `yaml:"data" json:"data"`
	Features Features `yaml:"features" json:"features"`
	Model    Model    `yaml:"model" json:"model"`
}

// Meta identifies the pipeline run for tracking.
type Meta struct {
	PipelineID string `yaml:"pipeline_id" json:"pipeline_id"`
	Version    string `yaml:"version" json:"version"`
}

// Data selects the dataset slice the pipeline runs on.
type Data struct {
	Positions []string `yaml:"positions" json:"positions"`
	Seasons   []int    `yaml:"seasons" json:"seasons"`
}

// Features controls the engineered feature set.
type Features struct {
	Windows     []int    `yaml:"windows" json:"windows"`
	StatColumns []string `yaml:"stat_columns" json:"stat_columns"`
}

// Model carries the forest hyperparameters and evaluation settings.
type Model struct {
	NumTrees        int     `yaml:"num_trees" json:"num_trees"`
	MaxDepth        int     `yaml:"max_depth" json:"max_depth"`
	MinSamplesSplit int     `yaml:"min_samples_split" json:"min_samples_split"`
	MinSamplesLeaf  int     `yaml:"min_samples_leaf" json:"min_samples_leaf"`
	Seed            int64   `yaml:"seed" json:"seed"`
	TestSize        float64 `yaml:"test_size" json:"test_size"`
	CVFolds         int     `yaml:"cv_folds" json:"cv_folds"`
}

// Default returns the configuration used when no YAML file is given.
func Default() *Config {
	return &Config{
		Meta: Meta{
			PipelineID: "gridiron-rb-weekly",
			Version:    "1",
		},
		Data: Data{
			Positions: []string{"RB"},
			Seasons:   []int{2022, 2023},
		},
		Features: Features{
			Windows: []int{3, 5},
			StatColumns: []string{
				"rushing_yards",
				"rushing_touchdowns",
				"receptions",
				"receiving_yards",
				"receiving_touchdowns",
			},
		},
		Model: Model{
			NumTrees:        200,
			MaxDepth:        8,
			MinSamplesSplit: 10,
			MinSamplesLeaf:  4,
			Seed:            42,
			TestSize:        0.2,
			CVFolds:         5,
		},
	}
}
