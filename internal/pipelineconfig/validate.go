package pipelineconfig

import (
	"fmt"

	"github.com/pcroft/gridiron/internal/dataset"
)

// ValidationError reports a config constraint violation. The pipeline
// never runs on a config that fails validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.PipelineID == "" {
		return ValidationError{"meta.pipeline_id", "required"}
	}

	if len(cfg.Data.Positions) == 0 {
		return ValidationError{"data.positions", "at least one position required"}
	}
	if len(cfg.Data.Seasons) == 0 {
		return ValidationError{"data.seasons", "at least one season required"}
	}

	if len(cfg.Features.Windows) == 0 {
		return ValidationError{"features.windows", "at least one window required"}
	}
	for _, w := range cfg.Features.Windows {
		if w < 2 || w > dataset.MaxWeeks {
			return ValidationError{"features.windows", fmt.Sprintf("window %d must be in [2, %d]", w, dataset.MaxWeeks)}
		}
	}

	m := cfg.Model
	if m.NumTrees <= 0 {
		return ValidationError{"model.num_trees", "must be > 0"}
	}
	if m.MaxDepth <= 0 {
		return ValidationError{"model.max_depth", "must be > 0"}
	}
	if m.MinSamplesSplit < 2 {
		return ValidationError{"model.min_samples_split", "must be >= 2"}
	}
	if m.MinSamplesLeaf < 1 {
		return ValidationError{"model.min_samples_leaf", "must be >= 1"}
	}
	if m.TestSize <= 0 || m.TestSize >= 1 {
		return ValidationError{"model.test_size", "must be in (0, 1)"}
	}
	if m.CVFolds < 2 {
		return ValidationError{"model.cv_folds", "must be >= 2"}
	}

	return nil
}
