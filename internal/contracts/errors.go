package contracts

import "fmt"

// MissingDataError indicates an expected source file or directory is absent.
// Callers decide whether to skip the season/week or abort the run.
type MissingDataError struct {
	Season int
	Week   int // 0 when the whole season is missing
	Path   string
}

func (e *MissingDataError) Error() string {
	if e.Week > 0 {
		return fmt.Sprintf("missing data for season %d week %d: %s", e.Season, e.Week, e.Path)
	}
	return fmt.Sprintf("missing data for season %d: %s", e.Season, e.Path)
}

// SchemaError indicates a required column is absent or unparseable.
// Schema errors abort the run: a partial dataset never proceeds silently.
type SchemaError struct {
	Path   string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s: column %q: %s", e.Path, e.Column, e.Reason)
}

// InsufficientDataError indicates the training input has fewer rows than
// the requested split/fold configuration can support.
type InsufficientDataError struct {
	Rows  int
	Folds int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d rows for %d folds", e.Rows, e.Folds)
}

// FeatureMismatchError indicates a prediction-time feature set is
// incompatible with the trained model: a required feature is absent.
// The predictor never substitutes a default for a missing feature.
type FeatureMismatchError struct {
	Feature string
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("feature mismatch: required feature %q is absent", e.Feature)
}
