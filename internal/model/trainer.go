package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Options controls a training run.
type Options struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64

	// TestSize is the fraction of rows held out for validation. The
	// holdout is the chronologically latest slice so the model is never
	// evaluated on weeks it trained past.
	TestSize float64

	// CVFolds is the number of cross-validation folds. Folds are
	// contiguous chronological blocks.
	CVFolds int
}

// DefaultOptions mirrors the hyperparameters the pipeline ships with.
func DefaultOptions() Options {
	return Options{
		NumTrees:        200,
		MaxDepth:        8,
		MinSamplesSplit: 10,
		MinSamplesLeaf:  4,
		Seed:            42,
		TestSize:        0.2,
		CVFolds:         5,
	}
}

// Evaluation summarizes how the trained model performed on held-out data.
type Evaluation struct {
	Accuracy       float64   `json:"accuracy"`
	AUC            float64   `json:"auc"`
	CVScores       []float64 `json:"cv_scores"`
	CVAccuracyMean float64   `json:"cv_accuracy_mean"`
	CVAccuracyStd  float64   `json:"cv_accuracy_std"`
	TrainRows      int       `json:"train_rows"`
	ValidationRows int       `json:"validation_rows"`
}

// Trainer fits the over/under classifier on labeled feature rows.
type Trainer struct {
	log zerolog.Logger
}

func NewTrainer(log zerolog.Logger) *Trainer {
	return &Trainer{log: log}
}

// Train fits a forest on the labeled rows and returns a self-contained
// artifact. Rows are ordered chronologically before splitting so the
// validation slice always postdates the training slice.
func (t *Trainer) Train(rows []contracts.LabeledRow, featureNames []string, opts Options) (*Artifact, error) {
	if opts.CVFolds < 2 {
		return nil, fmt.Errorf("need at least 2 cross-validation folds, got %d", opts.CVFolds)
	}
	if len(rows) < opts.CVFolds {
		return nil, &contracts.InsufficientDataError{Rows: len(rows), Folds: opts.CVFolds}
	}
	if opts.TestSize <= 0 || opts.TestSize >= 1 {
		return nil, fmt.Errorf("test size must be in (0,1), got %v", opts.TestSize)
	}

	ordered := make([]contracts.LabeledRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Season != ordered[b].Season {
			return ordered[a].Season < ordered[b].Season
		}
		return ordered[a].Week < ordered[b].Week
	})

	X := matrix(ordered, featureNames)
	y := labels(ordered)

	pos := 0
	for _, v := range y {
		pos += v
	}
	if pos == 0 || pos == len(y) {
		return nil, fmt.Errorf("training data has a single label class (%d of %d positive)", pos, len(y))
	}

	cut := len(ordered) - int(float64(len(ordered))*opts.TestSize)
	if cut < 1 {
		cut = 1
	}
	if cut >= len(ordered) {
		cut = len(ordered) - 1
	}

	params := ForestParams{
		NumTrees:        opts.NumTrees,
		MaxDepth:        opts.MaxDepth,
		MinSamplesSplit: opts.MinSamplesSplit,
		MinSamplesLeaf:  opts.MinSamplesLeaf,
		Seed:            opts.Seed,
	}

	t.log.Info().
		Int("rows", len(ordered)).
		Int("features", len(featureNames)).
		Int("train", cut).
		Int("validate", len(ordered)-cut).
		Int("trees", opts.NumTrees).
		Msg("training forest")

	forest, err := FitForest(X[:cut], y[:cut], params)
	if err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	eval := Evaluation{
		TrainRows:      cut,
		ValidationRows: len(ordered) - cut,
	}
	eval.Accuracy = accuracy(forest, X[cut:], y[cut:])
	eval.AUC = rankAUC(probabilities(forest, X[cut:]), y[cut:])

	scores, err := crossValidate(X, y, params, opts.CVFolds)
	if err != nil {
		return nil, err
	}
	eval.CVScores = scores
	eval.CVAccuracyMean = stat.Mean(scores, nil)
	eval.CVAccuracyStd = stat.StdDev(scores, nil)

	t.log.Info().
		Float64("accuracy", eval.Accuracy).
		Float64("auc", eval.AUC).
		Float64("cv_mean", eval.CVAccuracyMean).
		Float64("cv_std", eval.CVAccuracyStd).
		Msg("training complete")

	return &Artifact{
		Version:      ArtifactVersion,
		TrainedAt:    time.Now().UTC(),
		Seed:         opts.Seed,
		Options:      opts,
		FeatureNames: featureNames,
		Forest:       forest,
		Evaluation:   eval,
	}, nil
}

// crossValidate runs k-fold CV with contiguous chronological folds and
// returns the per-fold accuracies.
func crossValidate(X [][]float64, y []int, params ForestParams, folds int) ([]float64, error) {
	n := len(X)
	scores := make([]float64, 0, folds)

	for k := 0; k < folds; k++ {
		lo := k * n / folds
		hi := (k + 1) * n / folds
		if lo == hi {
			continue
		}

		trainX := make([][]float64, 0, n-(hi-lo))
		trainY := make([]int, 0, n-(hi-lo))
		trainX = append(trainX, X[:lo]...)
		trainX = append(trainX, X[hi:]...)
		trainY = append(trainY, y[:lo]...)
		trainY = append(trainY, y[hi:]...)

		pos := 0
		for _, v := range trainY {
			pos += v
		}
		if pos == 0 || pos == len(trainY) {
			// Fold degenerates to a single class; score the majority
			// prediction rather than aborting the whole run.
			scores = append(scores, majorityAccuracy(trainY, y[lo:hi]))
			continue
		}

		foldParams := params
		foldParams.Seed = params.Seed + int64(k) + 1

		forest, err := FitForest(trainX, trainY, foldParams)
		if err != nil {
			return nil, fmt.Errorf("cross-validation fold %d: %w", k, err)
		}
		scores = append(scores, accuracy(forest, X[lo:hi], y[lo:hi]))
	}

	return scores, nil
}

func majorityAccuracy(trainY, validY []int) float64 {
	pos := 0
	for _, v := range trainY {
		pos += v
	}
	majority := 0
	if pos*2 >= len(trainY) {
		majority = 1
	}
	hits := 0
	for _, v := range validY {
		if v == majority {
			hits++
		}
	}
	return float64(hits) / float64(len(validY))
}

// matrix assembles the dense feature matrix in featureNames order.
// Features absent from a row's map contribute 0.
func matrix(rows []contracts.LabeledRow, featureNames []string) [][]float64 {
	X := make([][]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(featureNames))
		for j, name := range featureNames {
			vec[j] = row.Features[name]
		}
		X[i] = vec
	}
	return X
}

func labels(rows []contracts.LabeledRow) []int {
	y := make([]int, len(rows))
	for i, row := range rows {
		y[i] = row.Label
	}
	return y
}
