package model

import (
	"fmt"
	"math"
	"math/rand"
)

// Forest is a bagged ensemble of CART trees (random forest). The ensemble
// probability is the mean of the trees' leaf probabilities.
type Forest struct {
	Trees       []Tree    `json:"trees"`
	NumFeatures int       `json:"num_features"`
	Importances []float64 `json:"importances"`
}

// ForestParams holds the ensemble hyperparameters.
type ForestParams struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// FitForest trains a random forest on the feature matrix X and binary
// labels y. Each tree sees a bootstrap sample of the rows and, at every
// split, a random sqrt(p) subset of the features. Training is fully
// deterministic for a fixed seed.
func FitForest(X [][]float64, y []int, params ForestParams) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("invalid training matrix: %d rows, %d labels", len(X), len(y))
	}
	if params.NumTrees <= 0 {
		return nil, fmt.Errorf("invalid tree count %d", params.NumTrees)
	}

	nFeatures := featureCount(X)
	maxFeatures := int(math.Sqrt(float64(nFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	tp := treeParams{
		MaxDepth:        params.MaxDepth,
		MinSamplesSplit: params.MinSamplesSplit,
		MinSamplesLeaf:  params.MinSamplesLeaf,
		MaxFeatures:     maxFeatures,
	}

	rng := rand.New(rand.NewSource(params.Seed))

	forest := &Forest{
		Trees:       make([]Tree, 0, params.NumTrees),
		NumFeatures: nFeatures,
		Importances: make([]float64, nFeatures),
	}

	n := len(X)
	for t := 0; t < params.NumTrees; t++ {
		// Bootstrap sample with replacement.
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		tree, importances := growTree(X, y, sample, tp, rng)
		forest.Trees = append(forest.Trees, tree)
		for f, v := range importances {
			forest.Importances[f] += v
		}
	}

	// Normalize importances to sum to 1 (when any split happened).
	var total float64
	for _, v := range forest.Importances {
		total += v
	}
	if total > 0 {
		for f := range forest.Importances {
			forest.Importances[f] /= total
		}
	}

	return forest, nil
}

// PredictProba returns the ensemble estimate of P(label=1) for x.
func (f *Forest) PredictProba(x []float64) float64 {
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].PredictProba(x)
	}
	return sum / float64(len(f.Trees))
}

// Predict returns the predicted class for x: 1 when P(label=1) >= 0.5.
func (f *Forest) Predict(x []float64) int {
	if f.PredictProba(x) >= 0.5 {
		return 1
	}
	return 0
}
