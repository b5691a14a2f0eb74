package predict

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcroft/gridiron/internal/contracts"
	"github.com/pcroft/gridiron/internal/model"
)

// trainedPredictor fits a tiny model on separable data: label 1 iff
// signal >= 0.5, plus a noise feature.
func trainedPredictor(t *testing.T) *Predictor {
	t.Helper()

	rows := make([]contracts.LabeledRow, 0, 80)
	for i := 0; i < 80; i++ {
		signal := float64(i%10) / 10
		label := 0
		if signal >= 0.5 {
			label = 1
		}
		rows = append(rows, contracts.LabeledRow{
			FeatureRow: contracts.FeatureRow{
				Name: "P", Team: "SF", Season: 2023, Week: i/10 + 1,
				Features: map[string]float64{"signal": signal, "noise": float64(i % 7)},
			},
			Label: label,
		})
	}

	opts := model.DefaultOptions()
	opts.NumTrees = 25
	opts.MaxDepth = 5
	opts.MinSamplesSplit = 4
	opts.MinSamplesLeaf = 2
	opts.CVFolds = 4
	opts.TestSize = 0.25

	artifact, err := model.NewTrainer(zerolog.Nop()).Train(rows, []string{"noise", "signal"}, opts)
	require.NoError(t, err)
	return New(artifact, zerolog.Nop())
}

func featureRow(features map[string]float64) contracts.FeatureRow {
	return contracts.FeatureRow{
		Name: "Christian McCaffrey", Team: "SF", Position: "RB",
		Season: 2023, Week: 9, ProjectedPoints: 18.5,
		Features: features,
	}
}

func TestPredictScoresRow(t *testing.T) {
	p := trainedPredictor(t)

	high, err := p.Predict(featureRow(map[string]float64{"signal": 0.9, "noise": 3}))
	require.NoError(t, err)
	assert.Equal(t, 1, high.Class)
	assert.Greater(t, high.Probability, 0.5)
	assert.Equal(t, "Christian McCaffrey", high.Name)
	assert.InDelta(t, 18.5, high.Projected, 1e-9)
	assert.Equal(t, p.ModelHash(), high.ModelHash)

	low, err := p.Predict(featureRow(map[string]float64{"signal": 0.1, "noise": 3}))
	require.NoError(t, err)
	assert.Equal(t, 0, low.Class)
	assert.Less(t, low.Probability, 0.5)
}

func TestPredictMissingFeature(t *testing.T) {
	p := trainedPredictor(t)

	_, err := p.Predict(featureRow(map[string]float64{"signal": 0.9}))

	var mismatch *contracts.FeatureMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "noise", mismatch.Feature)
}

func TestPredictExtraFeaturesIgnored(t *testing.T) {
	p := trainedPredictor(t)

	base := map[string]float64{"signal": 0.9, "noise": 3}
	extra := map[string]float64{"signal": 0.9, "noise": 3, "unknown_stat": 99}

	a, err := p.Predict(featureRow(base))
	require.NoError(t, err)
	b, err := p.Predict(featureRow(extra))
	require.NoError(t, err)

	assert.Equal(t, a.Probability, b.Probability)
	assert.Equal(t, a.Class, b.Class)
}

func TestPredictAllAbortsOnMismatch(t *testing.T) {
	p := trainedPredictor(t)

	rows := []contracts.FeatureRow{
		featureRow(map[string]float64{"signal": 0.9, "noise": 3}),
		featureRow(map[string]float64{"signal": 0.9}), // missing noise
	}

	preds, err := p.PredictAll(rows)
	assert.Nil(t, preds)

	var mismatch *contracts.FeatureMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestPredictorLoadRoundTrip(t *testing.T) {
	p := trainedPredictor(t)
	dir := t.TempDir()

	path, err := p.artifact.Save(dir)
	require.NoError(t, err)

	loaded, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, p.ModelHash(), loaded.ModelHash())
	assert.Equal(t, p.FeatureNames(), loaded.FeatureNames())
}

func TestRecommendBuckets(t *testing.T) {
	tests := []struct {
		class int
		prob  float64
		want  Recommendation
	}{
		{1, 0.85, StrongStart},
		{1, 0.70, StrongStart},
		{1, 0.55, ConsiderStart},
		{0, 0.45, ConsiderBenching},
		{0, 0.30, ConsiderBenching},
		{0, 0.15, Avoid},
	}
	for _, tt := range tests {
		got := Recommend(contracts.Prediction{Class: tt.class, Probability: tt.prob})
		assert.Equal(t, tt.want, got, "class=%d prob=%v", tt.class, tt.prob)
	}
}

func TestConfidenceBuckets(t *testing.T) {
	assert.Equal(t, "HIGH", Confidence(contracts.Prediction{Class: 1, Probability: 0.85}))
	assert.Equal(t, "MEDIUM", Confidence(contracts.Prediction{Class: 1, Probability: 0.65}))
	assert.Equal(t, "LOW", Confidence(contracts.Prediction{Class: 1, Probability: 0.55}))
	// Confidence follows the predicted class, not P(over) directly.
	assert.Equal(t, "HIGH", Confidence(contracts.Prediction{Class: 0, Probability: 0.1}))
}

func TestReportRenderAndCSV(t *testing.T) {
	preds := []contracts.Prediction{
		{Name: "Bench Him", Team: "DAL", Position: "RB", Season: 2023, Week: 9, Projected: 9.0, Class: 0, Probability: 0.40},
		{Name: "Start Him", Team: "SF", Position: "RB", Season: 2023, Week: 9, Projected: 18.5, Class: 1, Probability: 0.82},
	}

	r := NewReport(2023, 9, preds)
	require.Len(t, r.Predictions, 2)
	assert.Equal(t, "Start Him", r.Predictions[0].Name) // sorted by probability

	text := r.Render()
	assert.Contains(t, text, "WEEK 9, 2023")
	assert.Contains(t, text, string(StrongStart))
	assert.Contains(t, text, string(ConsiderBenching))
	assert.Contains(t, text, "Start Him")

	path := t.TempDir() + "/report.csv"
	require.NoError(t, r.WriteCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Start Him")
	assert.Contains(t, lines[2], "Bench Him")
}
