package predict

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/contracts"
	"github.com/pcroft/gridiron/internal/model"
)

// Predictor scores feature rows against a trained model artifact.
// Input vectors are assembled by feature name in the model's training
// order, so the caller's map ordering never matters.
type Predictor struct {
	artifact *model.Artifact
	hash     string
	log      zerolog.Logger
}

func New(artifact *model.Artifact, log zerolog.Logger) *Predictor {
	return &Predictor{
		artifact: artifact,
		hash:     artifact.Hash(),
		log:      log,
	}
}

// Load reads a model artifact from path and wraps it in a Predictor.
func Load(path string, log zerolog.Logger) (*Predictor, error) {
	artifact, err := model.LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return New(artifact, log), nil
}

// FeatureNames returns the model's feature columns in training order.
func (p *Predictor) FeatureNames() []string {
	return p.artifact.FeatureNames
}

// ModelHash identifies the underlying model for tracking.
func (p *Predictor) ModelHash() string {
	return p.hash
}

// Predict scores a single feature row. Every feature the model was
// trained on must be present in the row; extra features are ignored.
func (p *Predictor) Predict(row contracts.FeatureRow) (contracts.Prediction, error) {
	vec, err := p.vector(row.Features)
	if err != nil {
		return contracts.Prediction{}, err
	}

	prob := p.artifact.Forest.PredictProba(vec)
	class := 0
	if prob >= 0.5 {
		class = 1
	}

	return contracts.Prediction{
		Name:        row.Name,
		Team:        row.Team,
		Position:    row.Position,
		Season:      row.Season,
		Week:        row.Week,
		Projected:   row.ProjectedPoints,
		Class:       class,
		Probability: prob,
		ModelHash:   p.hash,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// PredictAll scores a batch of rows. The first incompatible row aborts
// the batch: a feature mismatch means the dataset and model disagree,
// not that one player is odd.
func (p *Predictor) PredictAll(rows []contracts.FeatureRow) ([]contracts.Prediction, error) {
	preds := make([]contracts.Prediction, 0, len(rows))
	for _, row := range rows {
		pred, err := p.Predict(row)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	p.log.Info().Int("rows", len(preds)).Str("model", p.hash).Msg("scored predictions")
	return preds, nil
}

// vector assembles the model input in training order.
func (p *Predictor) vector(features map[string]float64) ([]float64, error) {
	vec := make([]float64, len(p.artifact.FeatureNames))
	for i, name := range p.artifact.FeatureNames {
		v, ok := features[name]
		if !ok {
			return nil, &contracts.FeatureMismatchError{Feature: name}
		}
		vec[i] = v
	}
	return vec, nil
}
