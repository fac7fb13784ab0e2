package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// logisticArtifact is the persisted form of the trained scorer: calibrated
// coefficients exported from the training pipeline, aligned with the feature
// schema.
type logisticArtifact struct {
	ModelType string    `json:"model_type"`
	Bias      float64   `json:"bias"`
	Features  []string  `json:"features"`
	Weights   []float64 `json:"weights"`
}

// LogisticModel scores a feature vector with a calibrated logistic function.
// It implements both Predictor and ProbabilityPredictor.
type LogisticModel struct {
	bias     float64
	weights  []float64
	features []string
}

// LoadLogistic reads a logistic model artifact from disk. Failure is fatal
// to startup, like a missing schema.
func LoadLogistic(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}

	var art logisticArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if art.ModelType != "" && art.ModelType != "logistic" {
		return nil, fmt.Errorf("unsupported model type %q in %s", art.ModelType, path)
	}
	if len(art.Weights) == 0 {
		return nil, fmt.Errorf("model artifact %s has no weights", path)
	}
	if len(art.Features) > 0 && len(art.Features) != len(art.Weights) {
		return nil, fmt.Errorf("model artifact %s: %d features but %d weights",
			path, len(art.Features), len(art.Weights))
	}

	return &LogisticModel{
		bias:     art.Bias,
		weights:  art.Weights,
		features: art.Features,
	}, nil
}

// NewLogistic builds a model from in-memory coefficients. Used by tests.
func NewLogistic(bias float64, weights []float64) *LogisticModel {
	copied := make([]float64, len(weights))
	copy(copied, weights)
	return &LogisticModel{bias: bias, weights: copied}
}

// Predict returns the probability of the positive (creditworthy) class.
func (m *LogisticModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("feature vector has %d entries, model expects %d",
			len(features), len(m.weights))
	}

	z := m.bias
	for i, w := range m.weights {
		z += w * features[i]
	}
	return sigmoid(z), nil
}

// PredictProba returns the class distribution [p(bad), p(good)].
func (m *LogisticModel) PredictProba(features []float64) ([]float64, error) {
	p, err := m.Predict(features)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

// FeatureCount returns the dimensionality the model was trained on.
func (m *LogisticModel) FeatureCount() int {
	return len(m.weights)
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
