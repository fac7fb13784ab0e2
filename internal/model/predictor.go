package model

// Predictor is the capability the pipeline requires from a scoring model:
// one raw scalar prediction per feature vector. Implementations are opaque
// to the pipeline; nothing beyond this interface may be assumed.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// ProbabilityPredictor is the optional class-probability capability. The
// pipeline probes for it with a type assertion, mirroring how the capability
// is optional on the trained artifact itself.
type ProbabilityPredictor interface {
	Predictor
	PredictProba(features []float64) ([]float64, error)
}
