package pipeline

import (
	"log/slog"

	apperrors "github.com/novascore/nova-score/internal/errors"
	"github.com/novascore/nova-score/internal/features"
	"github.com/novascore/nova-score/internal/model"
	"github.com/novascore/nova-score/internal/scoring"
	"github.com/novascore/nova-score/internal/types"
)

// Service runs the prediction pipeline: enrich the raw record, assemble the
// schema-ordered vector, call the model, interpret and explain the output.
// It is the only component that touches the model. Stateless across
// requests; the schema and predictor are written once at startup and shared
// read-only by every request.
type Service struct {
	schema    *model.Schema
	predictor model.Predictor
}

// New creates a prediction service over a loaded schema and model handle.
func New(schema *model.Schema, predictor model.Predictor) *Service {
	return &Service{schema: schema, predictor: predictor}
}

// Ready reports whether the service can score requests. A service that is
// not ready fails every request uniformly with a service-unavailable error.
func (s *Service) Ready() bool {
	return s != nil && s.schema != nil && s.schema.Len() > 0 && s.predictor != nil
}

// Score runs the pipeline and returns the minimal response variant.
func (s *Service) Score(req types.ScoreRequest) (*types.ScoreResponse, error) {
	result, top, err := s.run(req)
	if err != nil {
		return nil, err
	}

	return &types.ScoreResponse{
		Score:           result.Score,
		RiskLevel:       result.RiskLevel,
		Recommendation:  result.Recommendation,
		TopFeatures:     top,
		ModelConfidence: result.Confidence,
	}, nil
}

// ScoreDetailed runs the pipeline and returns the extended response variant
// with suggestions and lending reference bands. Shares the derivation logic
// with Score through the interpreter and explainer.
func (s *Service) ScoreDetailed(req types.ScoreRequest) (*types.DetailedScoreResponse, error) {
	result, top, err := s.run(req)
	if err != nil {
		return nil, err
	}

	return &types.DetailedScoreResponse{
		ScoreResponse: types.ScoreResponse{
			Score:           result.Score,
			RiskLevel:       result.RiskLevel,
			Recommendation:  result.Recommendation,
			TopFeatures:     top,
			ModelConfidence: result.Confidence,
		},
		Suggestions:      scoring.Suggestions(req, result.Score),
		LoanGiverRanges:  scoring.LoanBands(),
		ConfidenceSource: result.ConfidenceSource,
	}, nil
}

// run is the single-pass request state machine. Any failure aborts the
// request at that stage; partial results are never returned, and nothing is
// retried.
func (s *Service) run(req types.ScoreRequest) (scoring.Result, []types.FeatureImportance, error) {
	if !s.Ready() {
		return scoring.Result{}, nil, apperrors.NewPreconditionError("model not loaded")
	}

	enriched := features.Enrich(req)
	names := s.schema.Names()
	vector := features.Assemble(enriched, names)

	raw, err := s.predictor.Predict(vector)
	if err != nil {
		return scoring.Result{}, nil, apperrors.NewPredictionError("model prediction failed", err)
	}

	// The probability capability is probed, never assumed.
	var proba []float64
	if pp, ok := s.predictor.(model.ProbabilityPredictor); ok {
		proba, err = pp.PredictProba(vector)
		if err != nil {
			return scoring.Result{}, nil, apperrors.NewPredictionError("model probability estimation failed", err)
		}
	}

	result := scoring.Interpret(raw, proba)
	top := scoring.Explain(vector, names)

	slog.Debug("Prediction pipeline completed",
		"score", result.Score,
		"risk_level", result.RiskLevel,
		"confidence", result.Confidence,
		"features", len(vector))

	return result, top, nil
}

// SchemaLen exposes the registry size for health reporting.
func (s *Service) SchemaLen() int {
	if s == nil || s.schema == nil {
		return 0
	}
	return s.schema.Len()
}

// SchemaNames exposes the registry's ordered names for the features
// endpoint.
func (s *Service) SchemaNames() []string {
	if s == nil || s.schema == nil {
		return nil
	}
	return s.schema.Names()
}
