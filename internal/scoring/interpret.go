package scoring

import "math"

// Risk tiers derived from the bounded score.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Tier boundaries: score >= 80 is low risk, >= 60 medium, below that high.
const (
	lowRiskFloor    = 80
	mediumRiskFloor = 60
)

// defaultConfidence is reported when the model offers no class-probability
// capability. A fixed constant, not a computed quantity; the response's
// confidence source field lets callers tell it apart.
const defaultConfidence = 85.0

// Confidence sources surfaced in the extended response.
const (
	ConfidenceFromModel   = "model"
	ConfidenceFromDefault = "default"
)

var recommendations = map[string]string{
	RiskLow:    "Excellent creditworthiness! You qualify for premium financial products with the best rates and terms in the Indian market.",
	RiskMedium: "Good credit profile with solid earning potential. Consider increasing consistency to access better rates from Indian lenders.",
	RiskHigh:   "Credit profile shows potential but needs improvement. Focus on earnings stability and reducing cancellations to access better financial opportunities.",
}

// Result is the interpreted model output: bounded score, discrete risk tier,
// confidence, and the tier's fixed recommendation text.
type Result struct {
	Score            float64
	RiskLevel        string
	Confidence       float64
	ConfidenceSource string
	Recommendation   string
}

// Interpret normalizes the model's raw prediction into a 0-100 score and
// derives the tier and confidence. A raw value at or below 1.0 is treated as
// a probability and scaled; anything larger is assumed to already be on a
// 0-100-like scale and capped. proba, when non-empty, is the model's class
// distribution.
func Interpret(raw float64, proba []float64) Result {
	var score float64
	if raw <= 1.0 {
		score = raw * 100
	} else {
		score = math.Min(raw, 100)
	}
	score = clamp(score, 0, 100)

	level := riskLevel(score)

	confidence := defaultConfidence
	source := ConfidenceFromDefault
	if len(proba) > 0 {
		top := proba[0]
		for _, p := range proba[1:] {
			if p > top {
				top = p
			}
		}
		confidence = top * 100
		source = ConfidenceFromModel
	}

	return Result{
		Score:            round1(score),
		RiskLevel:        level,
		Confidence:       round1(confidence),
		ConfidenceSource: source,
		Recommendation:   recommendations[level],
	}
}

// riskLevel buckets the unrounded score so boundary values land on the
// correct side (79.999 is medium even though it displays as 80.0).
func riskLevel(score float64) string {
	switch {
	case score >= lowRiskFloor:
		return RiskLow
	case score >= mediumRiskFloor:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
