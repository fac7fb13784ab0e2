package types

import "fmt"

// ScoreRequest carries the raw activity metrics supplied by the caller.
// Earnings are monthly figures in INR; m1 is the most recent month.
type ScoreRequest struct {
	MonthlyEarnings      float64 `json:"monthly_earnings"`
	ActiveDaysPerMonth   int     `json:"active_days_per_month"`
	AvgRating            float64 `json:"avg_rating"`
	EarningsAvg6Mo       float64 `json:"earnings_avg_6mo"`
	EarningsAvg3Mo       float64 `json:"earnings_avg_3mo"`
	EarningsPerActiveDay float64 `json:"earnings_per_active_day"`
	EarningsM1           float64 `json:"earnings_m1"`
	EarningsM2           float64 `json:"earnings_m2"`
	EarningsM3           float64 `json:"earnings_m3"`
	EarningsM4           float64 `json:"earnings_m4"`
	EarningsM5           float64 `json:"earnings_m5"`
	EarningsM6           float64 `json:"earnings_m6"`
	TripsM4              int     `json:"trips_m4"`
	TripsM5              int     `json:"trips_m5"`
	CancellationRate     float64 `json:"cancellation_rate"`
	City                 string  `json:"city,omitempty"`
	VehicleType          string  `json:"vehicle_type,omitempty"`
}

// Validate checks field bounds and returns one message per violated field.
// An empty map means the request is valid. Validation runs before any
// pipeline stage; a request that fails here is never scored.
func (r ScoreRequest) Validate() map[string]string {
	violations := make(map[string]string)

	if r.ActiveDaysPerMonth < 1 || r.ActiveDaysPerMonth > 31 {
		violations["active_days_per_month"] = fmt.Sprintf("must be between 1 and 31, got %d", r.ActiveDaysPerMonth)
	}
	if r.AvgRating < 1.0 || r.AvgRating > 5.0 {
		violations["avg_rating"] = fmt.Sprintf("must be between 1.0 and 5.0, got %g", r.AvgRating)
	}
	if r.CancellationRate < 0 || r.CancellationRate > 100 {
		violations["cancellation_rate"] = fmt.Sprintf("must be between 0 and 100, got %g", r.CancellationRate)
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"monthly_earnings", r.MonthlyEarnings},
		{"earnings_avg_6mo", r.EarningsAvg6Mo},
		{"earnings_avg_3mo", r.EarningsAvg3Mo},
		{"earnings_per_active_day", r.EarningsPerActiveDay},
		{"earnings_m1", r.EarningsM1},
		{"earnings_m2", r.EarningsM2},
		{"earnings_m3", r.EarningsM3},
		{"earnings_m4", r.EarningsM4},
		{"earnings_m5", r.EarningsM5},
		{"earnings_m6", r.EarningsM6},
		{"trips_m4", float64(r.TripsM4)},
		{"trips_m5", float64(r.TripsM5)},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			violations[f.field] = fmt.Sprintf("must not be negative, got %g", f.value)
		}
	}

	return violations
}

// FeatureImportance explains one feature vector entry for display.
type FeatureImportance struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Impact      string  `json:"impact"`
	Explanation string  `json:"explanation"`
}

// LoanGiverRanges describes what each score band means in the lending market.
// Static reference data, independent of the request.
type LoanGiverRanges struct {
	Excellent string `json:"excellent"`
	Good      string `json:"good"`
	Fair      string `json:"fair"`
	Poor      string `json:"poor"`
}

// ScoreResponse is the minimal prediction response.
type ScoreResponse struct {
	Score           float64             `json:"score"`
	RiskLevel       string              `json:"risk_level"`
	Recommendation  string              `json:"recommendation"`
	TopFeatures     []FeatureImportance `json:"top_features"`
	ModelConfidence float64             `json:"model_confidence"`
}

// DetailedScoreResponse is the extended response variant with improvement
// suggestions and lending reference bands. ConfidenceSource tells callers
// whether ModelConfidence came from the model's class probabilities or the
// fixed fallback.
type DetailedScoreResponse struct {
	ScoreResponse
	Suggestions      []string        `json:"suggestions"`
	LoanGiverRanges  LoanGiverRanges `json:"loan_giver_ranges"`
	ConfidenceSource string          `json:"confidence_source"`
}
