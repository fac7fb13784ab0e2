package scoring

import (
	"fmt"

	"github.com/novascore/nova-score/internal/types"
)

// maxSuggestions caps the advisory list per response.
const maxSuggestions = 5

// advisoryCheck is one entry of the fixed improvement checklist. Checks are
// evaluated in order and the order is preserved in the output; the list is
// never re-sorted by severity.
type advisoryCheck struct {
	failed func(r types.ScoreRequest) bool
	tip    string
}

var advisoryChecklist = []advisoryCheck{
	{
		failed: func(r types.ScoreRequest) bool { return r.MonthlyEarnings < 20000 },
		tip:    "Increase your monthly earnings by working more active days or optimizing your routes for higher efficiency. Target ₹20,000+ monthly.",
	},
	{
		failed: func(r types.ScoreRequest) bool { return r.CancellationRate > 3 },
		tip:    "Reduce your cancellation rate by better planning and accepting only orders you can complete. Aim for under 3%.",
	},
	{
		failed: func(r types.ScoreRequest) bool { return r.AvgRating < 4.5 },
		tip:    "Improve customer service to boost your ratings - be punctual, polite, and maintain vehicle cleanliness. Target 4.5+ rating.",
	},
	{
		failed: func(r types.ScoreRequest) bool { return r.ActiveDaysPerMonth < 20 },
		tip:    "Increase your active working days to show more consistency and reliability to lenders. Aim for 20+ days per month.",
	},
	{
		failed: func(r types.ScoreRequest) bool { return r.EarningsPerActiveDay < 1000 },
		tip:    "Focus on peak hours and high-demand areas to increase your daily earnings efficiency. Target ₹1,000+ per day.",
	},
}

// Cities with a dedicated demand tip.
var highDemandCities = map[string]bool{
	"Mumbai":    true,
	"Delhi":     true,
	"Bengaluru": true,
}

var vehicleTips = map[string]string{
	"Bike": "Consider food delivery during peak meal times to maximize bike efficiency and earnings.",
	"Car":  "Focus on longer rides and premium services to maximize car utilization and earnings.",
}

// Suggestions evaluates the fixed checklist against the raw request and
// returns at most five actionable tips in checklist order. The final score
// is accepted for interface completeness but the checks themselves are
// threshold-based on the raw inputs.
func Suggestions(r types.ScoreRequest, score float64) []string {
	_ = score

	suggestions := make([]string, 0, maxSuggestions)
	for _, check := range advisoryChecklist {
		if check.failed(r) {
			suggestions = append(suggestions, check.tip)
		}
	}

	if highDemandCities[r.City] {
		suggestions = append(suggestions,
			fmt.Sprintf("Leverage %s's high-demand areas during peak hours to maximize earnings potential.", r.City))
	}
	if tip, ok := vehicleTips[r.VehicleType]; ok {
		suggestions = append(suggestions, tip)
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// LoanBands returns the static lending-market reference bands for the Indian
// market. Pure reference data shared by every response.
func LoanBands() types.LoanGiverRanges {
	return types.LoanGiverRanges{
		Excellent: "80-100: Premium borrower - Lowest interest rates (8-12% APR), highest loan amounts (₹5L+), minimal documentation required",
		Good:      "65-79: Good borrower - Competitive rates (12-18% APR), standard loan amounts (₹2-5L), regular documentation needed",
		Fair:      "50-64: Fair borrower - Higher rates (18-24% APR), moderate loan amounts (₹50K-2L), additional verification required",
		Poor:      "Below 50: High-risk borrower - Highest rates (24%+ APR), limited loan amounts (₹10-50K), extensive documentation and collateral needed",
	}
}
