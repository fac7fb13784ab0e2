package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/novascore/nova-score/internal/types"
)

// Impact labels attached to explained features.
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

// maxExplanations caps how many features are surfaced per response.
const maxExplanations = 5

// impactCategory classifies a feature by a case-insensitive substring of its
// name. Categories are checked in order; the first match wins, so e.g.
// "earnings_per_active_day" is explained as an earnings feature, not an
// active-days one.
type impactCategory struct {
	substr   string
	classify func(v float64) (impact, explanation string)
}

var impactCategories = []impactCategory{
	{"earnings", classifyEarnings},
	{"rating", classifyRating},
	{"cancellation", classifyCancellation},
	{"active_days", classifyActiveDays},
}

func classifyEarnings(v float64) (string, string) {
	switch {
	case v > 25000:
		return ImpactPositive, fmt.Sprintf("Strong earnings of ₹%.0f indicate good income stability", v)
	case v < 10000:
		return ImpactNegative, fmt.Sprintf("Lower earnings of ₹%.0f may indicate income instability", v)
	}
	return ImpactNeutral, neutralExplanation(v)
}

func classifyRating(v float64) (string, string) {
	switch {
	case v >= 4.5:
		return ImpactPositive, fmt.Sprintf("Excellent rating of %.1f/5.0 shows high service quality", v)
	case v < 4.0:
		return ImpactNegative, fmt.Sprintf("Rating of %.1f/5.0 could be improved for better scoring", v)
	}
	return ImpactNeutral, neutralExplanation(v)
}

func classifyCancellation(v float64) (string, string) {
	switch {
	case v < 3:
		return ImpactPositive, fmt.Sprintf("Low cancellation rate of %.1f%% shows reliability", v)
	case v > 8:
		return ImpactNegative, fmt.Sprintf("High cancellation rate of %.1f%% negatively impacts score", v)
	}
	return ImpactNeutral, neutralExplanation(v)
}

func classifyActiveDays(v float64) (string, string) {
	switch {
	case v >= 20:
		return ImpactPositive, fmt.Sprintf("High activity of %.0f days/month shows commitment", v)
	case v < 10:
		return ImpactNegative, fmt.Sprintf("Low activity of %.0f days/month may indicate inconsistency", v)
	}
	return ImpactNeutral, neutralExplanation(v)
}

func neutralExplanation(v float64) string {
	return fmt.Sprintf("Current value: %.2f", v)
}

// Explain attaches an impact label and rationale to every feature, then
// returns the top entries by absolute value. vector and names are parallel
// slices in schema order.
func Explain(vector []float64, names []string) []types.FeatureImportance {
	explained := make([]types.FeatureImportance, 0, len(names))

	for i, name := range names {
		value := vector[i]
		impact, explanation := classifyImpact(name, value)
		explained = append(explained, types.FeatureImportance{
			Name:        displayName(name),
			Value:       value,
			Impact:      impact,
			Explanation: explanation,
		})
	}

	sort.SliceStable(explained, func(i, j int) bool {
		return math.Abs(explained[i].Value) > math.Abs(explained[j].Value)
	})

	if len(explained) > maxExplanations {
		explained = explained[:maxExplanations]
	}
	return explained
}

func classifyImpact(name string, value float64) (string, string) {
	lower := strings.ToLower(name)
	for _, cat := range impactCategories {
		if strings.Contains(lower, cat.substr) {
			return cat.classify(value)
		}
	}
	return ImpactNeutral, neutralExplanation(value)
}

// displayName turns a schema name like "earnings_trend_slope" into
// "Earnings Trend Slope".
func displayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
