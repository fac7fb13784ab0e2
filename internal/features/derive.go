package features

import (
	"github.com/novascore/nova-score/internal/types"
)

// weeksPerMonth approximates the average number of weeks in a month.
const weeksPerMonth = 4.33

// highActivityDays is the active-days threshold for the high-activity flag.
const highActivityDays = 20

// Reference category sets for one-hot indicators. Order matches the
// training data; unknown values simply yield all-zero groups.
var (
	knownCities   = []string{"Delhi", "Mumbai", "Bengaluru", "Chennai", "Kolkata"}
	knownVehicles = []string{"Auto", "Bike", "Car"}
)

// Enrich expands a raw request into the full engineered feature set keyed by
// feature name. Pure function of its input: same request, same map.
func Enrich(r types.ScoreRequest) map[string]float64 {
	f := map[string]float64{
		"monthly_earnings":        r.MonthlyEarnings,
		"active_days_per_month":   float64(r.ActiveDaysPerMonth),
		"avg_rating":              r.AvgRating,
		"earnings_avg_6mo":        r.EarningsAvg6Mo,
		"earnings_avg_3mo":        r.EarningsAvg3Mo,
		"earnings_per_active_day": r.EarningsPerActiveDay,
		"earnings_m1":             r.EarningsM1,
		"earnings_m2":             r.EarningsM2,
		"earnings_m3":             r.EarningsM3,
		"earnings_m4":             r.EarningsM4,
		"earnings_m5":             r.EarningsM5,
		"earnings_m6":             r.EarningsM6,
		"trips_m4":                float64(r.TripsM4),
		"trips_m5":                float64(r.TripsM5),
		"cancellation_rate":       r.CancellationRate,
	}

	avgTripsRecent := (float64(r.TripsM4) + float64(r.TripsM5)) / 2

	if avgTripsRecent > 0 {
		f["trips_per_week"] = avgTripsRecent / weeksPerMonth
	} else {
		f["trips_per_week"] = 0
	}

	// Earnings history oldest to newest for the trend fit.
	history := []float64{
		r.EarningsM6, r.EarningsM5, r.EarningsM4,
		r.EarningsM3, r.EarningsM2, r.EarningsM1,
	}
	slope, fitted := trendSlope(history)
	f["earnings_trend_slope"] = slope
	if fitted && slope > 0 {
		f["earnings_trend_up"] = 1
	} else {
		f["earnings_trend_up"] = 0
	}

	if r.ActiveDaysPerMonth > 0 {
		f["trips_per_active_day"] = avgTripsRecent / float64(r.ActiveDaysPerMonth)
	} else {
		f["trips_per_active_day"] = 0
	}

	f["estimated_cancellations_per_month"] = avgTripsRecent * r.CancellationRate / 100

	if r.ActiveDaysPerMonth >= highActivityDays {
		f["high_activity_flag"] = 1
	} else {
		f["high_activity_flag"] = 0
	}

	// Only trips_m4/m5 arrive in the request, so the 3- and 6-month trip
	// averages are approximated by the two-month average, and the missing
	// trip months are imputed with it.
	f["trips_avg_3mo"] = avgTripsRecent
	f["trips_avg_6mo"] = avgTripsRecent
	for _, month := range []string{"trips_m1", "trips_m2", "trips_m3", "trips_m6"} {
		if _, ok := f[month]; !ok {
			f[month] = avgTripsRecent
		}
	}

	for _, city := range knownCities {
		f["city_"+city] = indicator(r.City == city)
	}
	for _, vehicle := range knownVehicles {
		f["vehicle_type_"+vehicle] = indicator(r.VehicleType == vehicle)
	}

	return f
}

// trendSlope fits an ordinary least-squares line of y against index 0..n-1
// and returns the slope. When the series has zero variance the fit is
// degenerate; it returns (0, false) instead.
func trendSlope(y []float64) (float64, bool) {
	n := float64(len(y))
	if len(y) < 2 {
		return 0, false
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	mean := sum / n

	variance := false
	for _, v := range y {
		if v != mean {
			variance = true
			break
		}
	}
	if !variance {
		return 0, false
	}

	xMean := (n - 1) / 2
	var num, den float64
	for i, v := range y {
		dx := float64(i) - xMean
		num += dx * (v - mean)
		den += dx * dx
	}
	return num / den, true
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
