package features

import (
	"testing"

	"github.com/novascore/nova-score/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() types.ScoreRequest {
	return types.ScoreRequest{
		MonthlyEarnings:      30000,
		ActiveDaysPerMonth:   25,
		AvgRating:            4.6,
		EarningsAvg6Mo:       27500,
		EarningsAvg3Mo:       29000,
		EarningsPerActiveDay: 1200,
		EarningsM1:           30000,
		EarningsM2:           28000,
		EarningsM3:           26000,
		EarningsM4:           24000,
		EarningsM5:           22000,
		EarningsM6:           20000,
		TripsM4:              100,
		TripsM5:              100,
		CancellationRate:     2.5,
		City:                 "Mumbai",
		VehicleType:          "Bike",
	}
}

func TestEnrich_BaseFeatures(t *testing.T) {
	f := Enrich(baseRequest())

	assert.Equal(t, 30000.0, f["monthly_earnings"])
	assert.Equal(t, 25.0, f["active_days_per_month"])
	assert.Equal(t, 4.6, f["avg_rating"])
	assert.Equal(t, 100.0, f["trips_m4"])
	assert.Equal(t, 100.0, f["trips_m5"])
	assert.Equal(t, 2.5, f["cancellation_rate"])
}

func TestEnrich_TripsPerWeek(t *testing.T) {
	tests := []struct {
		name     string
		tripsM4  int
		tripsM5  int
		expected float64
	}{
		{"steady hundred trips", 100, 100, 100.0 / 4.33},
		{"uneven months", 80, 120, 100.0 / 4.33},
		{"no trips", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			req.TripsM4 = tt.tripsM4
			req.TripsM5 = tt.tripsM5

			f := Enrich(req)
			assert.InDelta(t, tt.expected, f["trips_per_week"], 1e-9)
		})
	}
}

func TestEnrich_EarningsTrend(t *testing.T) {
	t.Run("increasing earnings yield positive slope", func(t *testing.T) {
		f := Enrich(baseRequest())

		assert.InDelta(t, 2000.0, f["earnings_trend_slope"], 1e-9)
		assert.Equal(t, 1.0, f["earnings_trend_up"])
	})

	t.Run("decreasing earnings yield negative slope", func(t *testing.T) {
		req := baseRequest()
		req.EarningsM1, req.EarningsM6 = req.EarningsM6, req.EarningsM1
		req.EarningsM2, req.EarningsM5 = req.EarningsM5, req.EarningsM2
		req.EarningsM3, req.EarningsM4 = req.EarningsM4, req.EarningsM3

		f := Enrich(req)
		assert.InDelta(t, -2000.0, f["earnings_trend_slope"], 1e-9)
		assert.Equal(t, 0.0, f["earnings_trend_up"])
	})

	t.Run("flat earnings have no trend", func(t *testing.T) {
		req := baseRequest()
		req.EarningsM1 = 25000
		req.EarningsM2 = 25000
		req.EarningsM3 = 25000
		req.EarningsM4 = 25000
		req.EarningsM5 = 25000
		req.EarningsM6 = 25000

		f := Enrich(req)
		assert.Equal(t, 0.0, f["earnings_trend_slope"])
		assert.Equal(t, 0.0, f["earnings_trend_up"])
	})
}

func TestTrendSlope(t *testing.T) {
	tests := []struct {
		name       string
		series     []float64
		wantSlope  float64
		wantFitted bool
	}{
		{"linear increase", []float64{1, 2, 3, 4, 5, 6}, 1, true},
		{"linear decrease", []float64{6, 5, 4, 3, 2, 1}, -1, true},
		{"constant series", []float64{5, 5, 5, 5}, 0, false},
		{"too short", []float64{5}, 0, false},
		{"empty", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, fitted := trendSlope(tt.series)
			assert.Equal(t, tt.wantFitted, fitted)
			assert.InDelta(t, tt.wantSlope, slope, 1e-9)
		})
	}
}

func TestEnrich_ActivityDerivations(t *testing.T) {
	t.Run("high activity flag set at threshold", func(t *testing.T) {
		req := baseRequest()
		req.ActiveDaysPerMonth = 20

		f := Enrich(req)
		assert.Equal(t, 1.0, f["high_activity_flag"])
	})

	t.Run("high activity flag clear below threshold", func(t *testing.T) {
		req := baseRequest()
		req.ActiveDaysPerMonth = 19

		f := Enrich(req)
		assert.Equal(t, 0.0, f["high_activity_flag"])
	})

	t.Run("trips per active day", func(t *testing.T) {
		f := Enrich(baseRequest())
		assert.InDelta(t, 4.0, f["trips_per_active_day"], 1e-9)
	})

	t.Run("estimated cancellations per month", func(t *testing.T) {
		f := Enrich(baseRequest())
		assert.InDelta(t, 2.5, f["estimated_cancellations_per_month"], 1e-9)
	})
}

func TestEnrich_TripImputation(t *testing.T) {
	f := Enrich(baseRequest())

	// Missing trip months are imputed with the two-month average.
	for _, month := range []string{"trips_m1", "trips_m2", "trips_m3", "trips_m6"} {
		assert.Equal(t, 100.0, f[month], month)
	}
	assert.Equal(t, 100.0, f["trips_avg_3mo"])
	assert.Equal(t, 100.0, f["trips_avg_6mo"])
}

func TestEnrich_CategoryIndicators(t *testing.T) {
	t.Run("known city and vehicle", func(t *testing.T) {
		f := Enrich(baseRequest())

		assert.Equal(t, 1.0, f["city_Mumbai"])
		assert.Equal(t, 0.0, f["city_Delhi"])
		assert.Equal(t, 0.0, f["city_Bengaluru"])
		assert.Equal(t, 1.0, f["vehicle_type_Bike"])
		assert.Equal(t, 0.0, f["vehicle_type_Auto"])
		assert.Equal(t, 0.0, f["vehicle_type_Car"])
	})

	t.Run("unknown city yields all-zero group", func(t *testing.T) {
		req := baseRequest()
		req.City = "Pune"
		req.VehicleType = ""

		f := Enrich(req)
		for _, city := range knownCities {
			assert.Equal(t, 0.0, f["city_"+city], city)
		}
		for _, vehicle := range knownVehicles {
			assert.Equal(t, 0.0, f["vehicle_type_"+vehicle], vehicle)
		}
	})
}

func TestEnrich_Deterministic(t *testing.T) {
	req := baseRequest()

	first := Enrich(req)
	second := Enrich(req)

	require.Equal(t, len(first), len(second))
	for name, v := range first {
		assert.Equal(t, v, second[name], name)
	}
}
