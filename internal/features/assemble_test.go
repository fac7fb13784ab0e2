package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_SchemaOrder(t *testing.T) {
	f := map[string]float64{
		"monthly_earnings": 25000,
		"avg_rating":       4.5,
		"trips_m4":         90,
	}
	schema := []string{"avg_rating", "monthly_earnings", "trips_m4"}

	vector := Assemble(f, schema)

	require.Len(t, vector, 3)
	assert.Equal(t, []float64{4.5, 25000, 90}, vector)
}

func TestAssemble_Defaults(t *testing.T) {
	f := map[string]float64{
		"monthly_earnings": 25000,
		"trips_m4":         90,
	}

	tests := []struct {
		name     string
		column   string
		expected float64
	}{
		{"unknown earnings column falls back to monthly earnings", "earnings_avg_12mo", 25000},
		{"unknown trips column falls back to trips_m4", "trips_avg_12mo", 90},
		{"unknown rating column falls back to default rating", "min_rating", 4.0},
		{"anything else defaults to zero", "weather_index", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector := Assemble(f, []string{tt.column})
			require.Len(t, vector, 1)
			assert.Equal(t, tt.expected, vector[0])
		})
	}
}

func TestAssemble_AlwaysFinite(t *testing.T) {
	f := Enrich(baseRequest())
	schema := []string{
		"monthly_earnings", "avg_rating", "trips_per_week",
		"earnings_trend_slope", "city_Mumbai", "unknown_column",
	}

	vector := Assemble(f, schema)

	require.Len(t, vector, len(schema))
	for i, v := range vector {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "index %d", i)
	}
}
