package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, 50.0, stats["error_rate_percent"])
	assert.Equal(t, 50.0, stats["cache_hit_rate_percent"])
}

func TestMetrics_RecordPrediction(t *testing.T) {
	m := NewMetrics()

	m.RecordPrediction("low", 2*time.Millisecond)
	m.RecordPrediction("low", 3*time.Millisecond)
	m.RecordPrediction("high", 1*time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats["prediction_count"])
	assert.Equal(t, int64(3), stats["model_calls"])

	byTier := m.GetPredictionStats()
	assert.Equal(t, int64(2), byTier["low"])
	assert.Equal(t, int64(1), byTier["high"])
}

func TestMetrics_ResponseTimePercentiles(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	p50 := m.GetPercentileResponseTime(50)
	p99 := m.GetPercentileResponseTime(99)

	assert.Greater(t, p99, p50)
	assert.InDelta(t, 50, p50.Milliseconds(), 2)
}

func TestMetrics_StatusDistribution(t *testing.T) {
	m := NewMetrics()

	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(400)

	dist := m.GetStatusCodeDistribution()
	assert.Equal(t, int64(2), dist[200])
	assert.Equal(t, int64(1), dist[400])
}

func TestMetrics_RateLimitStats(t *testing.T) {
	m := NewMetrics()

	m.IncrementRateLimitIPBlock()
	m.IncrementRateLimitFallback()
	m.IncrementRateLimitEndpoint("predict")
	m.IncrementRateLimitEndpoint("predict")

	stats := m.GetRateLimitStats()
	assert.Equal(t, int64(1), stats["ip_blocks"])
	assert.Equal(t, int64(1), stats["fallback_count"])

	endpointBlocks, ok := stats["endpoint_blocks"].(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(2), endpointBlocks["predict"])
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.RecordPrediction("low", time.Millisecond)
	m.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats["total_requests"])
	assert.Equal(t, int64(0), stats["prediction_count"])
	assert.Empty(t, m.GetPredictionStats())
}

func TestMetrics_PrometheusHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordPrediction("low", 2*time.Millisecond)
	m.RecordHTTPRequest("POST", "/predict", "200")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil)
	m.PrometheusHandler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "nova_score_predictions_total")
	assert.Contains(t, body, "nova_score_http_requests_total")
	assert.Contains(t, body, "nova_score_model_latency_seconds")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	first := NewMetrics()
	second := NewMetrics()

	first.RecordPrediction("low", time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil)
	second.PrometheusHandler().ServeHTTP(w, req)

	assert.NotContains(t, w.Body.String(), `risk_level="low"`)
}
