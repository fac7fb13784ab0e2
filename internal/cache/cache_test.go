package cache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novascore/nova-score/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCache_GetSet(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", []byte(`{"score": 82}`))

	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte(`{"score": 82}`), data)
}

func TestCache_Expiration(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Set("key", []byte("data"))

	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Delete("a")
	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCache_Stats(t *testing.T) {
	c := NewCache(5*time.Minute, "/predict")
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 300.0, stats["ttl_seconds"])
}

func cachedRouter(c *Cache, metrics *monitoring.Metrics, hits *int) *gin.Engine {
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/predict", func(ctx *gin.Context) {
		*hits++
		ctx.JSON(http.StatusOK, gin.H{"score": 82.0})
	})
	r.POST("/other", func(ctx *gin.Context) {
		*hits++
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestCacheMiddleware(t *testing.T) {
	c := NewCache(time.Minute, "/predict")
	metrics := monitoring.NewMetrics()
	handlerHits := 0
	r := cachedRouter(c, metrics, &handlerHits)

	body := []byte(`{"monthly_earnings": 25000}`)

	post := func(path string, payload []byte) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("identical body served from cache", func(t *testing.T) {
		first := post("/predict", body)
		second := post("/predict", body)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, 1, handlerHits)
	})

	t.Run("different body misses", func(t *testing.T) {
		post("/predict", []byte(`{"monthly_earnings": 30000}`))
		assert.Equal(t, 2, handlerHits)
	})

	t.Run("uncached path always reaches handler", func(t *testing.T) {
		post("/other", body)
		post("/other", body)
		assert.Equal(t, 4, handlerHits)
	})
}
