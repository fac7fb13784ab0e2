package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/novascore/nova-score/internal/cache"
	"github.com/novascore/nova-score/internal/config"
	"github.com/novascore/nova-score/internal/errors"
	"github.com/novascore/nova-score/internal/history"
	"github.com/novascore/nova-score/internal/model"
	"github.com/novascore/nova-score/internal/monitoring"
	"github.com/novascore/nova-score/internal/pipeline"
	"github.com/novascore/nova-score/internal/ratelimit"
	"github.com/novascore/nova-score/internal/security"
	"github.com/novascore/nova-score/internal/types"
)

// serverDeps bundles everything the router needs. Tests construct it with
// in-memory fakes; main wires the real implementations.
type serverDeps struct {
	cfg     *config.Config
	svc     *pipeline.Service
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	cache   *cache.Cache
	limiter *ratelimit.RateLimiter
	store   *history.Store // nil when history is disabled
	redis   *ratelimit.RedisClient
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	schema, err := model.LoadSchema(cfg.SchemaPath)
	if err != nil {
		appErr := errors.NewConfigurationError("failed to load feature schema", err)
		slog.Error("Startup failed", "error", appErr, "path", cfg.SchemaPath)
		os.Exit(1)
	}

	scorer, err := model.LoadLogistic(cfg.ModelPath)
	if err != nil {
		appErr := errors.NewConfigurationError("failed to load scoring model", err)
		slog.Error("Startup failed", "error", appErr, "path", cfg.ModelPath)
		os.Exit(1)
	}

	if scorer.FeatureCount() != schema.Len() {
		slog.Error("Model and schema disagree on feature count",
			"model_features", scorer.FeatureCount(),
			"schema_features", schema.Len())
		os.Exit(1)
	}

	svc := pipeline.New(schema, scorer)

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	var store *history.Store
	if cfg.HistoryEnabled {
		store, err = history.NewStore(cfg.DataDir)
		if err != nil {
			slog.Error("Failed to initialize prediction history", "error", err)
			os.Exit(1)
		}
		defer errors.SafeClose(store, "history store")
	}

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		// Degraded but serviceable: the limiter falls back to in-memory.
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer errors.SafeClose(redisClient, "redis client")

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:   cfg.IPLimitPerMin,
		BurstMultiplier: 2,
	}, appMetrics)

	appCache := cache.NewCache(cfg.CacheTTL(), "/predict", "/predict/basic")

	deps := serverDeps{
		cfg:     cfg,
		svc:     svc,
		metrics: appMetrics,
		logger:  appLogger,
		cache:   appCache,
		limiter: limiter,
		store:   store,
		redis:   redisClient,
	}

	r := setupRouter(deps)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server",
			"addr", cfg.Addr,
			"features", schema.Len(),
			"history_enabled", cfg.HistoryEnabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// setupRouter builds the gin engine with the full middleware chain and all
// routes. Kept separate from main so tests can drive the HTTP surface.
func setupRouter(deps serverDeps) *gin.Engine {
	r := gin.New()

	securityMiddleware := security.NewSecurityMiddleware(security.SecurityConfig{
		MaxBodyBytes:   1 << 20,
		TrustedProxies: security.DefaultSecurityConfig().TrustedProxies,
		RequestTimeout: deps.cfg.RequestTimeout(),
	})
	if err := r.SetTrustedProxies(securityMiddleware.TrustedProxies()); err != nil {
		slog.Warn("Failed to set trusted proxies", "error", err)
	}

	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.LimitBodySize)

	if deps.limiter != nil {
		r.Use(deps.limiter.IPRateLimitMiddleware())
	}

	r.Use(deps.cache.Middleware(deps.metrics))

	r.GET("/health", handleHealth(deps))
	r.GET("/features", handleFeatures(deps))

	predict := r.Group("/")
	if deps.limiter != nil {
		predict.Use(deps.limiter.EndpointRateLimitMiddleware("predict", deps.cfg.PredictLimitPerMin))
	}
	predict.POST("/predict", handlePredict(deps, true))
	predict.POST("/predict/basic", handlePredict(deps, false))

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.metrics.GetStats())
	})
	r.GET("/metrics/prometheus", gin.WrapH(deps.metrics.PrometheusHandler()))

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.cache.Stats())
	})

	if deps.limiter != nil {
		r.GET("/pools/redis", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"pool":  "redis",
				"stats": deps.limiter.GetStats(),
			})
		})
	}

	if deps.store != nil {
		r.GET("/history/recent", handleHistoryRecent(deps))
		r.GET("/history/stats", handleHistoryStats(deps))
		r.GET("/pools/database", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"pool":  "database",
				"stats": deps.store.PoolStats(),
			})
		})
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handleHealth reports readiness of the model and feature registry alongside
// runtime metrics.
func handleHealth(deps serverDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ready := deps.svc.Ready()

		response := gin.H{
			"status":          "ok",
			"timestamp":       time.Now().Format(time.RFC3339),
			"model_loaded":    ready,
			"features_loaded": deps.svc.SchemaLen() > 0,
			"feature_count":   deps.svc.SchemaLen(),
			"metrics":         deps.metrics.GetStats(),
		}

		if !ready {
			response["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// handleFeatures exposes the ordered feature schema the model consumes.
func handleFeatures(deps serverDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		names := deps.svc.SchemaNames()
		c.JSON(http.StatusOK, gin.H{
			"count":    len(names),
			"features": names,
		})
	}
}

// handlePredict serves both prediction variants. The detailed variant adds
// improvement suggestions and lending reference bands to the response.
func handlePredict(deps serverDeps, detailed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid JSON payload: " + err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if violations := req.Validate(); len(violations) > 0 {
			appErr := errors.NewValidationErrorWithFields(violations)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()

		var score, confidence float64
		var riskLevel string
		var payload interface{}

		if detailed {
			resp, err := deps.svc.ScoreDetailed(req)
			if err != nil {
				appErr := errors.ToAppError(err)
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			score, riskLevel, confidence = resp.Score, resp.RiskLevel, resp.ModelConfidence
			payload = resp
		} else {
			resp, err := deps.svc.Score(req)
			if err != nil {
				appErr := errors.ToAppError(err)
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			score, riskLevel, confidence = resp.Score, resp.RiskLevel, resp.ModelConfidence
			payload = resp
		}

		duration := time.Since(start)
		deps.metrics.RecordPrediction(riskLevel, duration)
		deps.logger.PredictionLogger(score, riskLevel, confidence, duration, c.GetBool("cache_hit"))

		if deps.store != nil {
			rec := history.Record{
				Score:       score,
				RiskLevel:   riskLevel,
				Confidence:  confidence,
				City:        req.City,
				VehicleType: req.VehicleType,
				InputHash:   requestHash(req),
			}
			// Async so persistence never delays the response
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if _, err := deps.store.Save(ctx, rec); err != nil {
					slog.Error("Failed to persist prediction record", "error", err)
				}
			}()
		}

		c.JSON(http.StatusOK, payload)
	}
}

// handleHistoryRecent returns the most recent persisted predictions.
func handleHistoryRecent(deps serverDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
				limit = l
			}
		}

		records, err := deps.store.Recent(c.Request.Context(), limit)
		if err != nil {
			appErr := errors.NewInternalError("failed to read prediction history", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"count":   len(records),
			"records": records,
		})
	}
}

// handleHistoryStats returns aggregate statistics over the stored history.
func handleHistoryStats(deps serverDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := deps.store.GetStats(c.Request.Context())
		if err != nil {
			appErr := errors.NewInternalError("failed to aggregate prediction history", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// requestHash fingerprints a scoring request for history records without
// storing the raw input.
func requestHash(req types.ScoreRequest) string {
	data, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}
