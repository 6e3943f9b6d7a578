package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propertyhub/backend/internal/infrastructure/logger"
	"github.com/propertyhub/backend/internal/infrastructure/telemetry"
	"github.com/propertyhub/backend/internal/interfaces/http/dto"
	"github.com/propertyhub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger checks a dependency's liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// EngineConfig describes the gin engine of the billing API
type EngineConfig struct {
	Logger         *zap.Logger
	ServiceName    string
	TracingEnabled bool
	Metrics        *telemetry.Metrics
	MetricsPath    string // empty disables the scrape endpoint
	MaxBodySize    int64
	TrustedProxies []string
	Database       Pinger
}

// NewEngine builds the gin engine with the standard middleware chain plus the
// health and metrics endpoints. API routes are added through Router.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(cfg.Metrics),
		middleware.BodyLimit(cfg.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found"))
	})

	engine.GET("/health", healthHandler(cfg.ServiceName, cfg.Database))
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	return engine, nil
}

func healthHandler(service string, db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "healthy", "service": service}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
				status["status"] = "unhealthy"
				status["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
			status["database"] = "ok"
		}
		c.JSON(http.StatusOK, status)
	}
}
