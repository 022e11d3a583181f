package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/customerhub/backend/internal/infrastructure/logger"
	"github.com/customerhub/backend/internal/infrastructure/telemetry"
	"github.com/customerhub/backend/internal/interfaces/http/dto"
	"github.com/customerhub/backend/internal/interfaces/http/handler"
	"github.com/customerhub/backend/internal/interfaces/http/middleware"
)

// EngineConfig holds everything needed to assemble the HTTP engine
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	TrustedProxies []string
	Tracing        middleware.TracingConfig
	// HTTPMetrics is optional; nil disables request metrics
	HTTPMetrics *telemetry.HTTPMetrics
	// Gatherer backs GET /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
}

// NewEngine builds the gin engine with the standard middleware chain, the
// customer API under /api/v1 and the operational endpoints.
func NewEngine(cfg EngineConfig, customers *handler.CustomerHandler, system *handler.SystemHandler) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.HTTPMetrics(cfg.HTTPMetrics))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	engine.GET("/health", system.Health)
	if cfg.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	NewRouter(engine, WithAPIVersion("v1")).
		Register(NewCustomerRoutes(customers)).
		Register(NewSystemRoutes(system)).
		Setup()

	return engine, nil
}
