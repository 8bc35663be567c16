package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/oakline/ledger/internal/infrastructure/logger"
	"github.com/oakline/ledger/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineOption configures NewEngine
type EngineOption func(*engineOptions)

type engineOptions struct {
	observer       middleware.RequestObserver
	metricsPath    string
	metricsHandler http.Handler
}

// WithRequestMetrics records every request with observer and serves
// handler at metricsPath
func WithRequestMetrics(observer middleware.RequestObserver, metricsPath string, handler http.Handler) EngineOption {
	return func(o *engineOptions) {
		o.observer = observer
		o.metricsPath = metricsPath
		o.metricsHandler = handler
	}
}

// NewEngine builds a gin engine with the standard middleware chain. Request
// metrics wrap recovery so panics are counted as 500s.
func NewEngine(cfg *config.Config, log *zap.Logger, opts ...EngineOption) *gin.Engine {
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	if o.observer != nil {
		engine.Use(middleware.Metrics(o.observer))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if o.metricsHandler != nil && o.metricsPath != "" {
		engine.GET(o.metricsPath, gin.WrapH(o.metricsHandler))
	}
	return engine
}
