package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oakline/ledger/internal/bootstrap"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/oakline/ledger/internal/infrastructure/logger"
	"github.com/oakline/ledger/internal/interfaces/http/handler"
	"github.com/oakline/ledger/internal/interfaces/http/middleware"
	"github.com/oakline/ledger/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config.toml (default: search ., ./config, /app)")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting ledger API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer app.Close(context.Background())

	// A failed load leaves the store empty; health reports it and the
	// API keeps serving so the data can be reloaded or imported.
	if err := app.Store.Load(ctx); err != nil {
		log.Error("Initial data load failed", zap.Error(err))
	}

	middleware.SetupValidator()

	var engineOpts []router.EngineOption
	if cfg.Metrics.Enabled {
		engineOpts = append(engineOpts, router.WithRequestMetrics(app.Metrics, cfg.Metrics.Path, app.Metrics.Handler()))
	}
	engine := router.NewEngine(cfg, log, engineOpts...)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterLedgerRoutes(r, router.Handlers{
		Projects:         handler.NewProjectHandler(app.Store),
		Entries:          handler.NewEntryHandler(app.Store),
		OperationalCosts: handler.NewOperationalCostHandler(app.Store),
		Dashboard:        handler.NewDashboardHandler(app.Store),
		Export:           handler.NewExportHandler(app.Store, app.Sync, app.Workbook),
		System:           handler.NewSystemHandler(app.DB, app.Store, version),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
