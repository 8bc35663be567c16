// Package bootstrap wires the ledger services from configuration. It is
// shared by the API server and ledgerctl.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "github.com/lib/pq"
	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/infrastructure/cache"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/oakline/ledger/internal/infrastructure/event"
	"github.com/oakline/ledger/internal/infrastructure/metrics"
	"github.com/oakline/ledger/internal/infrastructure/migration"
	"github.com/oakline/ledger/internal/infrastructure/persistence"
	"github.com/oakline/ledger/internal/infrastructure/spreadsheet"
	"github.com/oakline/ledger/internal/infrastructure/storage"
	"github.com/oakline/ledger/internal/infrastructure/webhook"
	"go.uber.org/zap"
)

// App holds the wired services
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *persistence.Database
	Bus      *event.LocalEventBus
	Metrics  *metrics.Registry
	Store    *dashboard.Store
	Sync     *export.Synchronizer
	Workbook *export.WorkbookService

	closers []io.Closer
}

// New connects to the database, brings the schema up to date and wires the
// store, the export synchronizer and the workbook service. The store is
// left empty; call Store.Load to fetch the data.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"))
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: log, DB: db}

	if err := app.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	app.Bus = event.NewLocalEventBus(log)
	if err := app.Bus.Start(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	app.Metrics = metrics.NewRegistry()

	app.Store = dashboard.NewStore(
		persistence.NewGormLedgerRepository(db.DB),
		app.Bus,
		log.Named("store"),
		dashboard.WithMutationRecorder(app.Metrics),
	)

	configStore, err := app.configStorage(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	fallback := export.WebhookConfig{EndpointURL: cfg.Export.EndpointURL, Enabled: cfg.Export.Enabled}
	webhookCfg, err := export.LoadConfig(ctx, configStore, fallback)
	if err != nil {
		log.Warn("failed to load stored export config, using configured defaults", zap.Error(err))
	}

	app.Sync = export.NewSynchronizer(
		webhookCfg,
		webhook.NewHTTPTransport(cfg.Export.RequestTimeout, webhook.WithLogger(log)),
		log.Named("export"),
		export.SynchronizerConfig{
			Delay:          cfg.Export.Delay,
			RequestTimeout: cfg.Export.RequestTimeout,
			Storage:        configStore,
			Metrics:        app.Metrics,
		},
	)
	app.Bus.Subscribe(app.Sync)

	var publisher export.WorkbookPublisher
	if cfg.Storage.Configured() {
		p, err := storage.NewS3Publisher(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("configure workbook storage: %w", err)
		}
		publisher = p
	}
	app.Workbook = export.NewWorkbookService(spreadsheet.NewZipCSVRenderer(), publisher, nil, log.Named("workbook"))

	log.Info("ledger services ready",
		zap.String("database", cfg.Database.Driver),
		zap.String("export_config_store", cfg.Export.ConfigStore),
		zap.Bool("export_enabled", webhookCfg.Active()),
		zap.Bool("workbook_publishing", publisher != nil),
	)
	return app, nil
}

// migrate applies the SQL migrations on postgres and AutoMigrate on sqlite.
// Migrations run on their own connection because closing the migrator
// closes the handle it was given.
func (a *App) migrate(ctx context.Context) error {
	if a.Config.Database.Driver != "postgres" {
		return a.DB.AutoMigrate(ctx)
	}

	sqlDB, err := sql.Open("postgres", a.Config.Database.DSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	m, err := migration.New(sqlDB, a.Logger.Named("migrate"))
	if err != nil {
		_ = sqlDB.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}

func (a *App) configStorage(ctx context.Context) (export.ConfigStorage, error) {
	initial := export.WebhookConfig{EndpointURL: a.Config.Export.EndpointURL, Enabled: a.Config.Export.Enabled}

	switch a.Config.Export.ConfigStore {
	case "redis":
		store, err := cache.NewConfigStoreFactory(a.Config.Redis,
			cache.WithLogger(a.Logger),
			cache.WithInMemoryFallback(!a.Config.IsProduction()),
		).CreateStore(ctx, initial)
		if err != nil {
			return nil, err
		}
		if c, ok := store.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		return store, nil
	case "memory":
		return cache.NewInMemoryWebhookConfigStore(initial), nil
	default:
		return persistence.NewGormWebhookSettingsRepository(a.DB.DB), nil
	}
}

// Close drops any pending export, stops the bus and releases connections
func (a *App) Close(ctx context.Context) {
	if a.Sync != nil {
		a.Sync.Close()
	}
	if a.Bus != nil {
		_ = a.Bus.Stop(ctx)
	}

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.DB.Close())
	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("error closing ledger services", zap.Error(err))
	}
}
