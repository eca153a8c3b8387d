// Package app wires configuration, storage, the market-data provider and the
// research service into one application.
package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/common"
	"github.com/ternarybob/divcast/internal/eodhd"
	"github.com/ternarybob/divcast/internal/handlers"
	"github.com/ternarybob/divcast/internal/interfaces"
	"github.com/ternarybob/divcast/internal/services/research"
	"github.com/ternarybob/divcast/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager
	Registry       *prometheus.Registry

	// Market data
	EODHDClient *eodhd.Client
	Provider    interfaces.DividendDataProvider

	// Research
	Cache           *research.Cache
	ResearchService *research.Service
	Refresher       *research.Refresher

	// HTTP handlers
	DividendHandler *handlers.DividendHandler
	StatusHandler   *handlers.StatusHandler
}

// New creates the application from cfg.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	common.SetDefaultExchange(cfg.Research.DefaultExchange)

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Bool("cache_enabled", app.Cache.Enabled()).
		Int("watchlist", len(cfg.Research.Watchlist)).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	a.StorageManager = storageManager
	return nil
}

func (a *App) initServices() error {
	if a.Config.EODHD.APIKey == "" {
		return fmt.Errorf("EODHD API key is not configured (set [eodhd] api_key or EODHD_API_KEY)")
	}

	clientOpts := []eodhd.ClientOption{
		eodhd.WithLogger(a.Logger),
		eodhd.WithRateLimit(a.Config.EODHD.RateLimit),
		eodhd.WithHTTPClient(&http.Client{Timeout: a.Config.EODHD.TimeoutDuration()}),
	}
	if a.Config.EODHD.BaseURL != "" {
		clientOpts = append(clientOpts, eodhd.WithBaseURL(a.Config.EODHD.BaseURL))
	}
	a.EODHDClient = eodhd.NewClient(a.Config.EODHD.APIKey, clientOpts...)
	a.Provider = eodhd.NewProvider(a.EODHDClient, a.Logger, eodhd.WithRetryConfig(a.Config.EODHD.RetryConfig()))

	a.Cache = research.NewCache(a.StorageManager.KeyValueStorage(), a.Logger, a.Config.Cache.MemoryTTLDuration())
	a.Cache.SetTTL(a.Config.Cache.TTLDuration())
	if !a.Config.Cache.Enabled {
		a.Cache.Disable()
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a.ResearchService = research.NewService(a.Provider, a.Cache, a.Logger, a.Registry).
		WithConcurrency(a.Config.Research.Concurrency)

	a.Refresher = research.NewRefresher(a.ResearchService, a.Config.Research.Watchlist, a.Logger)

	a.Logger.Debug().Msg("Services initialized")
	return nil
}

func (a *App) initHandlers() {
	a.DividendHandler = handlers.NewDividendHandler(a.ResearchService, a.Cache, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.Cache.Enabled, a.Logger)
}

// StartRefresher schedules the watchlist refresh when configured.
func (a *App) StartRefresher() error {
	schedule := a.Config.Research.RefreshSchedule
	if schedule == "" {
		a.Logger.Debug().Msg("No refresh schedule configured")
		return nil
	}
	return a.Refresher.Start(schedule)
}

// Close stops background work and closes storage.
func (a *App) Close() error {
	if a.Refresher != nil {
		a.Refresher.Stop()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Debug().Msg("Storage closed")
	}
	return nil
}
