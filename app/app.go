// Package app wires the dashboard core together for embedders: the
// presentation layer constructs one App per page session and calls into its
// views.
package app

import (
	"context"

	"github.com/gridironhq/cfbdash/config"
	"github.com/gridironhq/cfbdash/external/cfbdata"
	"github.com/gridironhq/cfbdash/observability"
	"github.com/gridironhq/cfbdash/platform/cache"
	"github.com/gridironhq/cfbdash/platform/logging"
	"github.com/gridironhq/cfbdash/usecase"
)

// View names registered with the refresh orchestrator. Each view owns its own
// snapshot of the fetched collections.
const (
	ViewGames       = "games"
	ViewTeams       = "teams"
	ViewConferences = "conferences"
	ViewRankings    = "rankings"
	ViewTeamDetail  = "team_detail"
)

type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Client  *cfbdata.Client
	Views   map[string]*usecase.ViewService
	Refresh *usecase.RefreshService

	uptraceShutdown   func(context.Context) error
	pyroscopeShutdown func() error
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewJSON(cfg.LogLevel)
	}
	logging.SetDefault(logger)

	uptraceShutdown, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, err
	}
	pyroscopeShutdown, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return nil, err
	}

	client := cfbdata.NewClient(cfbdata.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
	})

	viewNames := []string{ViewGames, ViewTeams, ViewConferences, ViewRankings, ViewTeamDetail}
	views := make(map[string]*usecase.ViewService, len(viewNames))
	snapshots := make(map[string]*usecase.SnapshotService, len(viewNames))
	for _, name := range viewNames {
		snapshotSvc := usecase.NewSnapshotService(client, logger.With("view", name))

		var store *cache.Store
		if cfg.CacheEnabled {
			store = cache.NewStore(cfg.CacheTTL)
		}

		snapshots[name] = snapshotSvc
		views[name] = usecase.NewViewService(snapshotSvc, store, logger.With("view", name))
	}

	return &App{
		Config:            cfg,
		Logger:            logger,
		Client:            client,
		Views:             views,
		Refresh:           usecase.NewRefreshService(snapshots, logger),
		uptraceShutdown:   uptraceShutdown,
		pyroscopeShutdown: pyroscopeShutdown,
	}, nil
}

// Shutdown flushes observability exporters and the logger.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.pyroscopeShutdown != nil {
		if err := a.pyroscopeShutdown(); err != nil {
			firstErr = err
		}
	}
	if a.uptraceShutdown != nil {
		if err := a.uptraceShutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := a.Logger.Sync(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
