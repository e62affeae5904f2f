// Package app wires storage, secrets and services from a Config and runs the
// long-lived adapters (HTTP API, MCP stdio, node monitor, config watcher).
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"hostpanel/internal/config"
	"hostpanel/internal/dbclient"
	"hostpanel/internal/secret"
	"hostpanel/internal/service"
	"hostpanel/internal/storage"
)

// App holds the wired services of one hostpanel process.
type App struct {
	mu     sync.RWMutex
	cfg    *config.Config
	logger *slog.Logger
	db     *storage.DB

	Hosts         *service.HostService
	Browser       *service.BrowserService
	Sessions      *service.SessionRegistry
	Announcements *service.AnnouncementService
	Nodes         *service.NodeService
	Monitor       *service.NodeMonitor
}

// New opens the panel database at cfg.DatabasePath and builds the services.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := storage.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newWithDB(cfg, logger, db)
}

func newWithDB(cfg *config.Config, logger *slog.Logger, db *storage.DB) (*App, error) {
	secrets, err := secretStore(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	emitter := service.LogEmitter{Logger: logger}

	hosts := service.NewHostService(storage.NewDBHostStore(db), secrets)
	browser := dbclient.NewBrowser(dbclient.NewProvisioner(), guardFor(cfg), logger)
	browserSvc := service.NewBrowserService(hosts, browser, emitter,
		service.WithQueryLog(storage.NewQueryLogStore(db)),
		service.WithQueryTimeout(cfg.Browser.QueryTimeout),
		service.WithLogger(logger),
	)
	nodes := service.NewNodeService(storage.NewNodeStore(db), logger)

	return &App{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		Hosts:         hosts,
		Browser:       browserSvc,
		Sessions:      service.NewSessionRegistry(),
		Announcements: service.NewAnnouncementService(storage.NewAnnouncementStore(db)),
		Nodes:         nodes,
		Monitor:       service.NewNodeMonitor(nodes, emitter, logger),
	}, nil
}

func secretStore(cfg *config.Config, db *storage.DB) (secret.SecretStore, error) {
	switch cfg.Secrets.Backend {
	case config.SecretsKeychain:
		return secret.NewKeychainStore(), nil
	case config.SecretsSQLite, "":
		return storage.NewSecretStore(db), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q", cfg.Secrets.Backend)
	}
}

func guardFor(cfg *config.Config) dbclient.Guard {
	return dbclient.NewPrefixGuard(cfg.Browser.DeniedVerbs...)
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Logger returns the process logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// ApplyConfig takes over the settings that can change at runtime. Today that
// is the denied-verb list.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Browser.Browser().SetGuard(guardFor(cfg))
	a.logger.Info("denied verbs updated", "verbs", cfg.Browser.DeniedVerbs)

	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
}

// Close releases the panel database.
func (a *App) Close() error {
	return a.db.Close()
}

