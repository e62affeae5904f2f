// Package httpapi exposes hosts, the database browser, announcements and node
// warnings as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"hostpanel/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"
)

// Config holds the dependencies of the API server.
type Config struct {
	Addr          string
	SessionSecret string
	Logger        *slog.Logger

	Hosts         *service.HostService
	Browser       *service.BrowserService
	Sessions      *service.SessionRegistry
	Announcements *service.AnnouncementService
	Nodes         *service.NodeService
}

// Server is the HTTP API server.
type Server struct {
	cfg          Config
	logger       *slog.Logger
	sessionStore *sessions.CookieStore
}

// NewServer creates a server. An empty session secret gets a random one, which
// invalidates browser sessions on restart.
func NewServer(cfg Config) *Server {
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	sessionStore := sessions.NewCookieStore([]byte(secret))
	sessionStore.MaxAge(86400) // 1 day
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Sessions == nil {
		cfg.Sessions = service.NewSessionRegistry()
	}
	return &Server{cfg: cfg, logger: logger, sessionStore: sessionStore}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		withLogger(s.logger),
	)

	setupHostRoutes(r, s.cfg.Hosts)
	setupBrowserRoutes(r, &browserHandlers{
		hosts:        s.cfg.Hosts,
		browser:      s.cfg.Browser,
		sessions:     s.cfg.Sessions,
		sessionStore: s.sessionStore,
		logger:       s.logger,
	})
	setupAnnouncementRoutes(r, s.cfg.Announcements)
	setupNodeRoutes(r, s.cfg.Nodes)
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("starting API server", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		err := srv.Shutdown(shutdownCtx)
		s.cfg.Sessions.Wait(shutdownCtx)
		return err
	})

	return eg.Wait()
}
