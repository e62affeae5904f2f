package app

import (
	"context"
	"time"

	"hostpanel/internal/config"
	"hostpanel/internal/httpapi"
	mcpserver "hostpanel/internal/mcp"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// Serve runs the HTTP API, the node monitor and, when a config file is in
// use, the config watcher until ctx is cancelled or one of them fails.
func (a *App) Serve(ctx context.Context, flags *pflag.FlagSet) error {
	eg, egctx := errgroup.WithContext(ctx)
	cfg := a.Config()

	srv := httpapi.NewServer(httpapi.Config{
		Addr:          cfg.HTTP.Addr,
		SessionSecret: cfg.HTTP.SessionSecret,
		Logger:        a.logger,
		Hosts:         a.Hosts,
		Browser:       a.Browser,
		Sessions:      a.Sessions,
		Announcements: a.Announcements,
		Nodes:         a.Nodes,
	})
	eg.Go(func() error {
		return srv.Serve(egctx)
	})

	eg.Go(func() error {
		if err := a.Monitor.Start(egctx, cfg.Nodes.CheckSchedule); err != nil {
			return err
		}
		<-egctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Monitor.Stop(stopCtx)
		return nil
	})

	if path := cfg.FileUsed; path != "" {
		eg.Go(func() error {
			return config.Watch(egctx, path, flags, a.logger, a.ApplyConfig)
		})
	}

	return eg.Wait()
}

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func (a *App) ServeMCP(version string) error {
	srv := mcpserver.New(mcpserver.Deps{
		Logger:        a.logger,
		Hosts:         a.Hosts,
		Browser:       a.Browser,
		Announcements: a.Announcements,
		Nodes:         a.Nodes,
		Version:       version,
	})
	return srv.ServeStdio()
}
