package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hostpanel/internal/app"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the node monitor",
		Long: `Run the JSON API, the scheduled node resource check and, when a config file
is in use, reload the denied-verb list whenever the file changes.`,
		Example: `  # Serve on the default address
  hostpanel serve

  # Serve on all interfaces and also deny ALTER
  hostpanel serve --http-addr :8080 --denied-verbs DROP,TRUNCATE,DELETE,UPDATE,ALTER`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return opts.withApp(func(a *app.App) error {
				return a.Serve(ctx, cmd.Flags())
			})
		},
	}
	cmd.Flags().String("http-addr", "", "listen address (default 127.0.0.1:8080)")
	cmd.Flags().StringSlice("denied-verbs", nil, "statement prefixes the query runner rejects")
	return cmd
}

func newMCPCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				return a.ServeMCP(Version)
			})
		},
	}
}

// commandContext returns the command context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
