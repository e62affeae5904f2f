// Package cli provides the hostpanel command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"hostpanel/internal/app"
	"hostpanel/internal/config"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// rootOptions carries the state shared by every subcommand of one root.
type rootOptions struct {
	cfgFile string
	output  string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "hostpanel",
		Short: "hostpanel - game hosting admin panel backend",
		Long: `hostpanel manages the database hosts, announcements and nodes of a game
hosting panel, and browses the registered databases with a guarded query runner.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			switch opts.output {
			case outputTable, outputJSON:
			default:
				return fmt.Errorf("unknown output format %q (want table or json)", opts.output)
			}

			cfg, err := config.Load(opts.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = newLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			if cfg.FileUsed != "" {
				opts.logger.Debug("using config file", "path", cfg.FileUsed)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: ./hostpanel.yaml)")
	pf.String("data-dir", "", "directory holding the panel database")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("secrets", "", "secrets backend (sqlite|keychain)")
	pf.StringVarP(&opts.output, "output", "o", outputTable, "output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{outputTable, outputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newMCPCommand(opts))
	rootCmd.AddCommand(newHostsCommand(opts))
	rootCmd.AddCommand(newDBCommand(opts))
	rootCmd.AddCommand(newAnnouncementsCommand(opts))
	rootCmd.AddCommand(newNodesCommand(opts))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openApp wires the services for one command run. The caller closes it.
func (o *rootOptions) openApp() (*app.App, error) {
	if o.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return app.New(o.cfg, o.logger)
}

// withApp runs fn with a freshly opened App.
func (o *rootOptions) withApp(fn func(a *app.App) error) error {
	a, err := o.openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the hostpanel version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hostpanel v%s\n", Version)
		},
	}
}
