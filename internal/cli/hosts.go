package cli

import (
	"fmt"

	"hostpanel/internal/app"
	"hostpanel/internal/service"

	"github.com/spf13/cobra"
)

func newHostsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Manage database hosts",
	}
	cmd.AddCommand(newHostsListCommand(opts))
	cmd.AddCommand(newHostsAddCommand(opts))
	cmd.AddCommand(newHostsRemoveCommand(opts))
	return cmd
}

func newHostsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List database hosts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				hosts, err := a.Hosts.ListHosts()
				if err != nil {
					return err
				}
				rows := make([][]any, len(hosts))
				for i, h := range hosts {
					rows[i] = []any{h.ID, h.Name, h.Driver, h.Host, h.Port, h.Username, h.Database}
				}
				return opts.renderer(cmd).Table(hosts,
					[]string{"ID", "Name", "Driver", "Host", "Port", "User", "Database"}, rows)
			})
		},
	}
}

func newHostsAddCommand(opts *rootOptions) *cobra.Command {
	var in service.HostInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a database host",
		Example: `  # Register a MySQL host
  hostpanel hosts add --name primary --driver mysql --host db.internal --user panel --password secret

  # Register a local SQLite file
  hostpanel hosts add --name local --driver sqlite --host ./game.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				h, err := a.Hosts.CreateHost(in)
				if err != nil {
					return err
				}
				r := opts.renderer(cmd)
				if r.json() {
					return r.JSON(h)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created host %s (%s)\n", h.Name, h.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "display name")
	f.StringVar(&in.Driver, "driver", "mysql", "database driver (mysql|postgres|sqlite)")
	f.StringVar(&in.Host, "host", "", "hostname, or file path for sqlite")
	f.IntVar(&in.Port, "port", 0, "port (driver default when 0)")
	f.StringVar(&in.Username, "user", "", "user name")
	f.StringVar(&in.Password, "password", "", "password, kept in the secrets backend")
	f.StringVar(&in.Database, "database", "", "default database")
	f.StringVar(&in.SSLMode, "ssl-mode", "", "TLS mode (disable|require)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

func newHostsRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a database host and its secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				if _, err := a.Hosts.GetHost(args[0]); err != nil {
					return err
				}
				if err := a.Hosts.DeleteHost(args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed host %s\n", args[0])
				return nil
			})
		},
	}
}
