package cli

import (
	"hostpanel/internal/app"
	"hostpanel/internal/domain"

	"github.com/spf13/cobra"
)

func newDBCommand(opts *rootOptions) *cobra.Command {
	var hostID string
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Browse the databases of a host",
		Example: `  hostpanel db databases --host <id>
  hostpanel db tables --host <id> shop
  hostpanel db page --host <id> shop orders
  hostpanel db query --host <id> --database shop "SELECT COUNT(*) FROM orders"`,
	}
	cmd.PersistentFlags().StringVar(&hostID, "host", "", "database host ID")
	_ = cmd.MarkPersistentFlagRequired("host")

	cmd.AddCommand(&cobra.Command{
		Use:   "databases",
		Short: "List databases with their table counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				state, note := a.Browser.Open(commandContext(cmd), hostID)
				r := opts.renderer(cmd)
				if err := r.Notice(note); err != nil {
					return err
				}
				rows := make([][]any, len(state.Databases))
				for i, d := range state.Databases {
					rows[i] = []any{d.Name, d.TableCount}
				}
				return r.Table(state.Databases, []string{"Database", "Tables"}, rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tables <database>",
		Short: "List tables with their row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				state, note := a.Browser.SelectDatabase(commandContext(cmd), domain.BrowserState{HostID: hostID}, args[0])
				r := opts.renderer(cmd)
				if err := r.Notice(note); err != nil {
					return err
				}
				rows := make([][]any, len(state.Tables))
				for i, t := range state.Tables {
					rows[i] = []any{t.Name, t.RowCount}
				}
				return r.Table(state.Tables, []string{"Table", "Rows"}, rows)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "describe <database> <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				cred, err := a.Hosts.Credential(hostID)
				if err != nil {
					return err
				}
				cols, err := a.Browser.Browser().DescribeTable(commandContext(cmd), cred, args[0], args[1])
				if err != nil {
					return err
				}
				return opts.renderer(cmd).Table(cols, []string{"Field", "Type", "Null", "Key", "Default"}, columnRows(cols))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "page <database> <table>",
		Short: "Show the first page of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				state := domain.BrowserState{HostID: hostID}.WithDatabase(args[0])
				state, note := a.Browser.SelectTable(commandContext(cmd), state, args[1])
				r := opts.renderer(cmd)
				if err := r.Notice(note); err != nil {
					return err
				}
				if state.Page == nil {
					return nil
				}
				header := make([]string, len(state.Page.Columns))
				for i, c := range state.Page.Columns {
					header[i] = c.Field
				}
				if err := r.Table(state.Page, header, valueRows(state.Page.Rows)); err != nil {
					return err
				}
				if !r.json() {
					r.Printf("%d of %d rows\n", len(state.Page.Rows), state.Page.TotalRows)
				}
				return nil
			})
		},
	})

	var database string
	queryCmd := &cobra.Command{
		Use:   "query <statement>",
		Short: "Run one guarded SQL statement",
		Long: `Run one SQL statement. Statements starting with a denied verb
(browser.denied_verbs, default DROP, TRUNCATE, DELETE, UPDATE) are rejected
before any connection is opened.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				state := domain.BrowserState{HostID: hostID, SelectedDatabase: database}
				state, note := a.Browser.ExecuteQuery(commandContext(cmd), state, args[0])
				r := opts.renderer(cmd)
				if err := r.Notice(note); err != nil {
					return err
				}
				if state.Result == nil {
					return nil
				}
				return r.Table(state.Result, resultHeader(state.Result.Rows), valueRows(state.Result.Rows))
			})
		},
	}
	queryCmd.Flags().StringVar(&database, "database", "", "database to run against (host default when empty)")
	cmd.AddCommand(queryCmd)

	return cmd
}

func columnRows(cols []domain.ColumnDescriptor) [][]any {
	rows := make([][]any, len(cols))
	for i, c := range cols {
		def := "NULL"
		if c.Default != nil {
			def = *c.Default
		}
		null := "NO"
		if c.Nullable {
			null = "YES"
		}
		rows[i] = []any{c.Field, c.Type, null, c.Key, def}
	}
	return rows
}

func valueRows(rows []domain.Row) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, row.Len())
		for j, v := range row.Values {
			cells[j] = v.String()
		}
		out[i] = cells
	}
	return out
}

func resultHeader(rows []domain.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Columns
}
