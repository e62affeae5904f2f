package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"hostpanel/internal/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// renderer writes command results as a table or JSON.
type renderer struct {
	out  io.Writer
	err  io.Writer
	mode string
}

func (o *rootOptions) renderer(cmd *cobra.Command) *renderer {
	return &renderer{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr(), mode: o.output}
}

func (r *renderer) json() bool { return r.mode == outputJSON }

func (r *renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under header; in JSON mode v is encoded instead.
func (r *renderer) Table(v any, header []string, rows [][]any) error {
	if r.json() {
		return r.JSON(v)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.Render()
	_, _ = fmt.Fprintf(r.out, "(%d rows)\n", len(rows))
	return nil
}

// Notice prints a browser notification to stderr. Notifications that are not
// successes become the command error.
func (r *renderer) Notice(n *service.Notification) error {
	if n == nil {
		return nil
	}
	if n.Level == service.LevelSuccess {
		_, _ = fmt.Fprintf(r.err, "%s: %s\n", n.Title, n.Body)
		return nil
	}
	return fmt.Errorf("%s: %s", n.Title, n.Body)
}

// Printf writes a free-form line to stdout.
func (r *renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
