package cli

import (
	"hostpanel/internal/app"
	"hostpanel/internal/domain"

	"github.com/spf13/cobra"
)

func newNodesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Manage nodes and their resource warnings",
	}
	cmd.AddCommand(newNodesListCommand(opts))
	cmd.AddCommand(newNodesAddCommand(opts))
	cmd.AddCommand(newNodesReportCommand(opts))
	cmd.AddCommand(newNodesWarningsCommand(opts))
	cmd.AddCommand(newNodesCheckCommand(opts))
	return cmd
}

func newNodesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List nodes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				nodes, err := a.Nodes.ListNodes()
				if err != nil {
					return err
				}
				rows := make([][]any, len(nodes))
				for i, n := range nodes {
					rows[i] = []any{n.ID, n.Name, n.FQDN, n.CPUWarningThreshold, n.MemoryWarningThreshold, n.DiskWarningThreshold, n.HasResourceWarnings}
				}
				return opts.renderer(cmd).Table(nodes,
					[]string{"ID", "Name", "FQDN", "CPU %", "Memory %", "Disk %", "Warnings"}, rows)
			})
		},
	}
}

func newNodesAddCommand(opts *rootOptions) *cobra.Command {
	var n domain.Node
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				if err := a.Nodes.CreateNode(&n); err != nil {
					return err
				}
				r := opts.renderer(cmd)
				if r.json() {
					return r.JSON(n)
				}
				r.Printf("Created node %s (%s)\n", n.Name, n.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&n.Name, "name", "", "node name")
	f.StringVar(&n.FQDN, "fqdn", "", "node FQDN")
	f.Float64Var(&n.CPUWarningThreshold, "cpu-threshold", domain.DefaultCPUWarningThreshold, "CPU warning threshold in percent")
	f.Float64Var(&n.MemoryWarningThreshold, "memory-threshold", domain.DefaultMemoryWarningThreshold, "memory warning threshold in percent")
	f.Float64Var(&n.DiskWarningThreshold, "disk-threshold", domain.DefaultDiskWarningThreshold, "disk warning threshold in percent")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newNodesReportCommand(opts *rootOptions) *cobra.Command {
	var stats domain.NodeStatistics
	cmd := &cobra.Command{
		Use:   "report <id>",
		Short: "Store a resource snapshot for a node and re-check it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				warnings, err := a.Nodes.ReportStatistics(args[0], stats)
				if err != nil {
					return err
				}
				r := opts.renderer(cmd)
				if r.json() {
					if warnings == nil {
						warnings = []domain.ResourceWarning{}
					}
					return r.JSON(warnings)
				}
				r.Printf("%s\n", domain.WarningSummary(warnings))
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&stats.CPUPercent, "cpu", 0, "CPU usage in percent")
	f.Int64Var(&stats.MemoryUsed, "memory-used", 0, "used memory in bytes")
	f.Int64Var(&stats.MemoryTotal, "memory-total", 0, "total memory in bytes")
	f.Int64Var(&stats.DiskUsed, "disk-used", 0, "used disk in bytes")
	f.Int64Var(&stats.DiskTotal, "disk-total", 0, "total disk in bytes")
	return cmd
}

func newNodesWarningsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "warnings",
		Short: "List nodes with resource warnings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				list, err := a.Nodes.Warnings()
				if err != nil {
					return err
				}
				rows := make([][]any, len(list))
				for i, w := range list {
					rows[i] = []any{w.Node.Name, w.Severity, w.Color, w.Summary}
				}
				return opts.renderer(cmd).Table(list, []string{"Node", "Severity", "Color", "Summary"}, rows)
			})
		},
	}
}

func newNodesCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Re-check every node now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				flagged, err := a.Nodes.CheckAll(commandContext(cmd))
				if err != nil {
					return err
				}
				opts.renderer(cmd).Printf("%d node(s) with resource warnings\n", flagged)
				return nil
			})
		},
	}
}
