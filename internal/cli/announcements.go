package cli

import (
	"fmt"
	"time"

	"hostpanel/internal/app"
	"hostpanel/internal/domain"

	"github.com/spf13/cobra"
)

func newAnnouncementsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "announcements",
		Aliases: []string{"ann"},
		Short:   "Manage announcements shown to server owners",
	}
	cmd.AddCommand(newAnnouncementsListCommand(opts))
	cmd.AddCommand(newAnnouncementsAddCommand(opts))
	cmd.AddCommand(newAnnouncementsRemoveCommand(opts))
	return cmd
}

func newAnnouncementsListCommand(opts *rootOptions) *cobra.Command {
	var activeFor int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List announcements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(a *app.App) error {
				var (
					list []domain.Announcement
					err  error
				)
				if cmd.Flags().Changed("server") {
					list, err = a.Announcements.ActiveFor(activeFor)
				} else {
					list, err = a.Announcements.List()
				}
				if err != nil {
					return err
				}
				now := time.Now()
				rows := make([][]any, len(list))
				for i, an := range list {
					rows[i] = []any{an.ID, an.Title, an.Type, an.IsCurrentlyActive(now), targetsLabel(an), windowLabel(an)}
				}
				return opts.renderer(cmd).Table(list,
					[]string{"ID", "Title", "Type", "Live", "Targets", "Window"}, rows)
			})
		},
	}
	cmd.Flags().Int64Var(&activeFor, "server", 0, "only announcements currently shown to this server ID")
	return cmd
}

func newAnnouncementsAddCommand(opts *rootOptions) *cobra.Command {
	var (
		ann      domain.Announcement
		typ      string
		inactive bool
		start    string
		end      string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an announcement",
		Example: `  hostpanel announcements add --title "Maintenance" --message "Reboot at 02:00 UTC" \
    --type maintenance --created-by 1 --servers 12,14 --start 2026-10-20T02:00:00Z`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ann.Type = domain.AnnouncementType(typ)
			ann.IsActive = !inactive
			var err error
			if ann.ScheduledStart, err = parseTimeFlag("start", start); err != nil {
				return err
			}
			if ann.ScheduledEnd, err = parseTimeFlag("end", end); err != nil {
				return err
			}
			return opts.withApp(func(a *app.App) error {
				if err := a.Announcements.Create(&ann); err != nil {
					return err
				}
				r := opts.renderer(cmd)
				if r.json() {
					return r.JSON(ann)
				}
				r.Printf("Created announcement %s\n", ann.ID)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&ann.Title, "title", "", "title (max 255 characters)")
	f.StringVar(&ann.Message, "message", "", "message (max 2000 characters)")
	f.StringVar(&typ, "type", string(domain.AnnouncementInfo), "info|warning|maintenance|critical")
	f.Int64Var(&ann.CreatedBy, "created-by", 0, "ID of the creating admin")
	f.Int64SliceVar(&ann.TargetServers, "servers", nil, "target server IDs (all servers when empty)")
	f.BoolVar(&inactive, "inactive", false, "create the announcement disabled")
	f.StringVar(&start, "start", "", "scheduled start (RFC 3339)")
	f.StringVar(&end, "end", "", "scheduled end (RFC 3339)")
	return cmd
}

func newAnnouncementsRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				if _, err := a.Announcements.Get(args[0]); err != nil {
					return err
				}
				if err := a.Announcements.Delete(args[0]); err != nil {
					return err
				}
				opts.renderer(cmd).Printf("Removed announcement %s\n", args[0])
				return nil
			})
		},
	}
}

func parseTimeFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &t, nil
}

func targetsLabel(a domain.Announcement) string {
	if a.TargetsAllServers() {
		return "all"
	}
	return fmt.Sprint(a.TargetServers)
}

func windowLabel(a domain.Announcement) string {
	if !a.IsScheduled() {
		return "-"
	}
	format := func(t *time.Time) string {
		if t == nil {
			return "open"
		}
		return t.Format(time.RFC3339)
	}
	return format(a.ScheduledStart) + " to " + format(a.ScheduledEnd)
}
