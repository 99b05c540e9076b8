package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sentinel/internal/catalog"
	"sentinel/internal/config"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded security events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				opts := catalog.ListOptions{Limit: limit}
				if unreadOnly {
					isRead := false
					opts.IsRead = &isRead
				}
				events, err := store.GetEvents(cmd.Context(), opts)
				if err != nil {
					return fmt.Errorf("list events: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(out, "No events recorded")
					return nil
				}

				rows := make([][]string, 0, len(events))
				for _, ev := range events {
					rows = append(rows, []string{
						shortID(ev.ID),
						ev.CameraID,
						string(ev.Type),
						ev.Timestamp.Local().Format(time.DateTime),
						readMark(ev.IsRead),
						ev.VideoPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "CAMERA", "TYPE", "TIME", "READ", "VIDEO"},
					rows,
					nil,
					isTerminal(out),
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events to list")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "Show only unread events")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func readMark(isRead bool) string {
	if isRead {
		return "yes"
	}
	return "no"
}
