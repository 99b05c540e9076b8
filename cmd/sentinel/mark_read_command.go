package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sentinel/internal/catalog"
	"sentinel/internal/config"
)

func newMarkReadCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "mark-read [event-id]",
		Short: "Mark events as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("provide an event id or --all, not both")
			}
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				out := cmd.OutOrStdout()
				if all {
					n, err := store.MarkAllAsRead(cmd.Context())
					if err != nil {
						return fmt.Errorf("mark all read: %w", err)
					}
					fmt.Fprintf(out, "Marked %d events as read\n", n)
					return nil
				}

				id := args[0]
				if err := store.MarkAsRead(cmd.Context(), id); err != nil {
					if errors.Is(err, catalog.ErrNotFound) {
						return fmt.Errorf("no event with id %s", id)
					}
					return fmt.Errorf("mark read: %w", err)
				}
				fmt.Fprintf(out, "Marked %s as read\n", id)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Mark every event as read")
	return cmd
}
