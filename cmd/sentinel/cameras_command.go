package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCamerasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cameras",
		Short: "List configured cameras",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(cfg.Cameras) == 0 {
				fmt.Fprintln(out, "No cameras configured")
				return nil
			}

			rows := make([][]string, 0, len(cfg.Cameras))
			for _, cam := range cfg.Cameras {
				supervised := "yes"
				if cam.Address == "" || cam.Username == "" {
					supervised = "no"
				}
				rows = append(rows, []string{cam.ID, cam.Name, cam.Zone, cam.Address, supervised})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "NAME", "ZONE", "ADDRESS", "SUPERVISED"},
				rows,
				nil,
				isTerminal(out),
			))
			return nil
		},
	}
}
