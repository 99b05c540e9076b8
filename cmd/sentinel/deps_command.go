package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentinel/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binary dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary()))
			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				state := "ok"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					if !status.Optional {
						missing = true
					}
				}
				rows = append(rows, []string{status.Name, state, detail, status.Description})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"NAME", "STATUS", "DETAIL", "USED FOR"},
				rows,
				nil,
				isTerminal(out),
			))
			if missing {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
}
