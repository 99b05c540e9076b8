package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sentinel/internal/fleet"
	"sentinel/internal/logging"
	"sentinel/internal/media"
	"sentinel/internal/snapshot"
)

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "snapshot <camera-id>",
		Short: "Capture a live frame from a camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runner, err := media.NewRunner(cfg.FFmpegBinary())
			if err != nil {
				return err
			}
			registry := fleet.NewRegistry(cfg)
			states := fleet.NewStateMap(registry)
			svc := snapshot.New(registry, states, runner, cfg.Snapshot, logging.NewNop())

			frame, err := svc.Snapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(frame) == 0 {
				return fmt.Errorf("no image available from %s", args[0])
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = fmt.Sprintf("%s.jpg", args[0])
			}
			if err := os.WriteFile(target, frame, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(frame), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (defaults to <camera-id>.jpg)")
	return cmd
}
