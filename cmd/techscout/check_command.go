package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"techscout/internal/logging"
	"techscout/internal/runhistory"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var maxTechs int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show which technologies a run would process, without processing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			cmdCtx := cmd.Context()
			pipe, err := buildPipeline(cmdCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer pipe.close()

			history, err := runhistory.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer history.Close()

			limit := resolveLimit(maxTechs, cmd.Flags().Changed("max-techs"), cfg)
			eligible, err := pipe.selectCandidates(cmdCtx, limit)
			if err != nil {
				return err
			}

			recordCheckHistory(cmdCtx, history, logger, len(eligible))

			out := cmd.OutOrStdout()
			if len(eligible) == 0 {
				fmt.Fprintln(out, "Every discovered technology is already cataloged.")
				return nil
			}
			fmt.Fprintf(out, "%d technologies would be processed:\n", len(eligible))
			for _, name := range eligible {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxTechs, "max-techs", 0, "Maximum number of technologies to consider")
	return cmd
}

// recordCheckHistory logs a check invocation to the run history. History is
// best effort for a read-only command, so failures are warned, not returned.
func recordCheckHistory(ctx context.Context, history *runhistory.Store, logger *slog.Logger, attempted int) {
	id, err := history.Begin(ctx, runhistory.ModeCheck)
	if err != nil {
		logger.Warn("record check start failed", logging.Error(err))
		return
	}
	if err := history.Finish(ctx, id, attempted, 0, 0); err != nil {
		logger.Warn("record check finish failed", logging.Error(err))
	}
}
