package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"techscout/internal/runhistory"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			history, err := runhistory.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer history.Close()

			entries, err := history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				duration := "-"
				if d := entry.Duration(); d > 0 {
					duration = d.Round(10 * time.Millisecond).String()
				}
				rows = append(rows, []string{
					entry.StartedAt.Format("2006-01-02 15:04:05"),
					string(entry.Mode),
					duration,
					fmt.Sprintf("%d", entry.Attempted),
					fmt.Sprintf("%d", entry.Succeeded),
					fmt.Sprintf("%d", entry.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Started", "Mode", "Duration", "Attempted", "Succeeded", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
