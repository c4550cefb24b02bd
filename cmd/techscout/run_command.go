package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"techscout/internal/catalog"
	"techscout/internal/logging"
	"techscout/internal/runhistory"
	"techscout/internal/runner"
	"techscout/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var maxTechs int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover, enrich, and persist trending technologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireGemini(); err != nil {
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

			out := cmd.OutOrStdout()
			if len(eligible) == 0 {
				fmt.Fprintln(out, "Nothing to do: every discovered technology is already cataloged.")
				return nil
			}

			runID, err := history.Begin(cmdCtx, runhistory.ModeRun)
			if err != nil {
				return fmt.Errorf("record run start: %w", err)
			}
			runCtx := services.WithRunID(cmdCtx, runID)
			logger.Info("run started",
				logging.String(logging.FieldRunID, runID),
				logging.Int("eligible", len(eligible)))

			report, err := pipe.newRunner(cfg).Run(runCtx, eligible)
			if finishErr := history.Finish(cmdCtx, runID, report.Attempted, report.Succeeded, report.Failed); finishErr != nil {
				logger.Warn("record run finish failed", logging.Error(finishErr))
			}
			if err != nil {
				return err
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxTechs, "max-techs", 0, "Maximum number of technologies to process this run")
	return cmd
}

func printReport(cmd *cobra.Command, report runner.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d technologies: %d succeeded, %d failed.\n",
		report.Attempted, report.Succeeded, report.Failed)

	for _, outcome := range report.Outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(out, "  failed: %s (%v)\n", outcome.Name, outcome.Err)
		}
	}

	fmt.Fprintf(out, "Catalog now holds %d technologies.\n", report.TotalRecords)
	if len(report.CategoryCounts) == 0 {
		return
	}

	rows := make([][]string, 0, len(report.CategoryCounts))
	for _, category := range catalog.Categories() {
		if count := report.CategoryCounts[category]; count > 0 {
			rows = append(rows, []string{string(category), fmt.Sprintf("%d", count)})
		}
	}
	if uncategorized := report.CategoryCounts[catalog.Category("")]; uncategorized > 0 {
		rows = append(rows, []string{"(uncategorized)", fmt.Sprintf("%d", uncategorized)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	fmt.Fprintln(out, renderTable(out,
		[]string{"Category", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight}))
}
