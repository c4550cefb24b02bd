package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"techscout/internal/catalog"
	"techscout/internal/logging"
	"techscout/internal/snapshot"
)

func newSnapshotCommand(ctx *commandContext) *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect the local catalog snapshot",
	}

	snapshotCmd.AddCommand(newSnapshotListCommand(ctx))
	snapshotCmd.AddCommand(newSnapshotShowCommand(ctx))
	return snapshotCmd
}

func openSnapshot(ctx *commandContext) (*snapshot.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return snapshot.NewStore(cfg.Paths.SnapshotPath, logging.NewNop())
}

func newSnapshotListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cataloged technologies by popularity",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshot(ctx)
			if err != nil {
				return err
			}
			records, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "The catalog is empty. Run 'techscout run' to populate it.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.Name,
					record.Slug,
					string(record.Category),
					fmt.Sprintf("%d", record.Popularity),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Name", "Slug", "Category", "Popularity"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			fmt.Fprintf(out, "%d technologies cataloged.\n", len(records))
			return nil
		},
	}
}

func newSnapshotShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one cataloged technology in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSnapshot(ctx)
			if err != nil {
				return err
			}
			records, err := store.Load()
			if err != nil {
				return err
			}

			slug := catalog.Slugify(args[0])
			for _, record := range records {
				if record.Slug == slug {
					printRecord(cmd, record)
					return nil
				}
			}
			return fmt.Errorf("no technology with slug %q in the snapshot", slug)
		},
	}
}

func printRecord(cmd *cobra.Command, record catalog.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", record.Name, record.Slug)
	if record.Category != "" {
		fmt.Fprintf(out, "  Category:    %s\n", record.Category)
	}
	fmt.Fprintf(out, "  Popularity:  %d\n", record.Popularity)
	if record.Homepage != "" {
		fmt.Fprintf(out, "  Homepage:    %s\n", record.Homepage)
	}
	if record.Repo != "" {
		fmt.Fprintf(out, "  Repository:  %s\n", record.Repo)
	}
	if record.LogoURL != "" {
		fmt.Fprintf(out, "  Logo:        %s\n", record.LogoURL)
	}
	if record.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", record.Description)
	}
	if record.AIExplanation != "" {
		fmt.Fprintf(out, "  Explained:   %s\n", record.AIExplanation)
	}
	if len(record.ProjectSuitability) > 0 {
		fmt.Fprintf(out, "  Suited for:  %s\n", strings.Join(record.ProjectSuitability, ", "))
	}
	if record.LearningDifficulty.Label != "" {
		fmt.Fprintf(out, "  Difficulty:  %s\n", record.LearningDifficulty.Label)
	}
	if len(record.LearningResources) > 0 {
		fmt.Fprintln(out, "  Resources:")
		for _, resource := range record.LearningResources {
			title := resource.Title
			if title == "" {
				title = resource.URL
			}
			fmt.Fprintf(out, "    [%s] %s %s\n", resource.Type, title, resource.URL)
		}
	}
	if !record.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "  Updated:     %s\n", record.UpdatedAt.Format("2006-01-02 15:04 MST"))
	}
}
