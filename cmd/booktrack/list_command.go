package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
	"booktrack/internal/catalog"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var yamlOutput bool
	var statusFilter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput && yamlOutput {
				return fmt.Errorf("--json and --yaml are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			views, err := api.ListCatalog(cfg, logger)
			if err != nil {
				return err
			}
			views, err = filterByStatus(views, statusFilter)
			if err != nil {
				return err
			}

			switch {
			case jsonOutput:
				return writeJSON(cmd, views)
			case yamlOutput:
				return writeYAML(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}
			if !isTerminal(out) {
				for _, view := range views {
					fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\t%s\n",
						view.IssueNumber, view.Status, view.StartDate, dash(view.EndDate), view.Title, view.Author)
				}
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]column{right("Issue"), wrapped("Title", 40), wrapped("Author", 28), left("Status"), left("Started"), left("Finished")},
				entryRows(views),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Print entries as YAML")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show entries with this status (reading or completed)")
	return cmd
}

func filterByStatus(views []api.EntryView, status string) ([]api.EntryView, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return views, nil
	}
	if status != string(catalog.StatusReading) && status != string(catalog.StatusCompleted) {
		return nil, fmt.Errorf("unknown status %q (want reading or completed)", status)
	}
	filtered := make([]api.EntryView, 0, len(views))
	for _, view := range views {
		if view.Status == status {
			filtered = append(filtered, view)
		}
	}
	return filtered, nil
}

func entryRows(views []api.EntryView) [][]string {
	rows := make([][]string, 0, len(views))
	for _, view := range views {
		issue := "-"
		if view.IssueNumber > 0 {
			issue = "#" + strconv.Itoa(view.IssueNumber)
		}
		title := view.Title
		if view.NotFound {
			title += " (not found)"
		}
		rows = append(rows, []string{issue, title, view.Author, view.Status, view.StartDate, dash(view.EndDate)})
	}
	return rows
}
