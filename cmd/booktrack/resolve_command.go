package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <title>",
		Short: "Look up a title with the metadata provider",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			view, err := api.ResolveTitle(runContext(cmd.Context()), api.ResolveRequest{
				Config: cfg,
				Logger: logger,
				Title:  strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if !view.Found {
				fmt.Fprintf(out, "No match from %s\n", view.Provider)
				return nil
			}
			pages := ""
			if view.PageCount > 0 {
				pages = strconv.Itoa(view.PageCount)
			}
			rows := [][]string{
				{"Provider", view.Provider},
				{"ID", dash(view.ID)},
				{"Title", view.Title},
				{"Author", view.Author},
				{"Image", dash(view.Image)},
				{"ISBN", dash(view.ISBN)},
				{"Published", dash(view.PublishedDate)},
				{"Pages", dash(pages)},
			}
			fmt.Fprintln(out, renderTable([]column{left("Field"), wrapped("Value", 72)}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the match as JSON")
	return cmd
}
