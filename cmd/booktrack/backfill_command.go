package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
	"booktrack/internal/logging"
	"booktrack/internal/reconcile"
	"booktrack/internal/services"
)

func newBackfillCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Replay every issue in the repository into the catalog",
		Long: `Replay every issue in the repository into the catalog.

Issues already in the catalog are skipped. Titles the metadata provider cannot
resolve are stored as placeholders. Closed issues are marked completed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx := runContext(cmd.Context())
			logger = logging.WithContext(runCtx, logger)

			client, err := api.OpenGitHub(cfg)
			if err != nil {
				return err
			}
			resolver, closeResolver, err := api.OpenResolver(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeResolver() }()

			view, err := api.RunBackfill(runCtx, api.BackfillRequest{
				Config:   cfg,
				Logger:   logger,
				Client:   client,
				Engine:   reconcile.NewEngine(resolver, reconcile.WithLogger(logger)),
				Notifier: api.OpenNotifier(cfg, nil, logger),
			})
			if err != nil {
				logging.ErrorWithContext(logger, "backfill failed", "backfill_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, services.ErrorHint(err)),
				)
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, view)
			}
			rows := [][]string{
				{"Issues", strconv.Itoa(view.Issues)},
				{"Added", strconv.Itoa(view.Added)},
				{"Placeholders", strconv.Itoa(view.Placeholders)},
				{"Completed", strconv.Itoa(view.Completed)},
				{"Skipped", strconv.Itoa(view.Skipped)},
				{"Ignored", strconv.Itoa(view.Ignored)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{left("Backfill"), right("Count")}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	return cmd
}
