package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
	"booktrack/internal/github"
	"booktrack/internal/reconcile"
	"booktrack/internal/webhook"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive GitHub issue webhooks and apply them to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var client *github.Client
			if cfg.RequireGitHub() == nil {
				client, err = api.OpenGitHub(cfg)
				if err != nil {
					return err
				}
			}

			resolver, closeResolver, err := api.OpenResolver(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeResolver() }()

			engine := reconcile.NewEngine(resolver, reconcile.WithLogger(logger))
			runner := reconcile.NewRunner(api.OpenStore(cfg, logger), engine, logger)
			tracker := api.NewTracker(runner, api.OpenNotifier(cfg, client, logger), logger)

			server := webhook.New(tracker,
				webhook.WithSecret(cfg.GitHub.WebhookSecret),
				webhook.WithRepository(cfg.GitHub.Repository),
				webhook.WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout)*time.Second),
				webhook.WithLogger(logger),
			)

			bind := cfg.Server.Bind
			if strings.TrimSpace(bindFlag) != "" {
				bind = strings.TrimSpace(bindFlag)
			}
			return server.ListenAndServe(cmd.Context(), bind)
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
