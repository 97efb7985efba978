package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
	"booktrack/internal/github"
	"booktrack/internal/logging"
	"booktrack/internal/reconcile"
	"booktrack/internal/services"
)

const (
	envIssueNumber = "GITHUB_EVENT_ISSUE_NUMBER"
	envEventAction = "GITHUB_EVENT_ACTION"
	envEventPath   = "GITHUB_EVENT_PATH"
)

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func newTrackCommand(ctx *commandContext) *cobra.Command {
	var issueFlag string
	var actionFlag string
	var eventPathFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Apply one issue event to the catalog",
		Long: `Apply one issue event to the catalog.

The issue number and action come from --issue/--action, the
GITHUB_EVENT_ISSUE_NUMBER/GITHUB_EVENT_ACTION variables, or the Actions
event payload at GITHUB_EVENT_PATH. Without an issue number the command
exits successfully without doing anything.`,
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

			issue := firstNonEmpty(issueFlag, os.Getenv(envIssueNumber))
			action := firstNonEmpty(actionFlag, os.Getenv(envEventAction))
			var eventPath string
			if issue == "" {
				eventPath = firstNonEmpty(eventPathFlag, os.Getenv(envEventPath))
			}

			var client *github.Client
			if cfg.RequireGitHub() == nil {
				client, err = api.OpenGitHub(cfg)
				if err != nil {
					return err
				}
			}

			trigger, err := api.LoadTrigger(runCtx, api.TriggerRequest{
				EventPath: eventPath,
				Issue:     issue,
				Action:    action,
				Client:    client,
			})
			if errors.Is(err, api.ErrNoIssue) {
				logger.Info("no issue number found, exiting")
				fmt.Fprintln(cmd.OutOrStdout(), "No issue number found, exiting...")
				return nil
			}
			if err != nil {
				return fmt.Errorf("load issue: %w", err)
			}

			runCtx = services.WithIssueNumber(runCtx, trigger.IssueKey)
			runCtx = services.WithAction(runCtx, trigger.Action)
			logger.Info("processing issue event",
				logging.Issue(trigger.IssueKey),
				logging.String(logging.FieldAction, trigger.Action),
				logging.Title(trigger.Title))

			resolver, closeResolver, err := api.OpenResolver(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeResolver() }()

			engine := reconcile.NewEngine(resolver, reconcile.WithLogger(logger))
			runner := reconcile.NewRunner(api.OpenStore(cfg, logger), engine, logger)
			tracker := api.NewTracker(runner, api.OpenNotifier(cfg, client, logger), logger)

			result, err := tracker.Track(runCtx, trigger)
			if err != nil {
				logging.ErrorWithContext(logging.WithContext(runCtx, logger), "track failed", "track_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, services.ErrorHint(err)),
					logging.Alert("catalog_update_failed"),
				)
				return err
			}

			view := result.View()
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeOutcome(view))
			return nil
		},
	}

	cmd.Flags().StringVar(&issueFlag, "issue", "", "Issue number (defaults to $GITHUB_EVENT_ISSUE_NUMBER)")
	cmd.Flags().StringVar(&actionFlag, "action", "", "Issue action: opened, closed or deleted (defaults to $GITHUB_EVENT_ACTION)")
	cmd.Flags().StringVar(&eventPathFlag, "event-path", "", "Actions event payload (defaults to $GITHUB_EVENT_PATH)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the outcome as JSON")
	return cmd
}
