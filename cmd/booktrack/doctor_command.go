package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"booktrack/internal/api"
	"booktrack/internal/logging"
	"booktrack/internal/preflight"
	"booktrack/internal/textutil"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, paths and external services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var deps preflight.Dependencies
			probeCfg := *cfg
			probeCfg.LookupCache.Enabled = false
			provider, closeProvider, err := api.OpenProvider(cmd.Context(), &probeCfg, logger)
			if err != nil {
				logging.WarnWithContext(logger, "metadata provider unavailable", "doctor_provider_failed", logging.Error(err))
			} else {
				defer func() { _ = closeProvider() }()
				deps.Provider = provider
			}
			if cfg.RequireGitHub() == nil {
				client, err := api.OpenGitHub(cfg)
				if err != nil {
					logging.WarnWithContext(logger, "github client unavailable", "doctor_github_failed", logging.Error(err))
				} else {
					deps.GitHub = client
				}
			}

			results := preflight.RunAll(cmd.Context(), cfg, deps)
			rows := make([][]string, 0, len(results)+1)
			if ctx.configPath != "" {
				rows = append(rows, []string{"Config", "ok", ctx.configPath})
			}
			for _, result := range results {
				status := textutil.Ternary(result.Passed, "ok", "FAIL")
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{left("Check"), left("Status"), wrapped("Detail", 60)}, rows))

			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
