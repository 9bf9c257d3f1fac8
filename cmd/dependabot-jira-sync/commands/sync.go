// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/l3montree-dev/dependabot-jira-sync/config"
	"github.com/l3montree-dev/dependabot-jira-sync/integrations"
	"github.com/l3montree-dev/dependabot-jira-sync/monitoring"
	"github.com/l3montree-dev/dependabot-jira-sync/services"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func runSync(cmd *cobra.Command, cfg config.Config) error {
	runID := uuid.New()
	slog.SetDefault(slog.Default().With("runID", runID.String()))
	slog.Info("starting sync", "version", version, "config", cfg.Redacted())

	monitoring.InitSentry(cfg.ErrorTrackingDSN, os.Getenv("ENVIRONMENT"), version)
	defer monitoring.FlushAlerts()

	integrations.UserAgent = "dependabot-jira-sync/" + version

	var reconciler *services.ReconcileService
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		integrations.Module,
		services.Module,
		fx.Populate(&reconciler),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "could not initialize the sync")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runReport, err := reconciler.Run(ctx)
	if err != nil {
		slog.Error("sync failed", "err", err)
		return err
	}

	runReport.PrintTable(cmd.OutOrStdout())

	outputs := runReport.Outputs()
	slog.Info("sync finished", "outputs", outputs)
	if err := writeGithubOutputs(os.Getenv("GITHUB_OUTPUT"), outputs); err != nil {
		slog.Error("could not write github outputs", "err", err)
	}

	if err := monitoring.Push(ctx, cfg.PushgatewayURL, cfg.Repository); err != nil {
		slog.Warn("could not push metrics", "err", err)
	}
	return nil
}
