// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package githubint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v62/github"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
)

const alertsPerPage = 100

type DependabotAlertSource struct {
	client *github.Client
}

var _ shared.AlertSource = &DependabotAlertSource{}

func NewDependabotAlertSource(client *github.Client) *DependabotAlertSource {
	return &DependabotAlertSource{client: client}
}

func (s *DependabotAlertSource) ListAlerts(ctx context.Context, ownerRepo string, opts dtos.ListAlertsOptions) ([]*github.DependabotAlert, error) {
	owner, repo, err := SplitOwnerRepo(ownerRepo)
	if err != nil {
		return nil, err
	}

	listOpts := &github.ListAlertsOptions{
		State: github.String(opts.StateFilter()),
	}
	listOpts.ListCursorOptions.PerPage = alertsPerPage

	var alerts []*github.DependabotAlert
	for {
		page, resp, err := s.client.Dependabot.ListRepoAlerts(ctx, owner, repo, listOpts)
		if err != nil {
			return nil, &shared.TransportError{Op: "list dependabot alerts", StatusCode: statusCode(resp), Err: err}
		}
		alerts = append(alerts, page...)

		if resp == nil || resp.After == "" {
			break
		}
		listOpts.ListCursorOptions.After = resp.After
	}

	slog.Info("fetched dependabot alerts", "repository", ownerRepo, "state", opts.StateFilter(), "count", len(alerts))
	return alerts, nil
}

func (s *DependabotAlertSource) GetAlertStatus(ctx context.Context, ownerRepo string, alertID int) (dtos.AlertState, error) {
	owner, repo, err := SplitOwnerRepo(ownerRepo)
	if err != nil {
		return dtos.AlertStateUnknown, err
	}

	alert, resp, err := s.client.Dependabot.GetRepoAlert(ctx, owner, repo, alertID)
	if err != nil {
		if isNotFound(err) {
			slog.Debug("dependabot alert does not exist anymore", "repository", ownerRepo, "alertID", alertID)
			return dtos.AlertStateNotFound, nil
		}
		return dtos.AlertStateUnknown, &shared.TransportError{Op: fmt.Sprintf("get dependabot alert %d", alertID), StatusCode: statusCode(resp), Err: err}
	}

	if alert.GetState() == "" {
		return dtos.AlertStateUnknown, nil
	}
	return dtos.AlertState(alert.GetState()), nil
}

func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
