// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/l3montree-dev/dependabot-jira-sync/config"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/duedate"
	"github.com/l3montree-dev/dependabot-jira-sync/monitoring"
	"github.com/l3montree-dev/dependabot-jira-sync/normalize"
	"github.com/l3montree-dev/dependabot-jira-sync/report"
	"github.com/l3montree-dev/dependabot-jira-sync/severity"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/l3montree-dev/dependabot-jira-sync/statemachine"
	"github.com/l3montree-dev/dependabot-jira-sync/tickets"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
	"github.com/pkg/errors"
)

// DryRunTicketKey is returned instead of a real key if a ticket would have been created.
const DryRunTicketKey = "DRY-RUN"

type ReconcileService struct {
	cfg          config.Config
	alertSource  shared.AlertSource
	ticketSystem shared.TicketSystem
	matcher      *tickets.Matcher
	calculator   *duedate.Calculator
}

func NewReconcileService(cfg config.Config, alertSource shared.AlertSource, ticketSystem shared.TicketSystem, matcher *tickets.Matcher, calculator *duedate.Calculator) *ReconcileService {
	return &ReconcileService{
		cfg:          cfg,
		alertSource:  alertSource,
		ticketSystem: ticketSystem,
		matcher:      matcher,
		calculator:   calculator,
	}
}

// Run reconciles the alerts of the repository with the tickets of the project.
// Only a configuration problem or a failure to list the alerts aborts the run.
// Every other failure is recorded on the item and the run continues.
func (s *ReconcileService) Run(ctx context.Context) (report.RunReport, error) {
	start := time.Now()
	defer func() {
		monitoring.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	runReport := report.New(s.cfg.DryRun)

	if _, err := severity.ParseThreshold(s.cfg.SeverityThreshold); err != nil {
		return runReport, err
	}

	raw, err := s.alertSource.ListAlerts(ctx, s.cfg.Repository, s.cfg.ListAlertsOptions())
	if err != nil {
		return runReport, errors.Wrap(err, "could not list alerts")
	}

	alerts, err := severity.FilterByThreshold(normalize.Alerts(raw), s.cfg.SeverityThreshold)
	if err != nil {
		return runReport, err
	}

	slog.Info("reconciling alerts", "repository", s.cfg.Repository, "fetched", len(raw), "aboveThreshold", len(alerts), "threshold", s.cfg.SeverityThreshold, "dryRun", s.cfg.DryRun)

	// alert id -> ticket key of the tickets handled in this run
	handled := make(map[int]string, len(alerts))
	for _, alert := range alerts {
		if err := ctx.Err(); err != nil {
			return runReport, fmt.Errorf("run cancelled: %w", err)
		}

		if key, ok := handled[alert.ID]; ok {
			slog.Warn("alert listed more than once, skipping", "alertID", alert.ID, "ticketKey", key)
			s.record(&runReport, report.ItemResult{Kind: report.KindAlert, AlertID: alert.ID, TicketKey: key, Outcome: report.OutcomeSkipped})
			continue
		}

		item := s.processAlert(ctx, alert)
		if item.Outcome != report.OutcomeFailed {
			handled[alert.ID] = item.TicketKey
		}
		s.record(&runReport, item)
	}

	if s.cfg.AutoClose {
		if err := s.closeResolvedTickets(ctx, &runReport); err != nil {
			// the create/update phase already succeeded
			slog.Error("auto close phase failed", "err", err)
		}
	}

	slog.Info(runReport.Summary())
	return runReport, nil
}

func (s *ReconcileService) record(runReport *report.RunReport, item report.ItemResult) {
	runReport.Record(item)

	if item.Outcome == report.OutcomeFailed {
		monitoring.SyncItemFailedAmount.WithLabelValues(string(item.Kind)).Inc()
		monitoring.Alert(fmt.Sprintf("could not reconcile %s (alert %d, ticket %q)", item.Kind, item.AlertID, item.TicketKey), item.Err)
	}
	if item.Kind == report.KindAlert {
		monitoring.AlertsProcessedAmount.Inc()
	}
	if s.cfg.DryRun {
		return
	}
	switch item.Outcome {
	case report.OutcomeCreated:
		monitoring.TicketCreatedAmount.Inc()
	case report.OutcomeUpdated:
		monitoring.TicketUpdatedAmount.Inc()
	case report.OutcomeClosed:
		monitoring.TicketClosedAmount.Inc()
	}
}

func (s *ReconcileService) processAlert(ctx context.Context, alert dtos.Alert) (result report.ItemResult) {
	result = report.ItemResult{Kind: report.KindAlert, AlertID: alert.ID}
	defer func() {
		if r := recover(); r != nil {
			result.Outcome = report.OutcomeFailed
			result.Err = fmt.Errorf("panic while processing alert %d: %v", alert.ID, r)
		}
	}()

	existing, err := s.matcher.FindExisting(ctx, s.cfg.JiraProjectKey, alert.ID)
	if err != nil {
		result.Outcome = report.OutcomeFailed
		result.Err = errors.Wrap(err, "could not look up existing ticket")
		return result
	}

	switch statemachine.DecideAlertAction(existing, s.cfg.UpdateExisting) {
	case statemachine.AlertActionCreate:
		key, err := s.createTicket(ctx, alert)
		if err != nil {
			result.Outcome = report.OutcomeFailed
			result.Err = err
			return result
		}
		result.TicketKey = key
		result.Outcome = report.OutcomeCreated
	case statemachine.AlertActionUpdate:
		result.TicketKey = existing.Key
		if err := s.updateTicket(ctx, *existing, alert); err != nil {
			result.Outcome = report.OutcomeFailed
			result.Err = err
			return result
		}
		result.Outcome = report.OutcomeUpdated
	default:
		slog.Debug("ticket already exists, updates are disabled", "alertID", alert.ID, "ticketKey", existing.Key)
		result.TicketKey = existing.Key
		result.Outcome = report.OutcomeSkipped
	}

	return result
}

func (s *ReconcileService) ticketFields(alert dtos.Alert) dtos.TicketFields {
	labels := s.cfg.LabelList()
	if !slices.Contains(labels, s.matcher.TrackingLabel()) {
		labels = append(labels, s.matcher.TrackingLabel())
	}

	return dtos.TicketFields{
		ProjectKey:  s.cfg.JiraProjectKey,
		Summary:     tickets.Summary(alert.ID, alert.Title),
		Description: BuildTicketBody(alert),
		IssueType:   s.cfg.IssueType,
		Priority:    s.cfg.Priority,
		Labels:      labels,
		Assignee:    s.cfg.Assignee,
		DueDate:     s.calculator.DueDate(alert.Severity, s.cfg.DueDays, &alert.CreatedAt),
	}
}

func (s *ReconcileService) createTicket(ctx context.Context, alert dtos.Alert) (string, error) {
	fields := s.ticketFields(alert)

	if s.cfg.DryRun {
		slog.Info("dry run: would create ticket", "alertID", alert.ID, "summary", fields.Summary, "severity", alert.Severity, "dueDate", fields.DueDate, "labels", fields.Labels)
		return DryRunTicketKey, nil
	}

	ticket, err := s.ticketSystem.CreateTicket(ctx, fields)
	if err != nil {
		return "", errors.Wrap(err, "could not create ticket")
	}

	slog.Info("created ticket", "alertID", alert.ID, "ticketKey", ticket.Key, "dueDate", fields.DueDate)
	return ticket.Key, nil
}

func (s *ReconcileService) updateTicket(ctx context.Context, ticket dtos.Ticket, alert dtos.Alert) error {
	comment := BuildUpdateComment(alert)

	if s.cfg.DryRun {
		slog.Info("dry run: would comment on ticket", "alertID", alert.ID, "ticketKey", ticket.Key, "state", alert.State)
		return nil
	}

	if err := s.ticketSystem.AddComment(ctx, ticket.Key, comment); err != nil {
		return errors.Wrap(err, "could not update ticket")
	}

	slog.Info("updated ticket", "alertID", alert.ID, "ticketKey", ticket.Key)
	return nil
}

func (s *ReconcileService) closeResolvedTickets(ctx context.Context, runReport *report.RunReport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.RecoverAndAlert("auto close phase panicked", r)
			err = fmt.Errorf("panic during auto close: %v", r)
		}
	}()

	openTickets, err := s.matcher.FindAllOpenTracked(ctx, s.cfg.JiraProjectKey)
	if err != nil {
		return err
	}

	slog.Info("checking tracked tickets for resolved alerts", "count", len(openTickets))
	for _, ticket := range openTickets {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("auto close cancelled: %w", err)
		}
		s.record(runReport, s.processTrackedTicket(ctx, ticket))
	}
	return nil
}

func (s *ReconcileService) processTrackedTicket(ctx context.Context, ticket dtos.Ticket) (result report.ItemResult) {
	result = report.ItemResult{Kind: report.KindTicket, TicketKey: ticket.Key}
	defer func() {
		if r := recover(); r != nil {
			result.Outcome = report.OutcomeFailed
			result.Err = fmt.Errorf("panic while processing ticket %s: %v", ticket.Key, r)
		}
	}()

	alertID, ok := tickets.ExtractAlertID(ticket)
	if !ok {
		slog.Warn("could not extract alert id from ticket, it will never be closed automatically", "ticketKey", ticket.Key, "summary", ticket.Summary)
		result.Outcome = report.OutcomeSkipped
		return result
	}
	result.AlertID = alertID

	// the alert might be outside of the current filter, always ask the source
	state, err := s.alertSource.GetAlertStatus(ctx, s.cfg.Repository, alertID)
	if err != nil {
		result.Outcome = report.OutcomeFailed
		result.Err = errors.Wrap(err, "could not get alert status")
		return result
	}

	switch statemachine.DecideCloseAction(state) {
	case statemachine.CloseActionClose:
		if err := s.closeTicket(ctx, ticket.Key, alertID, state); err != nil {
			result.Outcome = report.OutcomeFailed
			result.Err = err
			return result
		}
		result.Outcome = report.OutcomeClosed
	case statemachine.CloseActionKeepOpen:
		result.Outcome = report.OutcomeKeptOpen
	default:
		slog.Warn("unknown alert state, keeping ticket open", "ticketKey", ticket.Key, "alertID", alertID, "state", state)
		result.Outcome = report.OutcomeKeptOpen
	}
	return result
}

// closeTicket comments first and transitions afterwards. The comment stays visible whatever the transition does.
func (s *ReconcileService) closeTicket(ctx context.Context, ticketKey string, alertID int, state dtos.AlertState) error {
	comment := strings.TrimSpace(s.cfg.CloseComment)

	if s.cfg.DryRun {
		slog.Info("dry run: would close ticket", "ticketKey", ticketKey, "alertID", alertID, "state", state, "transition", s.cfg.CloseTransition, "withComment", comment != "")
		return nil
	}

	transitions, err := s.ticketSystem.GetTransitions(ctx, ticketKey)
	if err != nil {
		return errors.Wrap(err, "could not fetch transitions")
	}

	transition, ok := utils.Find(transitions, func(t dtos.Transition) bool {
		return strings.EqualFold(strings.TrimSpace(t.Name), strings.TrimSpace(s.cfg.CloseTransition))
	})
	if !ok {
		return &shared.TransitionNotAvailableError{
			TicketKey: ticketKey,
			Requested: s.cfg.CloseTransition,
			Available: utils.Map(transitions, func(t dtos.Transition) string { return t.Name }),
		}
	}

	if comment != "" {
		if err := s.ticketSystem.AddComment(ctx, ticketKey, comment); err != nil {
			return errors.Wrap(err, "could not add close comment")
		}
	}

	if err := s.ticketSystem.ApplyTransition(ctx, ticketKey, transition.ID); err != nil {
		return errors.Wrap(err, "could not close ticket")
	}

	slog.Info("closed ticket", "ticketKey", ticketKey, "alertID", alertID, "state", state, "transition", transition.Name)
	return nil
}
