// Copyright (C) 2025 timbastin
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

package shared

import (
	"context"

	"github.com/google/go-github/v62/github"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
)

// AlertSource is the read side of the synchronization - usually the github dependabot api.
type AlertSource interface {
	ListAlerts(ctx context.Context, ownerRepo string, opts dtos.ListAlertsOptions) ([]*github.DependabotAlert, error)
	// GetAlertStatus returns dtos.AlertStateNotFound (and no error) if the alert does not exist anymore.
	GetAlertStatus(ctx context.Context, ownerRepo string, alertID int) (dtos.AlertState, error)
}

// TicketSystem is the write side of the synchronization - usually jira.
type TicketSystem interface {
	Search(ctx context.Context, query string) ([]dtos.Ticket, error)
	CreateTicket(ctx context.Context, fields dtos.TicketFields) (dtos.Ticket, error)
	AddComment(ctx context.Context, ticketKey string, body string) error
	GetTransitions(ctx context.Context, ticketKey string) ([]dtos.Transition, error)
	ApplyTransition(ctx context.Context, ticketKey string, transitionID string) error
}
