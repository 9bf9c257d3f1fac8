package services

import (
	"github.com/l3montree-dev/dependabot-jira-sync/duedate"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/l3montree-dev/dependabot-jira-sync/tickets"
	"go.uber.org/fx"
)

// Module provides all service-layer constructors
var Module = fx.Options(
	fx.Provide(duedate.New),
	fx.Provide(func(ticketSystem shared.TicketSystem) *tickets.Matcher {
		return tickets.NewMatcher(ticketSystem, tickets.DefaultTrackingLabel)
	}),
	fx.Provide(NewReconcileService),
)
