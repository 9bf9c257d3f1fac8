// Copyright 2025 l3montree UG (haftungsbeschraenkt).
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry only holds the sync metrics. It is pushed to the pushgateway at the end of a run.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var TicketCreatedAmount = factory.NewCounter(prometheus.CounterOpts{
	Name: "dependabot_jira_sync_ticket_created_amount",
	Help: "The total number of tickets created",
})

var TicketUpdatedAmount = factory.NewCounter(prometheus.CounterOpts{
	Name: "dependabot_jira_sync_ticket_updated_amount",
	Help: "The total number of tickets updated",
})

var TicketClosedAmount = factory.NewCounter(prometheus.CounterOpts{
	Name: "dependabot_jira_sync_ticket_closed_amount",
	Help: "The total number of tickets closed",
})

var SyncItemFailedAmount = factory.NewCounterVec(prometheus.CounterOpts{
	Name: "dependabot_jira_sync_item_failed_amount",
	Help: "The total number of alerts and tickets which could not be reconciled",
}, []string{"kind"})

var AlertsProcessedAmount = factory.NewCounter(prometheus.CounterOpts{
	Name: "dependabot_jira_sync_alerts_processed_amount",
	Help: "The total number of alerts which passed the severity filter",
})

var SyncDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Name:    "dependabot_jira_sync_duration_seconds",
	Help:    "Duration of a complete sync run",
	Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
})
