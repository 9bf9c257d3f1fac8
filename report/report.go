// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
)

type Kind string

const (
	KindAlert  Kind = "alert"
	KindTicket Kind = "ticket"
)

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeClosed   Outcome = "closed"
	OutcomeKeptOpen Outcome = "kept_open"
	OutcomeFailed   Outcome = "failed"
)

type ItemResult struct {
	Kind      Kind
	AlertID   int
	TicketKey string
	Outcome   Outcome
	Err       error
}

type RunReport struct {
	Created int
	Updated int
	Closed  int
	// Processed counts the alerts which passed the severity filter and entered the reconcile loop
	Processed int
	Failed    int
	DryRun    bool

	Items []ItemResult
}

func New(dryRun bool) RunReport {
	return RunReport{DryRun: dryRun, Items: []ItemResult{}}
}

// Record tallies the item. Every alert item counts as processed, whatever its outcome.
func (r *RunReport) Record(item ItemResult) {
	if item.Kind == KindAlert {
		r.Processed++
	}

	switch item.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeClosed:
		r.Closed++
	case OutcomeFailed:
		r.Failed++
	}

	r.Items = append(r.Items, item)
}

func (r RunReport) Summary() string {
	if r.Processed == 0 && r.Closed == 0 && r.Failed == 0 {
		return "No alerts to process"
	}

	var summary string
	if r.DryRun {
		summary = fmt.Sprintf("Dry run: processed %d alerts: would create %d, would update %d, would close %d", r.Processed, r.Created, r.Updated, r.Closed)
	} else {
		summary = fmt.Sprintf("Processed %d alerts: created %d, updated %d, closed %d", r.Processed, r.Created, r.Updated, r.Closed)
	}

	if r.Failed > 0 {
		summary += fmt.Sprintf(", failed %d", r.Failed)
	}
	return summary
}

// Outputs returns the run outputs keyed by their action output name.
func (r RunReport) Outputs() map[string]string {
	return map[string]string{
		"issues-created":   strconv.Itoa(r.Created),
		"issues-updated":   strconv.Itoa(r.Updated),
		"issues-closed":    strconv.Itoa(r.Closed),
		"alerts-processed": strconv.Itoa(r.Processed),
		"summary":          r.Summary(),
	}
}

func (r RunReport) PrintTable(w io.Writer) {
	tw := table.NewWriter()
	tw.SetAllowedRowLength(130)
	tw.AppendHeader(table.Row{"Kind", "Alert", "Ticket", "Outcome", "Error"})
	tw.AppendRows(utils.Map(r.Items, itemToTableRow))
	tw.AppendFooter(table.Row{"", "", "", "Summary", r.Summary()})

	fmt.Fprintln(w, tw.Render()) // nolint:errcheck
}

func itemToTableRow(item ItemResult) table.Row {
	alertID := ""
	if item.AlertID > 0 {
		alertID = fmt.Sprintf("#%d", item.AlertID)
	}
	errMsg := ""
	if item.Err != nil {
		errMsg = text.WrapSoft(item.Err.Error(), 60)
	}

	return table.Row{item.Kind, alertID, item.TicketKey, outcomeColor(item.Outcome).Sprint(item.Outcome), errMsg}
}

func outcomeColor(outcome Outcome) text.Colors {
	switch outcome {
	case OutcomeCreated, OutcomeClosed:
		return text.Colors{text.FgGreen}
	case OutcomeUpdated:
		return text.Colors{text.FgBlue}
	case OutcomeFailed:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{}
	}
}
