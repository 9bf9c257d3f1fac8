// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/tickets"
)

// BuildTicketBody renders the plain text description of a new ticket.
// Blocks are separated by an empty line. Optional lines are left out if the value is missing.
func BuildTicketBody(alert dtos.Alert) string {
	details := []string{
		fmt.Sprintf("Package: %s", alert.Package),
		fmt.Sprintf("Ecosystem: %s", alert.Ecosystem),
	}
	if alert.ManifestPath != nil {
		details = append(details, fmt.Sprintf("Manifest: %s", *alert.ManifestPath))
	}
	details = append(details,
		fmt.Sprintf("Severity: %s", strings.ToUpper(string(alert.Severity))),
		fmt.Sprintf("Vulnerable Versions: %s", alert.VulnerableVersionRange),
		fmt.Sprintf("Patched Version: %s", alert.FirstPatchedVersion),
	)

	blocks := []string{
		strings.Join(details, "\n"),
		alert.Description,
	}

	var references []string
	if alert.CVSS != nil {
		references = append(references, fmt.Sprintf("CVSS Score: %.1f", *alert.CVSS))
	}
	if alert.CVSSVector != nil {
		references = append(references, fmt.Sprintf("CVSS Vector: %s", *alert.CVSSVector))
	}
	if alert.CVEID != nil {
		references = append(references, fmt.Sprintf("CVE: %s", *alert.CVEID))
	}
	if alert.GHSAID != nil {
		references = append(references, fmt.Sprintf("GHSA: %s", *alert.GHSAID))
	}
	if len(references) > 0 {
		blocks = append(blocks, strings.Join(references, "\n"))
	}

	blocks = append(blocks, strings.Join([]string{
		fmt.Sprintf("Alert URL: %s", alert.URL),
		tickets.BodyMarker(alert.ID),
	}, "\n"))

	return strings.Join(blocks, "\n\n")
}

// BuildUpdateComment renders the comment which is posted on every run to an existing ticket.
func BuildUpdateComment(alert dtos.Alert) string {
	lines := []string{
		fmt.Sprintf("Dependabot alert #%d was synchronized.", alert.ID),
		fmt.Sprintf("Status: %s", alert.State),
		fmt.Sprintf("Last updated: %s", formatTime(alert.UpdatedAt)),
	}
	if alert.DismissedAt != nil {
		lines = append(lines, fmt.Sprintf("Dismissed at: %s", formatTime(*alert.DismissedAt)))
	}
	if alert.DismissedReason != nil {
		lines = append(lines, fmt.Sprintf("Dismissed reason: %s", *alert.DismissedReason))
	}
	if alert.DismissedComment != nil {
		lines = append(lines, fmt.Sprintf("Dismissed comment: %s", *alert.DismissedComment))
	}

	return strings.Join(lines, "\n") + "\n\n" + fmt.Sprintf("Alert URL: %s", alert.URL)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}
