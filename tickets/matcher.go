// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
)

const DefaultTrackingLabel = "dependabot"

var (
	projectKeyPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	summaryPattern    = regexp.MustCompile(`Alert #(\d+)`)
	bodyPattern       = regexp.MustCompile(`Alert ID: (\d+)`)
)

type Matcher struct {
	ticketSystem  shared.TicketSystem
	trackingLabel string
}

func NewMatcher(ticketSystem shared.TicketSystem, trackingLabel string) *Matcher {
	trackingLabel = strings.TrimSpace(trackingLabel)
	if trackingLabel == "" {
		trackingLabel = DefaultTrackingLabel
	}
	return &Matcher{
		ticketSystem:  ticketSystem,
		trackingLabel: trackingLabel,
	}
}

func (m *Matcher) TrackingLabel() string {
	return m.trackingLabel
}

// Summary returns the ticket summary for the alert. The "Alert #<id>" marker is what FindExisting searches for.
func Summary(alertID int, title string) string {
	return fmt.Sprintf("Alert #%d: %s", alertID, title)
}

// BodyMarker is the fallback identity marker inside the ticket body.
func BodyMarker(alertID int) string {
	return fmt.Sprintf("Alert ID: %d", alertID)
}

func ValidateProjectKey(projectKey string) error {
	if !projectKeyPattern.MatchString(projectKey) {
		return &shared.ValidationError{Field: "project key", Value: projectKey}
	}
	return nil
}

func validateAlertID(alertID int) error {
	if alertID <= 0 {
		return &shared.ValidationError{Field: "alert id", Value: strconv.Itoa(alertID)}
	}
	return nil
}

func BuildExistingQuery(projectKey string, alertID int) (string, error) {
	if err := ValidateProjectKey(projectKey); err != nil {
		return "", err
	}
	if err := validateAlertID(alertID); err != nil {
		return "", err
	}
	// the inner quotes make jira search for the phrase instead of the single tokens
	return fmt.Sprintf(`project = "%s" AND summary ~ "\"Alert #%d\"" ORDER BY created ASC`, projectKey, alertID), nil
}

func BuildOpenTrackedQuery(projectKey string, trackingLabel string) (string, error) {
	if err := ValidateProjectKey(projectKey); err != nil {
		return "", err
	}
	return fmt.Sprintf(`project = "%s" AND labels = "%s" AND statusCategory != Done ORDER BY created ASC`, projectKey, escapeJQLString(trackingLabel)), nil
}

// FindExisting returns the ticket tracking the alert or nil.
// Search failures are logged and reported as "no ticket". Creating a possible duplicate is preferred over missing an alert.
func (m *Matcher) FindExisting(ctx context.Context, projectKey string, alertID int) (*dtos.Ticket, error) {
	query, err := BuildExistingQuery(projectKey, alertID)
	if err != nil {
		return nil, err
	}

	results, err := m.ticketSystem.Search(ctx, query)
	if err != nil {
		slog.Warn("could not search for existing ticket, assuming there is none", "alertID", alertID, "err", err)
		return nil, nil
	}

	// jira text search is token based. "Alert #1" matches "Alert #12" as well
	matches := utils.Filter(results, func(ticket dtos.Ticket) bool {
		id, ok := ExtractAlertID(ticket)
		return ok && id == alertID
	})

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		slog.Warn("found more than one ticket for alert, using the oldest one", "alertID", alertID, "ticketKeys", utils.Map(matches, func(t dtos.Ticket) string { return t.Key }))
	}

	return &matches[0], nil
}

// FindAllOpenTracked returns every ticket of the project which carries the tracking label and is not done yet.
// Search failures degrade to an empty list.
func (m *Matcher) FindAllOpenTracked(ctx context.Context, projectKey string) ([]dtos.Ticket, error) {
	query, err := BuildOpenTrackedQuery(projectKey, m.trackingLabel)
	if err != nil {
		return nil, err
	}

	results, err := m.ticketSystem.Search(ctx, query)
	if err != nil {
		slog.Warn("could not search for open tracked tickets", "projectKey", projectKey, "err", err)
		return []dtos.Ticket{}, nil
	}
	return results, nil
}

// ExtractAlertID reads the alert id from the summary. The body marker is only used if the summary does not contain one.
func ExtractAlertID(ticket dtos.Ticket) (int, bool) {
	if id, ok := firstID(summaryPattern, ticket.Summary); ok {
		return id, true
	}
	return firstID(bodyPattern, ticket.Description)
}

func firstID(pattern *regexp.Regexp, s string) (int, bool) {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return 0, false
	}
	id, err := strconv.Atoi(match[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func escapeJQLString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
