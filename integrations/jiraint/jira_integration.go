// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package jiraint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/jira"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
)

var searchFields = []string{"summary", "description", "status", "labels"}

type JiraIntegration struct {
	client *jira.Client

	// email -> account id
	accountIDs map[string]string
}

var _ shared.TicketSystem = &JiraIntegration{}

func NewJiraIntegration(client *jira.Client) *JiraIntegration {
	return &JiraIntegration{
		client:     client,
		accountIDs: make(map[string]string),
	}
}

func (i *JiraIntegration) Search(ctx context.Context, query string) ([]dtos.Ticket, error) {
	issues, err := i.client.SearchIssues(ctx, query, searchFields)
	if err != nil {
		return nil, fmt.Errorf("could not search jira issues: %w", err)
	}

	tickets := make([]dtos.Ticket, 0, len(issues))
	for _, issue := range issues {
		tickets = append(tickets, i.toTicket(issue))
	}
	return tickets, nil
}

func (i *JiraIntegration) CreateTicket(ctx context.Context, fields dtos.TicketFields) (dtos.Ticket, error) {
	description := jira.TextToADF(fields.Description)
	issue := &jira.Issue{
		Fields: &jira.IssueFields{
			Project:     &jira.Project{Key: fields.ProjectKey},
			Type:        &jira.IssueType{Name: fields.IssueType},
			Summary:     fields.Summary,
			Description: &description,
			Labels:      fields.Labels,
			Duedate:     fields.DueDate,
		},
	}

	if fields.Priority != "" {
		issue.Fields.Priority = &jira.Priority{Name: fields.Priority}
	}

	if fields.Assignee != "" {
		accountID, err := i.resolveAccountID(ctx, fields.Assignee)
		if err != nil {
			// the ticket is still worth creating without an assignee
			slog.Warn("could not resolve assignee, creating ticket without assignee", "assignee", fields.Assignee, "err", err)
		} else {
			issue.Fields.Assignee = &jira.User{AccountID: accountID}
		}
	}

	created, err := i.client.CreateIssue(ctx, issue)
	if err != nil {
		return dtos.Ticket{}, fmt.Errorf("could not create jira issue: %w", err)
	}

	return dtos.Ticket{
		ID:          created.ID,
		Key:         created.Key,
		Summary:     fields.Summary,
		Description: fields.Description,
		Labels:      fields.Labels,
		URL:         i.client.BrowseURL(created.Key),
	}, nil
}

func (i *JiraIntegration) AddComment(ctx context.Context, ticketKey string, body string) error {
	if err := i.client.CreateIssueComment(ctx, ticketKey, jira.TextToADF(body)); err != nil {
		return fmt.Errorf("could not comment on %s: %w", ticketKey, err)
	}
	return nil
}

func (i *JiraIntegration) GetTransitions(ctx context.Context, ticketKey string) ([]dtos.Transition, error) {
	transitions, err := i.client.GetTransitions(ctx, ticketKey)
	if err != nil {
		return nil, fmt.Errorf("could not fetch transitions of %s: %w", ticketKey, err)
	}

	res := make([]dtos.Transition, 0, len(transitions))
	for _, t := range transitions {
		res = append(res, dtos.Transition{
			ID:       t.ID,
			Name:     t.Name,
			ToStatus: t.To.Name,
		})
	}
	return res, nil
}

func (i *JiraIntegration) ApplyTransition(ctx context.Context, ticketKey string, transitionID string) error {
	if err := i.client.TransitionIssue(ctx, ticketKey, transitionID); err != nil {
		return fmt.Errorf("could not transition %s: %w", ticketKey, err)
	}
	return nil
}

// resolveAccountID accepts either an atlassian account id or an email address.
func (i *JiraIntegration) resolveAccountID(ctx context.Context, assignee string) (string, error) {
	if !strings.Contains(assignee, "@") {
		return assignee, nil
	}
	if accountID, ok := i.accountIDs[assignee]; ok {
		return accountID, nil
	}

	accountID, err := i.client.GetAccountIDByEmail(ctx, assignee)
	if err != nil {
		return "", err
	}
	i.accountIDs[assignee] = accountID
	return accountID, nil
}

func (i *JiraIntegration) toTicket(issue jira.Issue) dtos.Ticket {
	ticket := dtos.Ticket{
		ID:  issue.ID,
		Key: issue.Key,
		URL: i.client.BrowseURL(issue.Key),
	}
	if issue.Fields == nil {
		return ticket
	}

	ticket.Summary = issue.Fields.Summary
	ticket.Labels = issue.Fields.Labels
	if issue.Fields.Description != nil {
		ticket.Description = issue.Fields.Description.PlainText()
	}
	if issue.Fields.Status != nil {
		ticket.Status = issue.Fields.Status.Name
		ticket.StatusCategory = issue.Fields.Status.StatusCategory.Key
	}
	return ticket
}
