// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package dtos

type Ticket struct {
	ID             string   `json:"id"`
	Key            string   `json:"key"`
	Summary        string   `json:"summary"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	StatusCategory string   `json:"statusCategory"`
	Labels         []string `json:"labels"`
	URL            string   `json:"url"`
}

// TicketFields contains everything needed to create a new ticket.
// Description is plain text - paragraphs are separated by an empty line.
type TicketFields struct {
	ProjectKey  string   `json:"projectKey"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	IssueType   string   `json:"issueType"`
	Priority    string   `json:"priority,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Assignee    string   `json:"assignee,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
}

type Transition struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ToStatus string `json:"toStatus"`
}
