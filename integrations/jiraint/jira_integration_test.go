// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package jiraint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntegration(t *testing.T, mux *http.ServeMux) *JiraIntegration {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := jira.NewJiraClient("token", srv.URL, "bot@example.com", srv.Client())
	require.NoError(t, err)
	return NewJiraIntegration(client)
}

func TestSearch(t *testing.T) {
	t.Run("should convert issues into tickets with a plain text description", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /rest/api/3/search/jql", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.ElementsMatch(t, []any{"summary", "description", "status", "labels"}, body["fields"])

			w.Write([]byte(`{"isLast":true,"issues":[{"id":"1","key":"SEC-1","fields":{
				"summary":"Alert #42: Prototype Pollution",
				"labels":["dependabot"],
				"status":{"name":"To Do","statusCategory":{"key":"new"}},
				"description":{"version":1,"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Alert ID: 42"}]}]}
			}}]}`)) // nolint:errcheck
		})

		integration := newIntegration(t, mux)
		tickets, err := integration.Search(context.Background(), `project = "SEC"`)
		require.NoError(t, err)
		require.Len(t, tickets, 1)

		ticket := tickets[0]
		assert.Equal(t, "SEC-1", ticket.Key)
		assert.Equal(t, "Alert #42: Prototype Pollution", ticket.Summary)
		assert.Equal(t, "Alert ID: 42", ticket.Description)
		assert.Equal(t, "To Do", ticket.Status)
		assert.Equal(t, "new", ticket.StatusCategory)
		assert.Equal(t, []string{"dependabot"}, ticket.Labels)
		assert.Contains(t, ticket.URL, "/browse/SEC-1")
	})

	t.Run("should wrap transport errors", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /rest/api/3/search/jql", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := newIntegration(t, mux).Search(context.Background(), "project = SEC")
		assert.ErrorContains(t, err, "could not search jira issues")
	})
}

func TestCreateTicket(t *testing.T) {
	fields := dtos.TicketFields{
		ProjectKey:  "SEC",
		Summary:     "Alert #42: Prototype Pollution",
		Description: "Package: lodash\n\nAlert ID: 42",
		IssueType:   "Bug",
		Priority:    "High",
		Labels:      []string{"security", "dependabot"},
		DueDate:     "2023-01-11",
	}

	t.Run("should resolve an email assignee to the account id", func(t *testing.T) {
		lookups := 0
		mux := http.NewServeMux()
		mux.HandleFunc("GET /rest/api/3/user/search", func(w http.ResponseWriter, r *http.Request) {
			lookups++
			w.Write([]byte(`[{"accountId":"acc-1"}]`)) // nolint:errcheck
		})
		mux.HandleFunc("POST /rest/api/3/issue", func(w http.ResponseWriter, r *http.Request) {
			var issue jira.Issue
			require.NoError(t, json.NewDecoder(r.Body).Decode(&issue))
			assert.Equal(t, "acc-1", issue.Fields.Assignee.AccountID)
			assert.Equal(t, "High", issue.Fields.Priority.Name)
			assert.Equal(t, "Bug", issue.Fields.Type.Name)
			assert.Equal(t, "2023-01-11", issue.Fields.Duedate)
			assert.Equal(t, "Package: lodash\n\nAlert ID: 42", issue.Fields.Description.PlainText())

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"10","key":"SEC-10"}`)) // nolint:errcheck
		})

		integration := newIntegration(t, mux)
		withAssignee := fields
		withAssignee.Assignee = "dev@example.com"

		ticket, err := integration.CreateTicket(context.Background(), withAssignee)
		require.NoError(t, err)
		assert.Equal(t, "SEC-10", ticket.Key)

		_, err = integration.CreateTicket(context.Background(), withAssignee)
		require.NoError(t, err)
		assert.Equal(t, 1, lookups, "the account id should be cached")
	})

	t.Run("should create the ticket without assignee if the lookup fails", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /rest/api/3/user/search", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`)) // nolint:errcheck
		})
		mux.HandleFunc("POST /rest/api/3/issue", func(w http.ResponseWriter, r *http.Request) {
			var issue jira.Issue
			require.NoError(t, json.NewDecoder(r.Body).Decode(&issue))
			assert.Nil(t, issue.Fields.Assignee)

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"11","key":"SEC-11"}`)) // nolint:errcheck
		})

		withAssignee := fields
		withAssignee.Assignee = "unknown@example.com"
		ticket, err := newIntegration(t, mux).CreateTicket(context.Background(), withAssignee)
		require.NoError(t, err)
		assert.Equal(t, "SEC-11", ticket.Key)
	})

	t.Run("should omit the priority if none is configured", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /rest/api/3/issue", func(w http.ResponseWriter, r *http.Request) {
			var raw map[string]map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			_, hasPriority := raw["fields"]["priority"]
			assert.False(t, hasPriority)

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"12","key":"SEC-12"}`)) // nolint:errcheck
		})

		withoutPriority := fields
		withoutPriority.Priority = ""
		_, err := newIntegration(t, mux).CreateTicket(context.Background(), withoutPriority)
		require.NoError(t, err)
	})
}

func TestTransitionsAndComments(t *testing.T) {
	t.Run("should map the transitions", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /rest/api/3/issue/SEC-1/transitions", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"transitions":[{"id":"21","name":"In Progress","to":{"name":"In Progress"}},{"id":"31","name":"Done","to":{"name":"Done"}}]}`)) // nolint:errcheck
		})

		transitions, err := newIntegration(t, mux).GetTransitions(context.Background(), "SEC-1")
		require.NoError(t, err)
		assert.Equal(t, []dtos.Transition{
			{ID: "21", Name: "In Progress", ToStatus: "In Progress"},
			{ID: "31", Name: "Done", ToStatus: "Done"},
		}, transitions)
	})

	t.Run("should post the comment and apply the transition", func(t *testing.T) {
		var calls []string
		mux := http.NewServeMux()
		mux.HandleFunc("POST /rest/api/3/issue/SEC-1/comment", func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "comment")
			w.WriteHeader(http.StatusCreated)
		})
		mux.HandleFunc("POST /rest/api/3/issue/SEC-1/transitions", func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "transition")
			w.WriteHeader(http.StatusNoContent)
		})

		integration := newIntegration(t, mux)
		require.NoError(t, integration.AddComment(context.Background(), "SEC-1", "closing"))
		require.NoError(t, integration.ApplyTransition(context.Background(), "SEC-1", "31"))
		assert.Equal(t, []string{"comment", "transition"}, calls)
	})
}
