package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewJiraClient("token", srv.URL+"/", "bot@example.com", srv.Client())
	require.NoError(t, err)
	return client
}

func TestNewJiraClient(t *testing.T) {
	t.Run("should fail if a parameter is missing", func(t *testing.T) {
		_, err := NewJiraClient("", "https://example.atlassian.net", "bot@example.com", nil)
		assert.Error(t, err)
	})

	t.Run("should trim the trailing slash of the base url", func(t *testing.T) {
		client, err := NewJiraClient("token", "https://example.atlassian.net/", "bot@example.com", nil)
		require.NoError(t, err)
		assert.Equal(t, "https://example.atlassian.net/browse/SEC-1", client.BrowseURL("SEC-1"))
	})
}

func TestSearchIssues(t *testing.T) {
	t.Run("should follow the next page token until the last page", func(t *testing.T) {
		var tokens []string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/rest/api/3/search/jql", r.URL.Path)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "bot@example.com", user)
			assert.Equal(t, "token", pass)

			var req searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, `project = "SEC"`, req.JQL)
			assert.Equal(t, []string{"summary"}, req.Fields)
			tokens = append(tokens, req.NextPageToken)

			if req.NextPageToken == "" {
				json.NewEncoder(w).Encode(searchResponse{ // nolint:errcheck
					Issues:        []Issue{{Key: "SEC-1"}},
					NextPageToken: "page-2",
				})
				return
			}
			json.NewEncoder(w).Encode(searchResponse{ // nolint:errcheck
				Issues: []Issue{{Key: "SEC-2"}},
				IsLast: true,
			})
		})

		issues, err := client.SearchIssues(context.Background(), `project = "SEC"`, []string{"summary"})
		require.NoError(t, err)
		require.Len(t, issues, 2)
		assert.Equal(t, "SEC-1", issues[0].Key)
		assert.Equal(t, "SEC-2", issues[1].Key)
		assert.Equal(t, []string{"", "page-2"}, tokens)
	})

	t.Run("should stop if the same page token is returned twice", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			json.NewEncoder(w).Encode(searchResponse{NextPageToken: "loop"}) // nolint:errcheck
		})

		_, err := client.SearchIssues(context.Background(), "project = SEC", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("should return a transport error on a non 200 response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errorMessages":["bad jql"]}`)) // nolint:errcheck
		})

		_, err := client.SearchIssues(context.Background(), "project = SEC", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrTransport)

		var transportErr *shared.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusBadRequest, transportErr.StatusCode)
		assert.Contains(t, err.Error(), "bad jql")
	})
}

func TestCreateIssue(t *testing.T) {
	t.Run("should post the issue and return the created key", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/api/3/issue", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var issue Issue
			require.NoError(t, json.NewDecoder(r.Body).Decode(&issue))
			assert.Equal(t, "SEC", issue.Fields.Project.Key)
			assert.Equal(t, "2023-01-11", issue.Fields.Duedate)
			assert.Equal(t, []string{"dependabot"}, issue.Fields.Labels)

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"10001","key":"SEC-7","self":"https://example/rest/api/3/issue/10001"}`)) // nolint:errcheck
		})

		desc := TextToADF("body")
		res, err := client.CreateIssue(context.Background(), &Issue{Fields: &IssueFields{
			Project:     &Project{Key: "SEC"},
			Type:        &IssueType{Name: "Bug"},
			Summary:     "Alert #1: test",
			Description: &desc,
			Labels:      []string{"dependabot"},
			Duedate:     "2023-01-11",
		}})
		require.NoError(t, err)
		assert.Equal(t, "SEC-7", res.Key)
		assert.Equal(t, "10001", res.ID)
	})
}

func TestTransitions(t *testing.T) {
	t.Run("should list the transitions of an issue", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/rest/api/3/issue/SEC-1/transitions", r.URL.Path)
			w.Write([]byte(`{"transitions":[{"id":"31","name":"Done","to":{"name":"Done","id":"3"}}]}`)) // nolint:errcheck
		})

		transitions, err := client.GetTransitions(context.Background(), "SEC-1")
		require.NoError(t, err)
		require.Len(t, transitions, 1)
		assert.Equal(t, "31", transitions[0].ID)
		assert.Equal(t, "Done", transitions[0].To.Name)
	})

	t.Run("should apply a transition by id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "31", body["transition"]["id"])
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, client.TransitionIssue(context.Background(), "SEC-1", "31"))
	})
}

func TestCreateIssueComment(t *testing.T) {
	t.Run("should wrap the document into the body field", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/api/3/issue/SEC-1/comment", r.URL.Path)
			var body map[string]ADF
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hello", body["body"].PlainText())
			w.WriteHeader(http.StatusCreated)
		})

		assert.NoError(t, client.CreateIssueComment(context.Background(), "SEC-1", TextToADF("hello")))
	})
}

func TestGetAccountIDByEmail(t *testing.T) {
	t.Run("should escape the email and return the first account", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "dev+sec@example.com", r.URL.Query().Get("query"))
			w.Write([]byte(`[{"accountId":"abc"},{"accountId":"def"}]`)) // nolint:errcheck
		})

		id, err := client.GetAccountIDByEmail(context.Background(), "dev+sec@example.com")
		require.NoError(t, err)
		assert.Equal(t, "abc", id)
	})

	t.Run("should fail if no user was found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`)) // nolint:errcheck
		})

		_, err := client.GetAccountIDByEmail(context.Background(), "nobody@example.com")
		assert.Error(t, err)
	})
}
