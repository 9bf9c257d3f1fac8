package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/l3montree-dev/dependabot-jira-sync/shared"
)

const searchPageSize = 100

type Client struct {
	AccessToken string
	BaseURL     string
	UserEmail   string

	httpClient *http.Client
}

func NewJiraClient(token string, baseURL string, userEmail string, httpClient *http.Client) (*Client, error) {
	if token == "" || baseURL == "" || userEmail == "" {
		return nil, fmt.Errorf("invalid Jira client parameters: token, baseURL, and userEmail must be provided")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		AccessToken: token,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		UserEmail:   userEmail,
		httpClient:  httpClient,
	}, nil
}

// BrowseURL returns the link to the issue in the jira web ui
func (c *Client) BrowseURL(issueKey string) string {
	return fmt.Sprintf("%s/browse/%s", c.BaseURL, issueKey)
}

// SearchIssues runs the jql query and follows the nextPageToken until the last page is reached.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string) ([]Issue, error) {
	var issues []Issue
	seenTokens := map[string]struct{}{}

	req := searchRequest{
		JQL:        jql,
		Fields:     fields,
		MaxResults: searchPageSize,
	}

	for {
		var page searchResponse
		if err := c.do(ctx, "search issues", http.MethodPost, "/rest/api/3/search/jql", req, http.StatusOK, &page); err != nil {
			return nil, err
		}
		issues = append(issues, page.Issues...)

		if page.IsLast || page.NextPageToken == "" {
			break
		}
		if _, ok := seenTokens[page.NextPageToken]; ok {
			slog.Warn("jira returned the same page token twice, stopping pagination", "jql", jql)
			break
		}
		seenTokens[page.NextPageToken] = struct{}{}
		req.NextPageToken = page.NextPageToken
	}

	slog.Debug("searched jira issues", "jql", jql, "count", len(issues))
	return issues, nil
}

func (c *Client) CreateIssue(ctx context.Context, issue *Issue) (*CreateIssueResponse, error) {
	var response CreateIssueResponse
	if err := c.do(ctx, "create issue", http.MethodPost, "/rest/api/3/issue", issue, http.StatusCreated, &response); err != nil {
		return nil, err
	}

	slog.Info("issue created successfully", "issueKey", response.Key, "issueID", response.ID)
	return &response, nil
}

func (c *Client) CreateIssueComment(ctx context.Context, issueKey string, comment ADF) error {
	body := map[string]any{
		"body": comment,
	}

	if err := c.do(ctx, "create issue comment", http.MethodPost, fmt.Sprintf("/rest/api/3/issue/%s/comment", url.PathEscape(issueKey)), body, http.StatusCreated, nil); err != nil {
		return err
	}

	slog.Debug("issue comment created successfully", "issueKey", issueKey)
	return nil
}

func (c *Client) GetTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	var transitions TransitionsResponse
	if err := c.do(ctx, "fetch issue transitions", http.MethodGet, fmt.Sprintf("/rest/api/3/issue/%s/transitions", url.PathEscape(issueKey)), nil, http.StatusOK, &transitions); err != nil {
		return nil, err
	}

	slog.Debug("fetched issue transitions", "issueKey", issueKey, "count", len(transitions.Transitions))
	return transitions.Transitions, nil
}

func (c *Client) TransitionIssue(ctx context.Context, issueKey string, transitionID string) error {
	body := map[string]any{
		"transition": map[string]string{
			"id": transitionID,
		},
	}

	if err := c.do(ctx, "transition issue", http.MethodPost, fmt.Sprintf("/rest/api/3/issue/%s/transitions", url.PathEscape(issueKey)), body, http.StatusNoContent, nil); err != nil {
		return err
	}

	slog.Info("issue transitioned successfully", "issueKey", issueKey, "transitionID", transitionID)
	return nil
}

func (c *Client) GetAccountIDByEmail(ctx context.Context, email string) (string, error) {
	var users []User
	if err := c.do(ctx, "fetch user by email", http.MethodGet, "/rest/api/3/user/search?query="+url.QueryEscape(email), nil, http.StatusOK, &users); err != nil {
		return "", err
	}

	if len(users) == 0 {
		return "", fmt.Errorf("no user found with email: %s", email)
	}

	if len(users) > 1 {
		slog.Warn("multiple users found with the same email, returning the first one", "email", email)
	}

	return users[0].AccountID, nil
}

func (c *Client) do(ctx context.Context, op string, method string, path string, body any, expectedStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	resp, err := c.jiraRequest(ctx, method, path, reader)
	if err != nil {
		return &shared.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		bodyContent, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		slog.Error("jira request failed", "op", op, "statusCode", resp.StatusCode, "responseBody", string(bodyContent))
		return &shared.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(bodyContent))),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &shared.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("could not decode response: %w", err)}
	}
	return nil
}

func (c *Client) jiraRequest(ctx context.Context, method string, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.SetBasicAuth(c.UserEmail, c.AccessToken)
	return c.httpClient.Do(req)
}
