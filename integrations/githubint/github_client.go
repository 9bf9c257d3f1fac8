// Copyright (C) 2024 Tim Bastin, l3montree UG (haftungsbeschränkt)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package githubint

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v62/github"
	"github.com/l3montree-dev/dependabot-jira-sync/common"
	"golang.org/x/oauth2"
)

const DefaultAPIURL = "https://api.github.com/"

type ClientOptions struct {
	// Token is a personal access token or the GITHUB_TOKEN of a workflow run
	Token string

	AppID             int64
	AppInstallationID int64
	AppPrivateKey     string

	APIURL string
}

func (o ClientOptions) usesApp() bool {
	return o.AppID != 0 && o.AppInstallationID != 0 && o.AppPrivateKey != ""
}

// NewGithubClient authenticates either with a token or as a github app installation.
// A token wins if both are configured.
func NewGithubClient(ctx context.Context, opts ClientOptions) (*github.Client, error) {
	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse github api url: %w", err)
	}

	var httpClient *http.Client
	switch {
	case opts.Token != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	case opts.usesApp():
		itr, err := ghinstallation.New(http.DefaultTransport, opts.AppID, opts.AppInstallationID, []byte(opts.AppPrivateKey))
		if err != nil {
			return nil, fmt.Errorf("could not create github app installation transport: %w", err)
		}
		itr.BaseURL = strings.TrimSuffix(apiURL, "/")
		httpClient = &http.Client{Transport: itr}
	default:
		return nil, fmt.Errorf("neither a github token nor github app credentials are configured")
	}

	httpClient.Timeout = common.DefaultTimeout
	common.WrapHTTPClient(httpClient, logRateLimit)

	client := github.NewClient(httpClient)
	client.BaseURL = baseURL
	return client, nil
}

func logRateLimit(req *http.Request, next http.RoundTripper) (*http.Response, error) {
	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		slog.Debug("github api request", "url", req.URL.Path, "statusCode", resp.StatusCode, "rateLimitRemaining", remaining)
	}
	return resp, nil
}

// SplitOwnerRepo splits "owner/repo" into its parts
func SplitOwnerRepo(ownerRepo string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(ownerRepo), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", ownerRepo)
	}
	return owner, repo, nil
}
