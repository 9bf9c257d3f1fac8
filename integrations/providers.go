// Copyright (C) 2024 Tim Bastin, l3montree GmbH
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package integrations

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/l3montree-dev/dependabot-jira-sync/common"
	"github.com/l3montree-dev/dependabot-jira-sync/config"
	"github.com/l3montree-dev/dependabot-jira-sync/integrations/githubint"
	"github.com/l3montree-dev/dependabot-jira-sync/integrations/jiraint"
	"github.com/l3montree-dev/dependabot-jira-sync/jira"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"go.uber.org/fx"
)

// UserAgent is sent with every outgoing request. It is overwritten by the command with the build version.
var UserAgent = "dependabot-jira-sync"

const (
	alertStatusCacheSize = 1024
	alertStatusCacheTTL  = 10 * time.Minute
)

// Module provides all integration constructors
var Module = fx.Options(
	// GitHub Integration
	fx.Provide(NewGithubClient),
	fx.Provide(fx.Annotate(
		NewAlertSource,
		fx.As(new(shared.AlertSource)),
	)),

	// Jira Integration
	fx.Provide(NewJiraClient),
	fx.Provide(fx.Annotate(
		jiraint.NewJiraIntegration,
		fx.As(new(shared.TicketSystem)),
	)),
)

func NewGithubClient(cfg config.Config) (*github.Client, error) {
	return githubint.NewGithubClient(context.Background(), githubint.ClientOptions{
		Token:             cfg.GithubToken,
		AppID:             cfg.GithubAppID,
		AppInstallationID: cfg.GithubAppInstallationID,
		AppPrivateKey:     cfg.GithubAppPrivateKey,
		APIURL:            cfg.GithubAPIURL,
	})
}

// NewAlertSource reads the dependabot alerts. Alert states are cached for the lifetime of the process.
func NewAlertSource(client *github.Client) *githubint.CachedAlertSource {
	return githubint.NewCachedAlertSource(githubint.NewDependabotAlertSource(client), alertStatusCacheSize, alertStatusCacheTTL)
}

func NewJiraClient(cfg config.Config) (*jira.Client, error) {
	wrappers := []func(req *http.Request, next http.RoundTripper) (*http.Response, error){
		common.UserAgent(UserAgent),
	}
	if cfg.JiraRequestsPerSecond > 0 {
		wrappers = append(wrappers, common.NewRateLimitTransport(cfg.JiraRequestsPerSecond).Handler())
	}

	return jira.NewJiraClient(cfg.JiraAPIToken, cfg.JiraURL, cfg.JiraUser, common.NewHTTPClient(wrappers...))
}
