// Copyright (C) 2025 l3montree UG (haftungsbeschraenkt)
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

package config

import (
	"errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/duedate"
	"github.com/l3montree-dev/dependabot-jira-sync/severity"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
	"github.com/spf13/viper"
)

const (
	DefaultCloseComment = "This issue was automatically closed because the corresponding Dependabot alert has been resolved."
	DefaultGithubAPIURL = "https://api.github.com/"
	DefaultLabels       = "dependabot,security"
)

type Config struct {
	JiraURL               string  `json:"jiraUrl" mapstructure:"jira-url" validate:"required,url"`
	JiraUser              string  `json:"jiraUser" mapstructure:"jira-user" validate:"required"`
	JiraAPIToken          string  `json:"-" mapstructure:"jira-api-token" validate:"required"`
	JiraProjectKey        string  `json:"jiraProjectKey" mapstructure:"jira-project-key" validate:"required"`
	JiraRequestsPerSecond float64 `json:"jiraRequestsPerSecond" mapstructure:"jira-requests-per-second" validate:"gte=0"`

	IssueType string `json:"issueType" mapstructure:"issue-type" validate:"required"`
	Priority  string `json:"priority" mapstructure:"priority"`
	// Labels is the raw comma separated list. Use LabelList.
	Labels   string `json:"labels" mapstructure:"labels"`
	Assignee string `json:"assignee" mapstructure:"assignee"`

	DueDays dtos.DueDays `json:"dueDays" mapstructure:",squash"`

	SeverityThreshold string `json:"severityThreshold" mapstructure:"severity-threshold"`
	ExcludeDismissed  bool   `json:"excludeDismissed" mapstructure:"exclude-dismissed"`
	UpdateExisting    bool   `json:"updateExisting" mapstructure:"update-existing"`
	AutoClose         bool   `json:"autoClose" mapstructure:"auto-close"`
	CloseTransition   string `json:"closeTransition" mapstructure:"close-transition" validate:"required_if=AutoClose true"`
	CloseComment      string `json:"closeComment" mapstructure:"close-comment"`
	DryRun            bool   `json:"dryRun" mapstructure:"dry-run"`

	Repository              string `json:"repository" mapstructure:"repository" validate:"required"`
	GithubToken             string `json:"-" mapstructure:"github-token"`
	GithubAppID             int64  `json:"githubAppId" mapstructure:"github-app-id"`
	GithubAppInstallationID int64  `json:"githubAppInstallationId" mapstructure:"github-app-installation-id"`
	GithubAppPrivateKey     string `json:"-" mapstructure:"github-app-private-key"`
	GithubAPIURL            string `json:"githubApiUrl" mapstructure:"github-api-url" validate:"omitempty,url"`

	LogLevel         string `json:"logLevel" mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error"`
	PushgatewayURL   string `json:"pushgatewayUrl" mapstructure:"pushgateway-url" validate:"omitempty,url"`
	ErrorTrackingDSN string `json:"-" mapstructure:"error-tracking-dsn"`
}

// SetDefaults registers the default of every key which has one.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("jira-requests-per-second", 10)
	v.SetDefault("issue-type", "Bug")
	v.SetDefault("priority", "Medium")
	v.SetDefault("labels", DefaultLabels)
	v.SetDefault("critical-due-days", duedate.DefaultDueDays.Critical)
	v.SetDefault("high-due-days", duedate.DefaultDueDays.High)
	v.SetDefault("medium-due-days", duedate.DefaultDueDays.Medium)
	v.SetDefault("low-due-days", duedate.DefaultDueDays.Low)
	v.SetDefault("severity-threshold", "medium")
	v.SetDefault("exclude-dismissed", true)
	v.SetDefault("update-existing", true)
	v.SetDefault("auto-close", true)
	v.SetDefault("close-transition", "Done")
	v.SetDefault("close-comment", DefaultCloseComment)
	v.SetDefault("dry-run", false)
	v.SetDefault("log-level", "info")
}

// Load reads the configuration from viper and validates it.
// Every returned error matches shared.ErrInvalidConfiguration.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, shared.NewConfigurationError("config", err.Error())
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Repository == "" {
		// set by github actions
		c.Repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if c.GithubAPIURL == "" {
		c.GithubAPIURL = utils.OrDefault(utils.EmptyThenNil(os.Getenv("GITHUB_API_URL")), DefaultGithubAPIURL)
	}
	// github actions passes an empty string for inputs which were not provided
	c.SeverityThreshold = utils.OrDefault(utils.EmptyThenNil(c.SeverityThreshold), "medium")
	c.JiraURL = strings.TrimSuffix(strings.TrimSpace(c.JiraURL), "/")
	c.JiraProjectKey = strings.TrimSpace(c.JiraProjectKey)
	c.Repository = strings.TrimSpace(c.Repository)
	c.SeverityThreshold = strings.ToLower(strings.TrimSpace(c.SeverityThreshold))

	if c.GithubAppPrivateKey != "" && !strings.Contains(c.GithubAppPrivateKey, "PRIVATE KEY") {
		// treat it as a path
		if b, err := os.ReadFile(c.GithubAppPrivateKey); err == nil {
			c.GithubAppPrivateKey = string(b)
		}
	}
}

func (c Config) Validate() error {
	if err := shared.V.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			first := validationErrs[0]
			return shared.NewConfigurationError(first.Field(), "failed on the '"+first.Tag()+"' rule")
		}
		return shared.NewConfigurationError("config", err.Error())
	}

	if _, err := severity.ParseThreshold(c.SeverityThreshold); err != nil {
		return err
	}

	if !strings.Contains(c.Repository, "/") {
		return shared.NewConfigurationError("repository", "expected owner/repo")
	}

	if c.GithubToken == "" && (c.GithubAppID == 0 || c.GithubAppInstallationID == 0 || c.GithubAppPrivateKey == "") {
		return shared.NewConfigurationError("github-token", "either a github token or github-app-id, github-app-installation-id and github-app-private-key are required")
	}

	return nil
}

// LabelList returns the configured labels, trimmed and deduplicated.
func (c Config) LabelList() []string {
	return utils.DeduplicateSlice(utils.SplitAndTrim(c.Labels), func(l string) string { return l })
}

// ListAlertsOptions derives the alert listing options from the dismissed flag.
func (c Config) ListAlertsOptions() dtos.ListAlertsOptions {
	return dtos.ListAlertsOptions{IncludeDismissed: !c.ExcludeDismissed}
}

// Redacted returns the configuration for logging. Secrets are not part of it.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"jiraUrl":           c.JiraURL,
		"jiraProjectKey":    c.JiraProjectKey,
		"repository":        c.Repository,
		"severityThreshold": c.SeverityThreshold,
		"dryRun":            c.DryRun,
		"autoClose":         c.AutoClose,
		"updateExisting":    c.UpdateExisting,
		"excludeDismissed":  c.ExcludeDismissed,
		"githubAppAuth":     c.GithubToken == "",
	}
}
