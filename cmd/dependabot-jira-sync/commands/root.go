// Copyright (C) 2025 l3montree GmbH
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

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/l3montree-dev/dependabot-jira-sync/config"
	"github.com/l3montree-dev/dependabot-jira-sync/duedate"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

const (
	defaultConfigFilename = ".dependabot-jira-sync"
	envPrefix             = "INPUT"
)

var RootCmd = newRootCommand(viper.GetViper())

func newRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		SilenceUsage:      true,
		Use:               "dependabot-jira-sync",
		Short:             "Synchronize Dependabot alerts with Jira tickets",
		Version:           version,
		DisableAutoGenTag: true,
		Long: `Synchronize Dependabot alerts with Jira tickets

Every open Dependabot alert above the severity threshold gets exactly one Jira ticket.
Existing tickets are updated with the current alert state and tickets of resolved
alerts are closed. Configuration can be provided via flags, a ./.dependabot-jira-sync
config file or environment variables (prefix INPUT_, the GitHub Actions convention).`,
		Example: `  # Preview what would happen
  dependabot-jira-sync --repository acme/shop --jira-project-key SEC --dry-run

  # Only sync high and critical alerts, never close tickets
  dependabot-jira-sync --severity-threshold high --auto-close=false`,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := shared.LoadConfig(); err != nil && !os.IsNotExist(err) {
				slog.Warn("could not load .env file", "err", err)
			}

			if err := initializeConfig(cmd, v); err != nil {
				return err
			}

			shared.InitLogger(shared.ParseLogLevel(v.GetString("log-level")))
			if utils.RunsInGithubActions() {
				slog.Debug("running in github actions")
			} else if utils.RunsInCI() {
				slog.Debug("running in CI")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runSync(cmd, cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a config file. Defaults to ./.dependabot-jira-sync.yaml")
	registerSyncFlags(cmd.Flags())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// just use this command to disable the default root persistent pre-run
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Dependabot Jira Sync\n")
			fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "Built:      %s\n", date)
			fmt.Fprintf(cmd.OutOrStdout(), "Built by:   %s\n", builtBy)
		},
	})

	return cmd
}

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func registerSyncFlags(flags *pflag.FlagSet) {
	flags.String("jira-url", "", "Base URL of the Jira instance, e.g. https://acme.atlassian.net")
	flags.String("jira-user", "", "Email of the Jira user the api token belongs to")
	flags.String("jira-api-token", "", "Jira api token")
	flags.String("jira-project-key", "", "Key of the Jira project the tickets are created in")
	flags.Float64("jira-requests-per-second", 10, "Maximum number of Jira requests per second. 0 disables the limit")

	flags.String("issue-type", "Bug", "Issue type of created tickets")
	flags.String("priority", "Medium", "Priority of created tickets. Empty uses the project default")
	flags.String("labels", config.DefaultLabels, "Comma separated labels of created tickets")
	flags.String("assignee", "", "Account id or email of the assignee of created tickets")

	flags.Int("critical-due-days", duedate.DefaultDueDays.Critical, "Days until a critical ticket is due")
	flags.Int("high-due-days", duedate.DefaultDueDays.High, "Days until a high ticket is due")
	flags.Int("medium-due-days", duedate.DefaultDueDays.Medium, "Days until a medium ticket is due")
	flags.Int("low-due-days", duedate.DefaultDueDays.Low, "Days until a low ticket is due")

	flags.String("severity-threshold", "medium", "Minimum severity of synchronized alerts. Options: low, medium, high, critical")
	flags.Bool("exclude-dismissed", true, "Ignore dismissed alerts")
	flags.Bool("update-existing", true, "Comment the current alert state on existing tickets")
	flags.Bool("auto-close", true, "Close tickets of resolved alerts")
	flags.String("close-transition", "Done", "Name of the Jira transition used to close tickets")
	flags.String("close-comment", config.DefaultCloseComment, "Comment posted before a ticket is closed. Empty disables the comment")
	flags.Bool("dry-run", false, "Only log what would happen. Nothing is written to Jira")

	flags.String("repository", "", "Repository in the owner/repo format. Defaults to GITHUB_REPOSITORY")
	flags.String("github-token", "", "GitHub token with access to the Dependabot alerts")
	flags.Int64("github-app-id", 0, "GitHub App id. Used if no token is configured")
	flags.Int64("github-app-installation-id", 0, "GitHub App installation id")
	flags.String("github-app-private-key", "", "GitHub App private key or the path to it")
	flags.String("github-api-url", "", "GitHub api url. Defaults to GITHUB_API_URL or "+config.DefaultGithubAPIURL)

	flags.StringP("log-level", "l", "info", "Set the log level. Options: debug, info, warn, error")
	flags.String("pushgateway-url", "", "Prometheus Pushgateway the run metrics are pushed to")
	flags.String("error-tracking-dsn", "", "Sentry dsn. Errors are only logged if empty")
}

func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	// Set the base name of the config file, without the file extension.
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(defaultConfigFilename)
	}

	// We are only looking in the current working directory.
	v.AddConfigPath(".")

	// Attempt to read the config file, gracefully ignoring errors
	// caused by a config file not being found. Return an error
	// if we cannot parse the config file.
	if err := v.ReadInConfig(); err != nil {
		// It's okay if there isn't a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		} else {
			slog.Debug("no config file found")
		}
	}

	config.SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	// Environment variables can't have dashes in them, so bind them to their equivalent
	// keys with underscores, e.g. --jira-url to INPUT_JIRA_URL
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// Bind the current command's flags to viper
	bindFlags(cmd, v)
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name

		if err := v.BindEnv(configName, envName(configName)); err != nil {
			slog.Error("could not bind env to viper", "err", err)
		}

		// viper runs every env name through the key replacer, so the dashed
		// github actions names (INPUT_JIRA-URL) are looked up by hand
		if !f.Changed {
			if val, ok := lookupEnv(configName); ok {
				if val != "" || f.Value.Type() == "string" {
					if err := cmd.Flags().Set(f.Name, val); err != nil {
						slog.Warn("could not apply environment value", "key", configName, "err", err)
					}
				}
			}
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(configName) {
			val := v.Get(configName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		// Bind the flag to viper
		if err := v.BindPFlag(configName, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}

// lookupEnv returns the first non-empty environment variable of a key.
// A variable which is set but empty still counts, an empty input disables optional values like the close comment.
func lookupEnv(configName string) (string, bool) {
	names := []string{envName(configName), strings.ToUpper(envPrefix + "_" + configName)}
	if configName == "github-token" {
		names = append(names, "GITHUB_TOKEN")
	}
	found := false
	for _, name := range names {
		val, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if val != "" {
			return val, true
		}
		found = true
	}
	return "", found
}

func envName(configName string) string {
	return strings.ToUpper(envPrefix + "_" + strings.ReplaceAll(configName, "-", "_"))
}
