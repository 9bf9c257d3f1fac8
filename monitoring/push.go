// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJobName = "dependabot_jira_sync"

// Push sends the sync metrics to the pushgateway. An empty url disables pushing.
func Push(ctx context.Context, pushgatewayURL string, repository string) error {
	if pushgatewayURL == "" {
		return nil
	}

	pusher := push.New(pushgatewayURL, pushJobName).Gatherer(Registry)
	if repository != "" {
		pusher = pusher.Grouping("repository", repository)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("could not push metrics to %s: %w", pushgatewayURL, err)
	}

	slog.Debug("pushed metrics", "pushgateway", pushgatewayURL)
	return nil
}
