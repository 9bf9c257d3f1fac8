// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package githubint

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
)

// CachedAlertSource memoizes the results of GetAlertStatus. Errors are never cached.
// Listing is passed through to the wrapped source.
type CachedAlertSource struct {
	shared.AlertSource
	cache *expirable.LRU[string, dtos.AlertState]
}

var _ shared.AlertSource = &CachedAlertSource{}

func NewCachedAlertSource(source shared.AlertSource, size int, ttl time.Duration) *CachedAlertSource {
	return &CachedAlertSource{
		AlertSource: source,
		cache:       expirable.NewLRU[string, dtos.AlertState](size, nil, ttl),
	}
}

func (c *CachedAlertSource) GetAlertStatus(ctx context.Context, ownerRepo string, alertID int) (dtos.AlertState, error) {
	key := cacheKey(ownerRepo, alertID)
	if state, ok := c.cache.Get(key); ok {
		return state, nil
	}

	state, err := c.AlertSource.GetAlertStatus(ctx, ownerRepo, alertID)
	if err != nil {
		return state, err
	}
	c.cache.Add(key, state)
	return state, nil
}

func cacheKey(ownerRepo string, alertID int) string {
	return fmt.Sprintf("%s#%d", ownerRepo, alertID)
}
