// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package severity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasses(t *testing.T) {
	for i, s := range order {
		for j, threshold := range order {
			t.Run(fmt.Sprintf("%s against %s", s, threshold), func(t *testing.T) {
				assert.Equal(t, i >= j, Passes(s, threshold))
			})
		}
	}

	t.Run("should never pass an unrecognized severity", func(t *testing.T) {
		for _, threshold := range order {
			assert.False(t, Passes(dtos.SeverityUnknown, threshold))
			assert.False(t, Passes("informational", threshold))
			assert.False(t, Passes("", threshold))
		}
	})

	t.Run("should not pass if both severities are unrecognized", func(t *testing.T) {
		assert.False(t, Passes("foo", "foo"))
	})
}

func TestParse(t *testing.T) {
	t.Run("should parse case-insensitively", func(t *testing.T) {
		s, err := Parse("CrItIcAl")
		assert.NoError(t, err)
		assert.Equal(t, dtos.SeverityCritical, s)
	})

	t.Run("should treat moderate as medium", func(t *testing.T) {
		s, err := Parse("moderate")
		assert.NoError(t, err)
		assert.Equal(t, dtos.SeverityMedium, s)
	})

	t.Run("should return unknown for anything else", func(t *testing.T) {
		s, err := Parse("severe")
		assert.Error(t, err)
		assert.Equal(t, dtos.SeverityUnknown, s)
	})
}

func TestFilterByThreshold(t *testing.T) {
	alerts := []dtos.Alert{
		{ID: 1, Severity: dtos.SeverityLow},
		{ID: 2, Severity: dtos.SeverityMedium},
		{ID: 3, Severity: dtos.SeverityHigh},
		{ID: 4, Severity: dtos.SeverityCritical},
		{ID: 5, Severity: dtos.SeverityUnknown},
	}

	t.Run("should keep alerts at or above the threshold in their original order", func(t *testing.T) {
		filtered, err := FilterByThreshold(alerts, "HIGH")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4}, ids(filtered))
	})

	t.Run("should drop unknown severities even with the lowest threshold", func(t *testing.T) {
		filtered, err := FilterByThreshold(alerts, "low")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, ids(filtered))
	})

	t.Run("should fail with a configuration error on an invalid threshold", func(t *testing.T) {
		filtered, err := FilterByThreshold(alerts, "moderate")
		assert.Nil(t, filtered)
		assert.True(t, errors.Is(err, shared.ErrInvalidConfiguration))

		var cfgErr *shared.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "severity-threshold", cfgErr.Field)
	})
}

func ids(alerts []dtos.Alert) []int {
	r := make([]int, 0, len(alerts))
	for _, a := range alerts {
		r = append(r, a.ID)
	}
	return r
}
