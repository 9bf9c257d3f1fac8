// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package severity

import (
	"fmt"
	"strings"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/shared"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
)

// ordered from lowest to highest
var order = []dtos.Severity{
	dtos.SeverityLow,
	dtos.SeverityMedium,
	dtos.SeverityHigh,
	dtos.SeverityCritical,
}

// Parse parses a severity case-insensitively.
// github advisories sometimes use "moderate" - it is treated as medium.
func Parse(s string) (dtos.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return dtos.SeverityLow, nil
	case "medium", "moderate":
		return dtos.SeverityMedium, nil
	case "high":
		return dtos.SeverityHigh, nil
	case "critical":
		return dtos.SeverityCritical, nil
	default:
		return dtos.SeverityUnknown, fmt.Errorf("invalid severity: %s", s)
	}
}

// Index returns the position of the severity in the total order low < medium < high < critical.
// It returns -1 for anything else.
func Index(s dtos.Severity) int {
	for i, o := range order {
		if o == s {
			return i
		}
	}
	return -1
}

// Passes reports whether an alert with the given severity reaches the threshold.
// Unrecognized severities never pass.
func Passes(alertSeverity dtos.Severity, threshold dtos.Severity) bool {
	alertIndex := Index(alertSeverity)
	if alertIndex < 0 {
		return false
	}
	thresholdIndex := Index(threshold)
	if thresholdIndex < 0 {
		return false
	}
	return alertIndex >= thresholdIndex
}

// ParseThreshold is stricter than Parse: only the four severity words are accepted.
func ParseThreshold(threshold string) (dtos.Severity, error) {
	t := dtos.Severity(strings.ToLower(strings.TrimSpace(threshold)))
	if Index(t) < 0 {
		return dtos.SeverityUnknown, shared.NewConfigurationError("severity-threshold", fmt.Sprintf("%q is not one of low, medium, high, critical", threshold))
	}
	return t, nil
}

// FilterByThreshold keeps all alerts which reach the threshold.
// An invalid threshold is a configuration error and nothing is returned.
func FilterByThreshold(alerts []dtos.Alert, threshold string) ([]dtos.Alert, error) {
	t, err := ParseThreshold(threshold)
	if err != nil {
		return nil, err
	}

	return utils.Filter(alerts, func(a dtos.Alert) bool {
		return Passes(a.Severity, t)
	}), nil
}
