// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package duedate

import (
	"time"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
)

const DateFormat = "2006-01-02"

var DefaultDueDays = dtos.DueDays{
	Critical: 1,
	High:     7,
	Medium:   30,
	Low:      90,
}

type Calculator struct {
	// Now is only used if no reference timestamp is available
	Now func() time.Time
}

func New() *Calculator {
	return &Calculator{Now: time.Now}
}

// DaysFor returns the configured offset for the severity.
// Unknown severities use the medium offset, non positive values fall back to the defaults.
func DaysFor(severity dtos.Severity, days dtos.DueDays) int {
	switch severity {
	case dtos.SeverityCritical:
		return orDefault(days.Critical, DefaultDueDays.Critical)
	case dtos.SeverityHigh:
		return orDefault(days.High, DefaultDueDays.High)
	case dtos.SeverityLow:
		return orDefault(days.Low, DefaultDueDays.Low)
	default:
		return orDefault(days.Medium, DefaultDueDays.Medium)
	}
}

// DueDate adds the severity offset in whole calendar days to the reference timestamp.
// The reference should be the creation time of the alert - this keeps the deadline stable
// across runs. If it is missing, the current time is used.
func (c *Calculator) DueDate(severity dtos.Severity, days dtos.DueDays, reference *time.Time) string {
	var base time.Time
	if reference != nil && !reference.IsZero() {
		base = *reference
	} else {
		base = c.now()
	}

	return base.UTC().AddDate(0, 0, DaysFor(severity, days)).Format(DateFormat)
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func orDefault(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
