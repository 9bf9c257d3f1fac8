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

package dtos

import (
	"time"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// AlertState is the lifecycle state of a dependabot alert.
// The source may report values outside of the known constants - those are kept as they are
// so callers can decide how to treat them.
type AlertState string

const (
	AlertStateOpen          AlertState = "open"
	AlertStateDismissed     AlertState = "dismissed"
	AlertStateFixed         AlertState = "fixed"
	AlertStateAutoDismissed AlertState = "auto_dismissed"
	AlertStateUnknown       AlertState = "unknown"
	AlertStateNotFound      AlertState = "not_found"
)

type Alert struct {
	ID                     int        `json:"id"`
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	Severity               Severity   `json:"severity"`
	Package                string     `json:"package"`
	Ecosystem              string     `json:"ecosystem"`
	ManifestPath           *string    `json:"manifestPath,omitempty"`
	VulnerableVersionRange string     `json:"vulnerableVersionRange"`
	FirstPatchedVersion    string     `json:"firstPatchedVersion"`
	CVSS                   *float64   `json:"cvss,omitempty"`
	CVSSVector             *string    `json:"cvssVector,omitempty"`
	CVEID                  *string    `json:"cveId,omitempty"`
	GHSAID                 *string    `json:"ghsaId,omitempty"`
	URL                    string     `json:"url"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
	State                  AlertState `json:"state"`

	DismissedAt      *time.Time `json:"dismissedAt,omitempty"`
	DismissedReason  *string    `json:"dismissedReason,omitempty"`
	DismissedComment *string    `json:"dismissedComment,omitempty"`
}

type ListAlertsOptions struct {
	IncludeDismissed bool
	// State overrides the state filter derived from IncludeDismissed, e.g. "open,fixed"
	State string
}

// StateFilter returns the comma separated state filter which is sent to the alert source.
func (o ListAlertsOptions) StateFilter() string {
	if o.State != "" {
		return o.State
	}
	if o.IncludeDismissed {
		return "open,dismissed"
	}
	return "open"
}
