// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/severity"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
)

const (
	unknown                = "unknown"
	noDescription          = "No description available"
	noFirstPatchedVersion  = "Not available"
	titlePrefixWithPackage = "Vulnerability in %s"
)

// Alert converts a raw dependabot alert into the canonical alert shape.
// It never fails - every missing field falls back to a placeholder or nil.
// The github getters are nil safe, which is why they are used all over the place.
func Alert(raw *github.DependabotAlert) dtos.Alert {
	advisory := raw.GetSecurityAdvisory()
	vulnerability := raw.GetSecurityVulnerability()
	dependency := raw.GetDependency()

	pkg := firstNonEmpty(dependency.GetPackage().GetName(), vulnerability.GetPackage().GetName())
	ecosystem := firstNonEmpty(dependency.GetPackage().GetEcosystem(), vulnerability.GetPackage().GetEcosystem())

	alert := dtos.Alert{
		ID:                     raw.GetNumber(),
		Title:                  strings.TrimSpace(advisory.GetSummary()),
		Description:            strings.TrimSpace(advisory.GetDescription()),
		Severity:               alertSeverity(advisory.GetSeverity(), vulnerability.GetSeverity()),
		Package:                orUnknown(pkg),
		Ecosystem:              orUnknown(ecosystem),
		ManifestPath:           utils.EmptyThenNil(dependency.GetManifestPath()),
		VulnerableVersionRange: orUnknown(vulnerability.GetVulnerableVersionRange()),
		FirstPatchedVersion:    vulnerability.GetFirstPatchedVersion().GetIdentifier(),
		CVEID:                  utils.EmptyThenNil(advisory.GetCVEID()),
		GHSAID:                 utils.EmptyThenNil(advisory.GetGHSAID()),
		URL:                    raw.GetHTMLURL(),
		CreatedAt:              raw.GetCreatedAt().Time,
		UpdatedAt:              raw.GetUpdatedAt().Time,
		State:                  dtos.AlertState(strings.ToLower(raw.GetState())),
		DismissedReason:        utils.EmptyThenNil(raw.GetDismissedReason()),
		DismissedComment:       utils.EmptyThenNil(raw.GetDismissedComment()),
	}

	if alert.Title == "" {
		alert.Title = fmt.Sprintf(titlePrefixWithPackage, orUnknown(pkg))
	}
	if alert.Description == "" {
		alert.Description = noDescription
	}
	if alert.FirstPatchedVersion == "" {
		alert.FirstPatchedVersion = noFirstPatchedVersion
	}
	if alert.State == "" {
		alert.State = dtos.AlertStateUnknown
	}
	if alert.URL == "" {
		alert.URL = raw.GetURL()
	}
	if raw.DismissedAt != nil {
		alert.DismissedAt = utils.Ptr(raw.DismissedAt.Time)
	}

	alert.CVSS, alert.CVSSVector = cvss(alert.ID, advisory.GetCVSS())

	return alert
}

// Alerts normalizes a batch of raw alerts. nil records are skipped.
func Alerts(raw []*github.DependabotAlert) []dtos.Alert {
	res := make([]dtos.Alert, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		res = append(res, Alert(r))
	}
	return res
}

func cvss(alertID int, c *github.AdvisoryCVSS) (*float64, *string) {
	if c == nil {
		return nil, nil
	}
	vector := utils.EmptyThenNil(utils.SafeDereference(c.VectorString))
	if c.Score != nil && *c.Score > 0 {
		return utils.Ptr(*c.Score), vector
	}
	if vector == nil {
		// github reports a score of 0 if no cvss information is available
		return nil, nil
	}

	score, err := BaseScoreFromVector(*vector)
	if err != nil {
		slog.Warn("could not compute cvss score from vector", "alertID", alertID, "vector", *vector, "err", err)
		return nil, vector
	}
	return utils.Ptr(score), vector
}

func alertSeverity(candidates ...string) dtos.Severity {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		s, err := severity.Parse(c)
		if err != nil {
			slog.Debug("unrecognized severity", "severity", c)
			return dtos.SeverityUnknown
		}
		return s
	}
	return dtos.SeverityUnknown
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
