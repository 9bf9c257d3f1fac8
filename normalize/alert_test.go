// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package normalize

import (
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/l3montree-dev/dependabot-jira-sync/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullAlert() *github.DependabotAlert {
	createdAt := time.Date(2023, 1, 10, 8, 0, 0, 0, time.UTC)
	return &github.DependabotAlert{
		Number:  github.Int(42),
		State:   github.String("open"),
		HTMLURL: github.String("https://github.com/acme/shop/security/dependabot/42"),
		Dependency: &github.Dependency{
			Package: &github.VulnerabilityPackage{
				Ecosystem: github.String("npm"),
				Name:      github.String("lodash"),
			},
			ManifestPath: github.String("package-lock.json"),
		},
		SecurityAdvisory: &github.DependabotSecurityAdvisory{
			GHSAID:      github.String("GHSA-jf85-cpcp-j695"),
			CVEID:       github.String("CVE-2019-10744"),
			Summary:     github.String("Prototype Pollution in lodash"),
			Description: github.String("Versions of lodash before 4.17.12 are vulnerable to Prototype Pollution."),
			Severity:    github.String("critical"),
			CVSS: &github.AdvisoryCVSS{
				Score:        utils.Ptr(9.1),
				VectorString: github.String("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:H/A:H"),
			},
		},
		SecurityVulnerability: &github.AdvisoryVulnerability{
			VulnerableVersionRange: github.String("< 4.17.12"),
			FirstPatchedVersion:    &github.FirstPatchedVersion{Identifier: github.String("4.17.12")},
		},
		CreatedAt: &github.Timestamp{Time: createdAt},
		UpdatedAt: &github.Timestamp{Time: createdAt.Add(time.Hour)},
	}
}

func TestAlert(t *testing.T) {
	t.Run("should extract all fields of a complete alert", func(t *testing.T) {
		alert := Alert(fullAlert())

		assert.Equal(t, 42, alert.ID)
		assert.Equal(t, "Prototype Pollution in lodash", alert.Title)
		assert.Equal(t, dtos.SeverityCritical, alert.Severity)
		assert.Equal(t, "lodash", alert.Package)
		assert.Equal(t, "npm", alert.Ecosystem)
		assert.Equal(t, "package-lock.json", *alert.ManifestPath)
		assert.Equal(t, "< 4.17.12", alert.VulnerableVersionRange)
		assert.Equal(t, "4.17.12", alert.FirstPatchedVersion)
		require.NotNil(t, alert.CVSS)
		assert.Equal(t, 9.1, *alert.CVSS)
		assert.Equal(t, "CVE-2019-10744", *alert.CVEID)
		assert.Equal(t, "GHSA-jf85-cpcp-j695", *alert.GHSAID)
		assert.Equal(t, "https://github.com/acme/shop/security/dependabot/42", alert.URL)
		assert.Equal(t, dtos.AlertStateOpen, alert.State)
		assert.Equal(t, time.Date(2023, 1, 10, 8, 0, 0, 0, time.UTC), alert.CreatedAt)
		assert.Nil(t, alert.DismissedAt)
	})

	t.Run("should never fail on an empty alert and use the documented fallbacks", func(t *testing.T) {
		alert := Alert(&github.DependabotAlert{})

		assert.Equal(t, 0, alert.ID)
		assert.Equal(t, "Vulnerability in unknown", alert.Title)
		assert.Equal(t, "No description available", alert.Description)
		assert.Equal(t, dtos.SeverityUnknown, alert.Severity)
		assert.Equal(t, "unknown", alert.Package)
		assert.Equal(t, "unknown", alert.Ecosystem)
		assert.Equal(t, "unknown", alert.VulnerableVersionRange)
		assert.Equal(t, "Not available", alert.FirstPatchedVersion)
		assert.Nil(t, alert.CVSS)
		assert.Nil(t, alert.CVEID)
		assert.Nil(t, alert.GHSAID)
		assert.Nil(t, alert.ManifestPath)
		assert.Equal(t, dtos.AlertStateUnknown, alert.State)
		assert.True(t, alert.CreatedAt.IsZero())
	})

	t.Run("should use the package name in the title fallback", func(t *testing.T) {
		raw := fullAlert()
		raw.SecurityAdvisory.Summary = nil

		assert.Equal(t, "Vulnerability in lodash", Alert(raw).Title)
	})

	t.Run("should fall back to the vulnerability severity and package", func(t *testing.T) {
		raw := &github.DependabotAlert{
			SecurityVulnerability: &github.AdvisoryVulnerability{
				Severity: github.String("moderate"),
				Package: &github.VulnerabilityPackage{
					Name:      github.String("requests"),
					Ecosystem: github.String("pip"),
				},
			},
		}

		alert := Alert(raw)
		assert.Equal(t, dtos.SeverityMedium, alert.Severity)
		assert.Equal(t, "requests", alert.Package)
		assert.Equal(t, "pip", alert.Ecosystem)
	})

	t.Run("should map an unrecognized severity to unknown", func(t *testing.T) {
		raw := fullAlert()
		raw.SecurityAdvisory.Severity = github.String("catastrophic")

		assert.Equal(t, dtos.SeverityUnknown, Alert(raw).Severity)
	})

	t.Run("should compute the cvss score from the vector if github reports 0", func(t *testing.T) {
		raw := fullAlert()
		raw.SecurityAdvisory.CVSS = &github.AdvisoryCVSS{
			Score:        utils.Ptr(0.0),
			VectorString: github.String("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"),
		}

		alert := Alert(raw)
		require.NotNil(t, alert.CVSS)
		assert.Equal(t, 9.8, *alert.CVSS)
	})

	t.Run("should treat a zero score without vector as absent", func(t *testing.T) {
		raw := fullAlert()
		raw.SecurityAdvisory.CVSS = &github.AdvisoryCVSS{Score: utils.Ptr(0.0)}

		alert := Alert(raw)
		assert.Nil(t, alert.CVSS)
		assert.Nil(t, alert.CVSSVector)
	})

	t.Run("should keep the dismissal metadata", func(t *testing.T) {
		dismissedAt := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
		raw := fullAlert()
		raw.State = github.String("dismissed")
		raw.DismissedAt = &github.Timestamp{Time: dismissedAt}
		raw.DismissedReason = github.String("tolerable_risk")
		raw.DismissedComment = github.String("only used in tests")

		alert := Alert(raw)
		assert.Equal(t, dtos.AlertStateDismissed, alert.State)
		assert.Equal(t, dismissedAt, *alert.DismissedAt)
		assert.Equal(t, "tolerable_risk", *alert.DismissedReason)
		assert.Equal(t, "only used in tests", *alert.DismissedComment)
	})
}

func TestAlerts(t *testing.T) {
	t.Run("should skip nil records and keep the order", func(t *testing.T) {
		first := fullAlert()
		second := fullAlert()
		second.Number = github.Int(43)

		alerts := Alerts([]*github.DependabotAlert{first, nil, second})
		require.Len(t, alerts, 2)
		assert.Equal(t, 42, alerts[0].ID)
		assert.Equal(t, 43, alerts[1].ID)
	})
}

func TestBaseScoreFromVector(t *testing.T) {
	t.Run("should compute cvss 3.0 scores", func(t *testing.T) {
		score, err := BaseScoreFromVector("CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
		assert.NoError(t, err)
		assert.Equal(t, 9.8, score)
	})

	t.Run("should reject unsupported vectors", func(t *testing.T) {
		_, err := BaseScoreFromVector("AV:N/AC:L/Au:N/C:P/I:P/A:P")
		assert.Error(t, err)
	})

	t.Run("should reject malformed vectors", func(t *testing.T) {
		_, err := BaseScoreFromVector("CVSS:3.1/AV:X")
		assert.Error(t, err)
	})
}
