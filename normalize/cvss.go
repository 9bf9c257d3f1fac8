// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package normalize

import (
	"fmt"
	"math"
	"strings"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// BaseScoreFromVector computes the base score of a CVSS 3.0, 3.1 or 4.0 vector.
func BaseScoreFromVector(vector string) (float64, error) {
	var score float64
	switch {
	case strings.HasPrefix(vector, "CVSS:3.0"):
		cvss, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, fmt.Errorf("could not parse cvss 3.0 vector: %w", err)
		}
		score = cvss.BaseScore()
	case strings.HasPrefix(vector, "CVSS:3.1"):
		cvss, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, fmt.Errorf("could not parse cvss 3.1 vector: %w", err)
		}
		score = cvss.BaseScore()
	case strings.HasPrefix(vector, "CVSS:4.0"):
		cvss, err := gocvss40.ParseVector(vector)
		if err != nil {
			return 0, fmt.Errorf("could not parse cvss 4.0 vector: %w", err)
		}
		score = cvss.Score()
	default:
		return 0, fmt.Errorf("unsupported cvss vector: %s", vector)
	}

	// scores are defined with one decimal
	return math.Round(score*10) / 10, nil
}
