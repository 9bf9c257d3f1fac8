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
package statemachine

import (
	"testing"

	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
	"github.com/stretchr/testify/assert"
)

func TestDecideAlertAction(t *testing.T) {
	t.Run("should create a ticket if none exists", func(t *testing.T) {
		assert.Equal(t, AlertActionCreate, DecideAlertAction(nil, true))
		assert.Equal(t, AlertActionCreate, DecideAlertAction(nil, false))
	})

	t.Run("should update an existing ticket if updates are enabled", func(t *testing.T) {
		assert.Equal(t, AlertActionUpdate, DecideAlertAction(&dtos.Ticket{Key: "SEC-1"}, true))
	})

	t.Run("should skip an existing ticket if updates are disabled", func(t *testing.T) {
		assert.Equal(t, AlertActionSkip, DecideAlertAction(&dtos.Ticket{Key: "SEC-1"}, false))
	})
}

func TestDecideCloseAction(t *testing.T) {
	testCases := []struct {
		state    dtos.AlertState
		expected CloseAction
	}{
		{dtos.AlertStateFixed, CloseActionClose},
		{dtos.AlertStateDismissed, CloseActionClose},
		{dtos.AlertStateAutoDismissed, CloseActionClose},
		{dtos.AlertStateNotFound, CloseActionClose},
		{dtos.AlertStateOpen, CloseActionKeepOpen},
		{dtos.AlertStateUnknown, CloseActionKeepUnknown},
		{"reopened", CloseActionKeepUnknown},
		{"", CloseActionKeepUnknown},
	}

	for _, tc := range testCases {
		t.Run("should map "+string(tc.state)+" to "+string(tc.expected), func(t *testing.T) {
			assert.Equal(t, tc.expected, DecideCloseAction(tc.state))
		})
	}
}
