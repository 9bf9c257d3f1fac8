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
	"github.com/l3montree-dev/dependabot-jira-sync/dtos"
)

type AlertAction string

const (
	AlertActionCreate AlertAction = "CREATE"
	AlertActionUpdate AlertAction = "UPDATE"
	AlertActionSkip   AlertAction = "SKIP"
)

type CloseAction string

const (
	CloseActionClose       CloseAction = "CLOSE"
	CloseActionKeepOpen    CloseAction = "KEEP_OPEN"
	CloseActionKeepUnknown CloseAction = "KEEP_UNKNOWN"
)

// DecideAlertAction decides what happens to an alert which passed the severity filter.
// An alert without ticket is always created, dismissed or not.
func DecideAlertAction(existing *dtos.Ticket, updateExisting bool) AlertAction {
	if existing == nil {
		return AlertActionCreate
	}
	if updateExisting {
		return AlertActionUpdate
	}
	return AlertActionSkip
}

// DecideCloseAction decides what happens to an open tracked ticket given the current state of its alert.
// Only states which are known to be resolved close the ticket.
func DecideCloseAction(state dtos.AlertState) CloseAction {
	switch state {
	case dtos.AlertStateFixed, dtos.AlertStateDismissed, dtos.AlertStateAutoDismissed, dtos.AlertStateNotFound:
		return CloseActionClose
	case dtos.AlertStateOpen:
		return CloseActionKeepOpen
	default:
		return CloseActionKeepUnknown
	}
}
