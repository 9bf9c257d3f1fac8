// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package dtos

// DueDays configures after how many calendar days a ticket of the given severity is due.
// A zero value means "use the default".
type DueDays struct {
	Critical int `json:"critical" mapstructure:"critical-due-days"`
	High     int `json:"high" mapstructure:"high-due-days"`
	Medium   int `json:"medium" mapstructure:"medium-due-days"`
	Low      int `json:"low" mapstructure:"low-due-days"`
}
