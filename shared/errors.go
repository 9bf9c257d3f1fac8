// Copyright 2025 l3montree GmbH.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidInput         = errors.New("invalid input")
	ErrTransport            = errors.New("transport error")
	ErrTransitionNotFound   = errors.New("transition not available")
)

// ConfigurationError is fatal. It is detected before any alert is processed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %q: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func NewConfigurationError(field string, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// ValidationError is returned if an identifier is not safe to be interpolated into a query.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q contains unsafe characters", e.Field, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status code %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

type TransitionNotAvailableError struct {
	TicketKey string
	Requested string
	Available []string
}

func (e *TransitionNotAvailableError) Error() string {
	return fmt.Sprintf("transition %q is not available for %s. Available transitions: [%s]", e.Requested, e.TicketKey, strings.Join(e.Available, ", "))
}

func (e *TransitionNotAvailableError) Is(target error) bool {
	return target == ErrTransitionNotFound
}
