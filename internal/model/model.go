// Package model contains the domain records read by the compliance engine and the
// summaries it produces. No persistence tags and no business logic live here.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValidationState is returned when a stored validation state is outside the closed set.
var ErrUnknownValidationState = errors.New("unknown validation state")

// ValidationState is the review state recorded for an uploaded document.
type ValidationState string

const (
	StatePending      ValidationState = "pending"
	StateCurrent      ValidationState = "current"
	StateExpiringSoon ValidationState = "expiring_soon"
	StateExpired      ValidationState = "expired"
	StateRejected     ValidationState = "rejected"
)

// stateAliases maps the labels used by site administration to the canonical states.
var stateAliases = map[string]ValidationState{
	"pending":       StatePending,
	"pendente":      StatePending,
	"current":       StateCurrent,
	"valid":         StateCurrent,
	"vigente":       StateCurrent,
	"expiring_soon": StateExpiringSoon,
	"vencendo":      StateExpiringSoon,
	"expired":       StateExpired,
	"vencido":       StateExpired,
	"rejected":      StateRejected,
	"rejeitado":     StateRejected,
}

// ParseValidationState converts a raw stored value into a ValidationState.
// Unknown values are rejected instead of defaulting to any state.
func ParseValidationState(raw string) (ValidationState, error) {
	s, ok := stateAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownValidationState, raw)
	}
	return s, nil
}

// Valid reports whether s is one of the canonical states.
func (s ValidationState) Valid() bool {
	switch s {
	case StatePending, StateCurrent, StateExpiringSoon, StateExpired, StateRejected:
		return true
	}
	return false
}

// UnmarshalText lets JSON and YAML decoding go through ParseValidationState.
func (s *ValidationState) UnmarshalText(b []byte) error {
	v, err := ParseValidationState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
