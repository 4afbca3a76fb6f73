// Package common defines shared constants and sentinel errors used across
// the inkfeed client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Gateway classification errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")

	// Flow-control errors.
	ErrInvalidState         = errors.New("invalid state")
	ErrConfirmationRequired = errors.New("confirmation required")
)
