// Package common defines shared constants and sentinel errors used across
// the repositories, services and CLI of expedientes. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorReferenced    = errors.New("referenced by registros")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrNoFieldsToUpdate is returned by the allow-listed update builders
	// when no sanctioned field was set.
	ErrNoFieldsToUpdate = errors.New("no hay campos válidos para actualizar")

	// ErrMissingSheets is matched by the workbook pre-flight error.
	ErrMissingSheets = errors.New("missing required sheets")
)
