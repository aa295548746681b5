// Package apperr defines the sentinel errors shared across service boundaries.
// Services wrap these with context via fmt.Errorf("%w: ...") and the HTTP
// facade maps them to status codes with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
