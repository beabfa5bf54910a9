package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	// Updates and deletes that affect zero rows also map here, so a record
	// removed by another session is treated as already gone.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned on uniqueness violations, e.g. two
	// neighborhoods whose names collide after normalization.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid name or password")

	// ErrForbidden is returned when an authenticated caller tries to reach
	// another courier's data.
	ErrForbidden = errors.New("access denied")

	// ErrValidation is returned when input fails a domain rule before any
	// store call is made.
	ErrValidation = errors.New("validation failed")
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}
