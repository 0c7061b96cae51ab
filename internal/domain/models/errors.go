package models

import "errors"

var (
	// ErrValidation marks malformed input rejected before any work is done
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup of an id that does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a storage collaborator that could not be reached
	ErrUnavailable = errors.New("data unavailable")
)
