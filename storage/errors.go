package storage

import "errors"

var (
	// ErrNotFound is returned when a draft does not exist.
	ErrNotFound = errors.New("draft not found")

	// ErrInvalidID is returned for IDs not of the form "draft:<uuid>".
	ErrInvalidID = errors.New("invalid draft ID")
)
