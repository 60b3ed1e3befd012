package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("status guard conflict")
)
