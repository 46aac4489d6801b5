package domain

import "errors"

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrInvalidMonth  = errors.New("invalid month")
)
