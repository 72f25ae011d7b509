package database

import "errors"

var (
	// ErrNotFound is returned by repositories when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when an optimistic update lost the race.
	ErrVersionConflict = errors.New("document was modified concurrently")
	// ErrOverlap is returned when a booking insert would overlap a blocking booking.
	ErrOverlap = errors.New("booking overlaps an existing booking")
)
