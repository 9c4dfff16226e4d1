package splice

import "errors"

// Errors returned by splice operations.
var (
	// ErrOverlap is returned when a registration's start offset falls inside
	// an already-registered replacement's range.
	ErrOverlap = errors.New("splice overlaps an existing splice")

	// ErrOutOfRange is returned when an offset pair does not satisfy
	// 0 <= start <= end <= len(source).
	ErrOutOfRange = errors.New("offset out of range")
)
