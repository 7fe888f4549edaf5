package domain

import "errors"

// Validation errors surfaced to the admin when a working set cannot be saved.
var (
	ErrTitleRequired      = errors.New("promotion title is required")
	ErrURLRequired        = errors.New("promotion url is required")
	ErrTitleTooLong       = errors.New("promotion title exceeds maximum length")
	ErrURLTooLong         = errors.New("promotion url exceeds maximum length")
	ErrDescriptionTooLong = errors.New("promotion description exceeds maximum length")
	ErrTooManyQueries     = errors.New("promotion has too many trigger queries")
)

// ErrEmptyQuery rejects a search submission whose query is empty after
// trimming. It is a no-op from the user's perspective.
var ErrEmptyQuery = errors.New("empty search query")
