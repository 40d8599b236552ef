// Package apperr defines sentinel errors shared across packages.
package apperr

import "errors"

var (
	// ErrNotFound is returned when a post or category does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFrontMatter is returned when an article header cannot be used.
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	// ErrDuplicateSlug is returned when two sources map to the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrNoCollection is returned before the first successful load.
	ErrNoCollection = errors.New("collection not loaded")
	// ErrInvalidRequest is returned for malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
)
