package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoToolService indicates that no tool service was provided.
	ErrNoToolService = errors.New("tool service is required")
)
