package search

import "errors"

var (
	// ErrSuperseded is the failure reported for a request replaced by a newer one
	ErrSuperseded = errors.New("search: superseded by a newer query")
	// ErrClosed is returned once the pipeline has been closed
	ErrClosed = errors.New("search: pipeline closed")
)
