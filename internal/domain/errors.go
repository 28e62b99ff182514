package domain

import "errors"

var (
	// ErrNotFound signals a missing entity or related record.
	ErrNotFound = errors.New("not found")
	// ErrBadQuery signals an invalid search query string.
	ErrBadQuery = errors.New("bad query")
	// ErrUnknownIndex signals a request for an index type that does not exist.
	ErrUnknownIndex = errors.New("unknown index")
)
