package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrInvalidArgument indicates the database rejected the write.
var ErrInvalidArgument = errors.New("repository: invalid argument")

// ErrNoRowReturned indicates an insert that should have returned the created
// row returned nothing. This is an invariant violation, never retried.
var ErrNoRowReturned = errors.New("repository: insert returned no row")
