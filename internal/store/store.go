// Package store holds the error contract shared by all repositories.
package store

import "errors"

// ErrNotFound is returned by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update would violate a
// uniqueness constraint.
var ErrConflict = errors.New("conflict")
