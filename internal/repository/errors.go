// Package repository holds what the postgres and memory stores share.
package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a guarded write lost against another
	// one, e.g. renting a product someone just rented.
	ErrConflict = errors.New("conflicting write")
)
