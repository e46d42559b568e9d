// Package repository implements data access over MySQL. Sentinel errors
// let handlers distinguish failure kinds without inspecting SQL errors:
// ErrNotFound maps to 404, ErrConflict to 409. Authorization failures are
// not decided here; ownership is checked by the access package against the
// owner id these repositories return.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a uniqueness constraint rejects a write,
// e.g. registering an email twice.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062 on a UNIQUE index).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
