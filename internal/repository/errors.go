// Package repository implements the data-access layer: one repository per
// aggregate, raw parameterized SQL over an injected *sql.DB. Sentinel errors
// defined here let handlers translate storage outcomes into the API's error
// taxonomy without leaking raw engine text.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist under the caller's
// account scope. Ownership failures map to the same value on purpose:
// a row belonging to someone else must be indistinguishable from a row
// that does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a uniqueness rule is violated, such as a
// taken username or a property duplicated by name and utility number.
var ErrDuplicate = errors.New("duplicate")

// ErrNotCompleted is returned when deleting a maintenance request that has
// not reached completed status.
var ErrNotCompleted = errors.New("request not completed")

// ErrShareExpired is returned when a data-share token exists but is past
// its expiry. Handlers render it identically to an unknown token.
var ErrShareExpired = errors.New("share expired")
