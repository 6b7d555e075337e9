// Package repository defines error values shared across the data
// gateways. These sentinels let handlers distinguish failure classes
// without inspecting driver errors. ErrConflict marks an optimistic
// concurrency collision and maps to 409 after the handler has
// re-checked the row; ErrNotFound maps to 404; ErrInvalidRef marks a
// broken foreign key on insert and maps to 400. Ownership violations
// never surface as errors: handlers compare ids on rows they already
// loaded and answer 403 directly.
package repository

import "errors"

// ErrConflict is returned when a versioned save matched no row
// because the row changed since it was read. The caller must re-fetch
// and decide between "already handled" and a retry-able conflict.
var ErrConflict = errors.New("concurrent update conflict")

// ErrNotFound is returned when the requested row does not exist or is
// soft-deleted.
var ErrNotFound = errors.New("not found")

// ErrInvalidRef is returned when an insert references a missing
// restaurant, customer or product.
var ErrInvalidRef = errors.New("invalid reference")

// ErrEmailExists is returned when registration collides with an
// existing account.
var ErrEmailExists = errors.New("email already exists")
