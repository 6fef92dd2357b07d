package store

import "errors"

// The four failure classes every store operation maps into. Handlers
// translate these to HTTP statuses with errors.Is; nothing below the
// store layer is retried automatically.
var (
	// ErrValidation - caller-supplied data violates a precondition.
	ErrValidation = errors.New("validation failed")

	// ErrConflict - uniqueness violation (cashier_name, receipt_id, code).
	ErrConflict = errors.New("conflict")

	// ErrNotFound - the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage - engine-level failure (disk, lock).
	ErrStorage = errors.New("storage error")
)
