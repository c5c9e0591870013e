package interfaces

import "errors"

var (
	// ErrNotFound is returned when no document matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrConflict is returned when a conditional update matched nothing
	// because the document is no longer in the expected state.
	ErrConflict = errors.New("state conflict")
)
