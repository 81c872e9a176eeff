package types

import (
	"errors"
	"fmt"
)

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// Store operation errors.
var (
	ErrNotFound          = errors.New("object not found")
	ErrInvalidID         = errors.New("invalid object ID")
	ErrInvalidData       = errors.New("invalid object data")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidObjectType = errors.New("invalid object type")
	ErrTypeImmutable     = errors.New("object type cannot change")
	ErrNotComposite      = errors.New("object is not a composite")
)

// ValidationError reports a malformed or contradictory upsert request. It is
// raised before any write; a rejected request never mutates the database.
type ValidationError struct {
	ParentID int64  // parent whose portion of the request failed
	Field    string // field or constraint that failed
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upsert for parent %d: %s: %s", e.ParentID, e.Field, e.Reason)
}

// NotFoundError reports referenced object ids that do not exist.
type NotFoundError struct {
	IDs []int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("objects do not exist: %v", e.IDs)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ForbiddenError reports object ids the caller may not modify or delete.
type ForbiddenError struct {
	IDs []int64
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("modification forbidden for objects: %v", e.IDs)
}

// StorageError wraps a backing-store failure (constraint violation,
// connection failure) with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
