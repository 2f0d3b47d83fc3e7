package services

import "fmt"

// Domain error kinds. Handlers pick the HTTP status with errors.As; the
// services never translate or swallow these.

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// ReferenceError reports input that points at a nonexistent client/product.
type ReferenceError struct {
	Entity string
	ID     uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

// NotFoundError reports an operation targeting a row that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// StorageError wraps an underlying persistence failure. The whole logical
// operation may be retried by the caller, never a sub-step.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
