package db

import "fmt"

// NotFoundError indicates the requested row does not exist.
type NotFoundError struct {
	Kind string // "prp" or "task"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StorageError wraps a database failure. Error() carries only the attempted
// operation; the driver error stays behind Unwrap so logs can see it but
// callers never leak connection strings or driver internals.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("database operation failed: %s", e.Op)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
