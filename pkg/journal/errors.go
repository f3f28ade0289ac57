package journal

import (
	"errors"
	"fmt"
)

// ErrBufferFull is returned by Recorder.Record when the async buffer is
// full and the record was dropped.
var ErrBufferFull = errors.New("journal buffer full")

// ErrRecorderClosed is returned by Recorder.Record after Close.
var ErrRecorderClosed = errors.New("journal recorder closed")

// StorageError represents an error from a journal storage backend.
type StorageError struct {
	Backend   string // Backend type ("memory", "sqlite")
	Operation string // Operation that failed ("store", "query", "delete", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("journal storage error [backend=%s, operation=%s]: %v",
		e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
