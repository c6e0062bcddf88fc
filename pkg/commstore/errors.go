package commstore

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates an operation that requires an existing record was
	// given an unknown id.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable indicates the storage engine could not be opened.
	// It is fatal for the session; callers should degrade to an explicit
	// "storage unavailable" state.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrQuotaExceeded indicates a write was rejected for space.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// ValidationError reports a rejected input, naming the violated field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProcessingError reports an image decode or encode failure in the ingestion
// pipeline. Nothing is persisted when it is returned.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("image processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// EntityError wraps an error from an entity store operation with its context.
type EntityError struct {
	Collection string
	ID         int64
	Op         string
	Err        error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s operation %s failed for id %d: %v", e.Collection, e.Op, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// BlobError wraps an error from a blob store operation with its context.
type BlobError struct {
	ID  string
	Op  string
	Err error
}

func (e *BlobError) Error() string {
	return fmt.Sprintf("blob operation %s failed for %s: %v", e.Op, e.ID, e.Err)
}

func (e *BlobError) Unwrap() error {
	return e.Err
}
