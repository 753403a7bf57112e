package simplenotes

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates neither a metadata row nor a blob exists for a name
	ErrNotFound = errors.New("file not found")

	// ErrRecordNotFound indicates a metadata row was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates a metadata row with the same name already exists
	ErrRecordExists = errors.New("record already exists")

	// ErrBlobNotFound indicates a blob was not found in the bucket
	ErrBlobNotFound = errors.New("object not found")

	// ErrTableMissing indicates the metadata table does not exist
	ErrTableMissing = errors.New("metadata table does not exist")

	// ErrColumnMissing indicates an optional metadata column does not exist
	ErrColumnMissing = errors.New("metadata column does not exist")

	// ErrInvalidRequest indicates a request failed validation
	ErrInvalidRequest = errors.New("invalid request")

	// ErrContentRequired indicates a save was attempted without content
	ErrContentRequired = errors.New("content cannot be empty")

	// ErrUploadFailed indicates a blob upload failed
	ErrUploadFailed = errors.New("upload failed")
)

// RecordError represents an error related to metadata operations
type RecordError struct {
	Name string
	Op   string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record operation %s failed for %s: %v", e.Op, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
