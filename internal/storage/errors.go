package storage

import "fmt"

// StorageError wraps a failed blob operation with its key for context.
type StorageError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage %s %q", e.Op, e.Key)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// InvalidUploadError rejects a file before it ever reaches a backend.
type InvalidUploadError struct {
	Reason string
}

func (e *InvalidUploadError) Error() string {
	return "invalid upload: " + e.Reason
}
