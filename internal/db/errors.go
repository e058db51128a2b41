package db

import "fmt"

// PersistenceError represents a failed transactional upsert or query.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persistence failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persistence failed: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
