package storage

import "fmt"

// StorageError reports a failure opening the database, running the schema
// migration, or performing a read/write against it.
type StorageError struct {
	Kind    string
	Message string
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage error (%v): %v", e.Kind, e.Message)
}

func errf(kind, format string, args ...any) error {
	return StorageError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
