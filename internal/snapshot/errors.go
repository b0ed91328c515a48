package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any NotFoundError via errors.Is.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidName is returned for empty names or names that are not a plain file stem.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// NotFoundError reports a snapshot name that is not in the store.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snapshot %q not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError reports stored content that the store's decoder rejected.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("snapshot %q is not valid tabular text: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps filesystem failures unrelated to content (permissions, disk full, ...).
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("snapshot storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("snapshot storage %s %q failed: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
