// Package errors provides custom error types for cadist.
package errors

import (
	"errors"
	"fmt"
)

// CadistError is a custom error type that provides context about operations.
type CadistError struct {
	Op   string // Operation being performed (e.g., "fetch release descriptor")
	Path string // File path or URL involved
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *CadistError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *CadistError) Unwrap() error {
	return e.Err
}

// Predefined errors for common scenarios.
var (
	ErrNotFound              = fmt.Errorf("resource not found")
	ErrStaleSource           = fmt.Errorf("source file older than maximum age")
	ErrDescriptorIncomplete  = fmt.Errorf("descriptor missing alias, version or fingerprint")
	ErrUnparsableFingerprint = fmt.Errorf("fingerprint output not recognized")
)

// IsError checks if the given error matches the target error using errors.Is.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
