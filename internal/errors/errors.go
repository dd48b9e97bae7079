// Package errors defines the error taxonomy of the dashboard and a few
// classification helpers.
//
// # Error Types
//
//   - LoadError: a store query failed; the working set is kept as it was
//   - UpdateError: a store mutation failed; the working set is untouched
//   - NotFoundError: the record addressed by a mutation does not exist
//   - ChannelError: the realtime transport failed; never fatal
//   - ValidationError: bad input from the CLI, config or HTTP API
//
// # Usage
//
//	err := errors.NewNotFoundError("client", "client-7")
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
//	var loadErr *errors.LoadError
//	if errors.As(err, &loadErr) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers need only this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Sentinel errors.
var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = New("not found")
	// ErrStaleResult marks a store response superseded by a newer request.
	ErrStaleResult = New("stale result")
	// ErrInvalidInput matches every ValidationError.
	ErrInvalidInput = New("invalid input")
)

// NotFoundError reports a record id absent from the store.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

// Is matches ErrNotFound and any other *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*NotFoundError)
	return ok
}

// LoadError wraps a failed query together with the filter that was asked for.
type LoadError struct {
	Filter string
	Err    error
}

// NewLoadError creates a LoadError.
func NewLoadError(filter string, err error) *LoadError {
	return &LoadError{Filter: filter, Err: err}
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load clients (%s): %v", e.Filter, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// UpdateError wraps a failed mutation of one record.
type UpdateError struct {
	ID  string
	Err error
}

// NewUpdateError creates an UpdateError.
func NewUpdateError(id string, err error) *UpdateError {
	return &UpdateError{ID: id, Err: err}
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update client %s: %v", e.ID, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// ChannelError describes a realtime transport failure.
type ChannelError struct {
	Op  string // "dial", "read", "decode", "close"
	URL string
	Err error
}

// NewChannelError creates a ChannelError.
func NewChannelError(op, url string, err error) *ChannelError {
	return &ChannelError{Op: op, URL: url, Err: err}
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("realtime %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("must be pending or confirmed").WithField("status").WithValue("done")
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// WithField names the offending field.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue records the rejected value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Value != nil:
		return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
	case e.Field != "":
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	default:
		return "invalid input: " + e.Message
	}
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsRetryable reports whether err is transient: loads and transport
// failures may succeed later, rejected mutations and bad input will not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var chErr *ChannelError
	if As(err, &chErr) {
		return true
	}
	if Is(err, ErrNotFound) || Is(err, ErrInvalidInput) {
		return false
	}
	var loadErr *LoadError
	return As(err, &loadErr)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}
