package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput matches every ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemote matches every RemoteError.
	ErrRemote = errors.New("remote store error")

	// ErrCache matches every CacheError.
	ErrCache = errors.New("local cache error")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotLoaded is returned by mutations on a store whose Load has not run.
	ErrNotLoaded = errors.New("store not loaded")
)

// ValidationError is raised before any network call when a record is
// incomplete or its parent reference did not resolve.
type ValidationError struct {
	Resource ResourceType
	Field    string
	Message  string
}

func NewValidationError(resource ResourceType, field, message string) *ValidationError {
	return &ValidationError{Resource: resource, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: validation failed for field %s: %s", e.Resource, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: validation failed: %s", e.Resource, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RemoteError is a transport failure or a non-success response from the
// remote store.
type RemoteError struct {
	Op         string
	Resource   ResourceType
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s %s failed with status %d: %s", e.Op, e.Resource, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote %s %s failed: %v", e.Op, e.Resource, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	if target == ErrRemote {
		return true
	}
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// CacheError reports a failed read or write of the local cache.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func (e *CacheError) Is(target error) bool {
	return target == ErrCache
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRemote reports whether err is (or wraps) a RemoteError.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
