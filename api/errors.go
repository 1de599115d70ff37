package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid amatino client configuration")
	// ErrInvalidMethod indicates an HTTP method the API does not accept
	ErrInvalidMethod = errors.New("invalid HTTP method")
	// ErrResourceNotFound indicates the API answered 404
	ErrResourceNotFound = errors.New("resource not found")
	// ErrInvalidResponse indicates response data did not have the expected shape
	ErrInvalidResponse = errors.New("invalid response data")
	// ErrConstraint indicates a value failed client-side validation
	ErrConstraint = errors.New("constraint violated")
	// ErrNotSerialisable indicates request data could not be encoded as JSON
	ErrNotSerialisable = errors.New("data is not JSON serialisable")
)

// APIError represents a non-2xx answer from the Amatino API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("amatino API error: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsServerError reports a 5xx status
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// ResourceNotFoundError is returned when the API answers 404.
type ResourceNotFoundError struct {
	Method string
	Path   string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s %s", e.Method, e.Path)
}

func (e *ResourceNotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// MissingKeyError is returned when a required key is absent from response data.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("expected key %q missing from response data", e.Key)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrInvalidResponse
}

// UnexpectedResponseTypeError is returned when response data, or the value
// of Key when set, has the wrong JSON type.
type UnexpectedResponseTypeError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *UnexpectedResponseTypeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("key %q: expected %s, received %s", e.Key, e.Expected, e.Actual)
	}
	return fmt.Sprintf("expected %s, received %s", e.Expected, e.Actual)
}

func (e *UnexpectedResponseTypeError) Unwrap() error {
	return ErrInvalidResponse
}

// ConstraintError is returned when a value falls outside its bounds. Bound
// is "maximum" or "minimum".
type ConstraintError struct {
	Name  string
	Bound string
	Limit int64
	Value any
	// Unit describes what Limit counts, "length" for strings or "value" for
	// integers.
	Unit string
}

func (e *ConstraintError) Error() string {
	if e.Bound == boundMinimum {
		return fmt.Sprintf("%s below minimum %s of %d", e.Name, e.Unit, e.Limit)
	}
	return fmt.Sprintf("%s exceeds maximum %s of %d", e.Name, e.Unit, e.Limit)
}

func (e *ConstraintError) Unwrap() error {
	return ErrConstraint
}

const (
	boundMinimum = "minimum"
	boundMaximum = "maximum"
)

// IsNotFound reports whether err is, or wraps, a 404 from the API
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsUnauthorized reports whether err wraps a 401 or 403 from the API
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsUnauthorized()
	}
	return false
}
