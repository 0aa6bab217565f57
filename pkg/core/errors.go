package core

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryExecution matches every *QueryExecutionError.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")
)

// QueryExecutionError reports a failure of the content store while counting
// or fetching a set. It is never turned into an empty result.
type QueryExecutionError struct {
	// Op is "count" or "select".
	Op          string
	ContentType string
	Err         error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("%s query for %q: %v", e.Op, e.ContentType, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

func (e *QueryExecutionError) Is(target error) bool { return target == ErrQueryExecution }

// ConfigurationError reports options or settings that make a request
// impossible to serve correctly, like a list view without a page size.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError is a small helper for building configuration errors.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
