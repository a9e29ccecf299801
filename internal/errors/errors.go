// Package errors defines the pipeline error taxonomy.
//
// Loader and schema failures are fatal for the whole run; training
// failures are fatal only for their partition. The predicates below are
// what the pipeline uses to decide between the two.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a pipeline error.
type ErrorType string

const (
	// ErrTypeSchema marks malformed input shape (missing or renamed
	// columns). Aborts the run before any export.
	ErrTypeSchema ErrorType = "SCHEMA_ERROR"

	// ErrTypeParse marks a non-numeric value in a numeric column.
	ErrTypeParse ErrorType = "TYPE_ERROR"

	// ErrTypeIntegrity marks duplicate keys, out-of-range values, series
	// gaps, address collisions, or index/artifact-set mismatches. Fatal.
	ErrTypeIntegrity ErrorType = "INTEGRITY_ERROR"

	// ErrTypeInsufficientData marks a training partition with fewer rows
	// than the configured minimum. Skips that partition only.
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"

	// ErrTypeValidation marks an engineered invariant violation, such as
	// importances not summing to ~1.0. Fatal for the partition.
	ErrTypeValidation ErrorType = "VALIDATION_FAILED"

	// ErrTypeStorage marks filesystem failures while exporting.
	ErrTypeStorage ErrorType = "STORAGE_ERROR"
)

// PipelineError is the application error carried through every stage.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for logging.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error.
func New(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewSchemaError creates a malformed-input-shape error.
func NewSchemaError(message string, cause error) *PipelineError {
	return New(ErrTypeSchema, message, cause)
}

// NewParseError creates a non-numeric-value error.
func NewParseError(message string, cause error) *PipelineError {
	return New(ErrTypeParse, message, cause)
}

// NewIntegrityError creates a data or address integrity error.
func NewIntegrityError(message string, cause error) *PipelineError {
	return New(ErrTypeIntegrity, message, cause)
}

// NewInsufficientDataError creates a too-few-samples error for one
// training partition.
func NewInsufficientDataError(message string, cause error) *PipelineError {
	return New(ErrTypeInsufficientData, message, cause)
}

// NewValidationError creates an invariant-violation error.
func NewValidationError(message string, cause error) *PipelineError {
	return New(ErrTypeValidation, message, cause)
}

// NewStorageError creates a filesystem error.
func NewStorageError(message string, cause error) *PipelineError {
	return New(ErrTypeStorage, message, cause)
}

// TypeOf returns the error type of err, or "" when err is not a
// PipelineError.
func TypeOf(err error) ErrorType {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ""
}

// Is reports whether err carries the given pipeline error type.
func Is(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// IsSchemaError reports whether err is a SCHEMA_ERROR.
func IsSchemaError(err error) bool { return Is(err, ErrTypeSchema) }

// IsParseError reports whether err is a TYPE_ERROR.
func IsParseError(err error) bool { return Is(err, ErrTypeParse) }

// IsIntegrityError reports whether err is an INTEGRITY_ERROR.
func IsIntegrityError(err error) bool { return Is(err, ErrTypeIntegrity) }

// IsInsufficientData reports whether err is an INSUFFICIENT_DATA error.
func IsInsufficientData(err error) bool { return Is(err, ErrTypeInsufficientData) }

// IsValidationError reports whether err is a VALIDATION_FAILED error.
func IsValidationError(err error) bool { return Is(err, ErrTypeValidation) }

// IsPartitionError reports whether err only degrades a single training
// partition rather than aborting the run.
func IsPartitionError(err error) bool {
	t := TypeOf(err)
	return t == ErrTypeInsufficientData || t == ErrTypeValidation
}
