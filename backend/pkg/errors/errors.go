package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents input validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents missing-entity errors
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeRelationship represents relationship maintenance errors
	ErrorTypeRelationship ErrorType = "relationship"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category returns the error's type; promoted through every embedding error
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ValidationError is returned when one or more person field constraints are
// violated. It carries every violation found, not just the first.
type ValidationError struct {
	*BaseError
	Violations []string
}

func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{
		BaseError:  NewBaseError(ErrorTypeValidation, fmt.Sprintf("validation failed: %s", strings.Join(violations, ", ")), nil),
		Violations: violations,
	}
}

// InvalidIDError is returned when an identifier is not a canonical UUID v4.
// It is raised before any store access.
type InvalidIDError struct {
	*BaseError
	ID     string
	Reason string
}

func NewInvalidIDError(id, reason string) *InvalidIDError {
	return &InvalidIDError{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid id: %s", reason), nil),
		ID:        id,
		Reason:    reason,
	}
}

// NoOpUpdateError is returned when an update call supplies no recognized fields
type NoOpUpdateError struct {
	*BaseError
	PersonID string
}

func NewNoOpUpdateError(personID string) *NoOpUpdateError {
	return &NoOpUpdateError{
		BaseError: NewBaseError(ErrorTypeValidation, "no fields to update", nil),
		PersonID:  personID,
	}
}

// Not-Found Errors

// PersonNotFoundError is returned when a referenced person does not exist.
// Side names which argument of a relationship mutation failed to resolve
// ("child" or "parent"); it is empty for single-person operations.
type PersonNotFoundError struct {
	*BaseError
	PersonID string
	Side     string
}

func NewPersonNotFound(personID string) *PersonNotFoundError {
	return &PersonNotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("person not found: %s", personID), nil),
		PersonID:  personID,
	}
}

func NewRelativeNotFound(personID, side string) *PersonNotFoundError {
	return &PersonNotFoundError{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", side, personID), nil),
		PersonID:  personID,
		Side:      side,
	}
}

// Relationship Errors

// SelfParentError is returned when child and parent identifiers are identical
type SelfParentError struct {
	*BaseError
	PersonID string
}

func NewSelfParentError(personID string) *SelfParentError {
	return &SelfParentError{
		BaseError: NewBaseError(ErrorTypeRelationship, "a person cannot be their own parent", nil),
		PersonID:  personID,
	}
}

// InvalidRelationshipError is returned for an unrecognized relationship type
type InvalidRelationshipError struct {
	*BaseError
	RelType string
}

func NewInvalidRelationship(relType string) *InvalidRelationshipError {
	return &InvalidRelationshipError{
		BaseError: NewBaseError(ErrorTypeRelationship, fmt.Sprintf("invalid relationship type: %s", relType), nil),
		RelType:   relType,
	}
}

// Graph Errors

// GraphConnectionError is returned when the Neo4j connection fails
type GraphConnectionError struct {
	*BaseError
	URI string
}

func NewGraphConnectionError(uri string, err error) *GraphConnectionError {
	return &GraphConnectionError{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// GraphQueryError is returned when a store operation fails. Operation carries
// the failing operation's name so callers always see wrapped context rather
// than a bare driver error.
type GraphQueryError struct {
	*BaseError
	Operation string
}

func NewGraphQueryError(operation string, err error) *GraphQueryError {
	return &GraphQueryError{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ConfigMissingRequiredError is returned when a required config value is missing
type ConfigMissingRequiredError struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ConfigMissingRequiredError {
	return &ConfigMissingRequiredError{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type anywhere in its chain
func IsErrorType(err error, errType ErrorType) bool {
	var categorized interface{ Category() ErrorType }
	if errors.As(err, &categorized) {
		return categorized.Category() == errType
	}
	return false
}
