package domain

import (
	"errors"
	"fmt"
)

// Category sentinels - use with errors.Is() when the caller only cares about
// the class of failure (handlers mapping to HTTP statuses, retry policy).
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Condition is a named domain error that also matches its category sentinel
// via errors.Is. Services match the specific condition; handlers keep
// matching the broad category.
type Condition struct {
	msg      string
	category error
}

// Error implements the error interface
func (c *Condition) Error() string { return c.msg }

// Is allows errors.Is() to match both the condition itself and its category
func (c *Condition) Is(target error) bool {
	return target == error(c) || target == c.category
}

// Named conditions for the document subsystem.
var (
	ErrProjectNotFound  = &Condition{msg: "project not found", category: ErrNotFound}
	ErrDocumentNotFound = &Condition{msg: "document not found", category: ErrNotFound}
	ErrParentNotFound   = &Condition{msg: "parent document not found", category: ErrNotFound}
	ErrUserNotFound     = &Condition{msg: "user not found", category: ErrNotFound}
	ErrInvalidPath      = &Condition{msg: "invalid document path", category: ErrValidation}
	ErrDuplicatePath    = &Condition{msg: "document path already exists", category: ErrConflict}
	ErrDuplicateSlug    = &Condition{msg: "sibling with the same slug already exists", category: ErrConflict}
	ErrDuplicateProject = &Condition{msg: "project slug already exists", category: ErrConflict}
	ErrPermissionDenied = &Condition{msg: "permission denied", category: ErrForbidden}
)

// ConflictError carries details about the resource a create collided with,
// so handlers can point the client at the existing row.
type ConflictError struct {
	Message      string
	ResourceType string // document, project
	ResourceID   string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError builds a ConflictError for an existing resource.
func NewConflictError(resourceType, resourceID, format string, args ...interface{}) *ConflictError {
	return &ConflictError{
		Message:      fmt.Sprintf(format, args...),
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}
