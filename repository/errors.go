// Package repository holds the sqlx-backed Group and Student repositories.
package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Error kinds, checked with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

// Error carries a client-facing Message alongside the kind and the optional
// underlying storage error.
type Error struct {
	Entity  string // "group" или "student"
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Entity, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Entity, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

func (e *Error) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

func newError(entity, op string, kind error, message string) *Error {
	return &Error{Entity: entity, Op: op, Kind: kind, Message: message}
}

func wrapError(entity, op string, kind error, message string, err error) *Error {
	return &Error{Entity: entity, Op: op, Kind: kind, Message: message, Err: err}
}

func groupNotFound(op string, id int64) *Error {
	return newError("group", op, ErrNotFound, fmt.Sprintf("Group with id %d not found", id))
}

func studentNotFound(op string, id int64) *Error {
	return newError("student", op, ErrNotFound, fmt.Sprintf("Student with id %d not found", id))
}

func missingGroup(entity, op string, id *int64) *Error {
	if id == nil {
		return newError(entity, op, ErrBadRequest, "Group with id null does not exist")
	}
	return newError(entity, op, ErrBadRequest, fmt.Sprintf("Group with id %d does not exist", *id))
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

// Message returns the client-facing message of a repository error, or ""
// when err did not come from this package.
func Message(err error) string {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr.Message
	}
	return ""
}
