package models

import (
	"errors"
	"fmt"
)

// Kind names a record type. The value doubles as the URL collection name.
type Kind string

const (
	KindUser  Kind = "users"
	KindOrder Kind = "orders"
	KindOffer Kind = "offers"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is wrapped by every storage constraint violation.
var ErrConflict = errors.New("constraint violation")

// Constraint names reported in ConstraintError.
const (
	ConstraintUniqueEmail = "unique_email"
	ConstraintReference   = "reference"
)

// ConstraintError describes a write rejected by a storage constraint.
type ConstraintError struct {
	Constraint string
	Field      string
	Detail     string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Constraint, e.Detail)
}

func (e *ConstraintError) Unwrap() error { return ErrConflict }

// DuplicateEmail builds the error returned when a user email is taken.
func DuplicateEmail(email string) *ConstraintError {
	return &ConstraintError{
		Constraint: ConstraintUniqueEmail,
		Field:      "email",
		Detail:     fmt.Sprintf("email %q is already registered", email),
	}
}

// MissingReference builds the error returned when a field points at a
// record that does not exist.
func MissingReference(field string, kind Kind, id int64) *ConstraintError {
	return &ConstraintError{
		Constraint: ConstraintReference,
		Field:      field,
		Detail:     fmt.Sprintf("%s %d does not exist", kind, id),
	}
}
