package narrator

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrNotFound   = errors.New("narrator: row not found")
	ErrConstraint = errors.New("narrator: constraint failed")
)

// NotFoundError is returned by the DAO getters when no row has the
// requested identifier.
type NotFoundError struct {
	Table string
	ID    any // nil when the lookup was not by identifier
}

// NewNotFoundError returns a NotFoundError for a lookup of id in table.
func NewNotFoundError(table string, id any) *NotFoundError {
	return &NotFoundError{Table: table, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return "narrator: " + e.Table + " not found"
	}
	return fmt.Sprintf("narrator: %s not found (id=%v)", e.Table, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// ConstraintError is a write rejected by a unique, foreign key or check
// constraint.
type ConstraintError struct {
	msg string
	err error
}

// NewConstraintError returns a ConstraintError described by msg and caused
// by err.
func NewConstraintError(msg string, err error) error {
	return &ConstraintError{msg: msg, err: err}
}

func (e *ConstraintError) Error() string        { return "narrator: constraint failed: " + e.msg }
func (e *ConstraintError) Unwrap() error        { return e.err }
func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// IsConstraintError reports whether err is or wraps a ConstraintError.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// OpError is a failed DAO operation on a table. Op names the DAO call
// ("get", "list", "count", "create", "update", "delete").
type OpError struct {
	Table string
	Op    string
	Write bool
	Err   error
}

// NewQueryError returns an OpError for a failed read.
func NewQueryError(table, op string, err error) *OpError {
	return &OpError{Table: table, Op: op, Err: err}
}

// NewMutationError returns an OpError for a failed write.
func NewMutationError(table, op string, err error) *OpError {
	return &OpError{Table: table, Op: op, Write: true, Err: err}
}

func (e *OpError) Error() string {
	switch {
	case e.Write:
		return fmt.Sprintf("narrator: %s %s: %v", e.Op, e.Table, e.Err)
	case e.Op == "":
		return fmt.Sprintf("narrator: querying %s: %v", e.Table, e.Err)
	default:
		return fmt.Sprintf("narrator: querying %s (%s): %v", e.Table, e.Op, e.Err)
	}
}

func (e *OpError) Unwrap() error { return e.Err }

// IsMutationError reports whether err wraps a failed write.
func IsMutationError(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Write
}
