// Package sqlgraph classifies the constraint errors reported by the
// supported database drivers.
package sqlgraph

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/syssam/narrator"
)

// Violation is the kind of constraint a statement violated.
type Violation int

// Violation kinds.
const (
	NoViolation Violation = iota
	UniqueViolation
	ForeignKeyViolation
	CheckViolation
)

// String implements fmt.Stringer.
func (v Violation) String() string {
	switch v {
	case UniqueViolation:
		return "unique"
	case ForeignKeyViolation:
		return "foreign key"
	case CheckViolation:
		return "check"
	default:
		return "none"
	}
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// Classify reports which constraint err violated, if any.
func Classify(err error) Violation {
	if err == nil {
		return NoViolation
	}
	if e := (*pq.Error)(nil); errors.As(err, &e) {
		return pgViolation(string(e.Code))
	}
	if e := (*pgconn.PgError)(nil); errors.As(err, &e) {
		return pgViolation(e.Code)
	}
	if e := (*mysql.MySQLError)(nil); errors.As(err, &e) {
		switch e.Number {
		case mysqlDuplicateEntry:
			return UniqueViolation
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return ForeignKeyViolation
		case mysqlCheckConstraintViolate:
			return CheckViolation
		}
		return NoViolation
	}
	if e := (*sqlite.Error)(nil); errors.As(err, &e) {
		switch e.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return UniqueViolation
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ForeignKeyViolation
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return CheckViolation
		}
	}
	// Fallback to string matching for primary sqlite result codes and
	// drivers not linked above.
	msg := err.Error()
	switch {
	case containsAny(msg, "Error 1062", "violates unique constraint", "UNIQUE constraint failed"):
		return UniqueViolation
	case containsAny(msg, "Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"):
		return ForeignKeyViolation
	case containsAny(msg, "Error 3819", "violates check constraint", "CHECK constraint failed"):
		return CheckViolation
	}
	return NoViolation
}

func pgViolation(code string) Violation {
	switch code {
	case pgUniqueViolation:
		return UniqueViolation
	case pgForeignKeyViolation:
		return ForeignKeyViolation
	case pgCheckViolation:
		return CheckViolation
	}
	return NoViolation
}

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return narrator.IsConstraintError(err) || Classify(err) != NoViolation
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
func IsUniqueConstraintError(err error) bool {
	return Classify(err) == UniqueViolation
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
func IsForeignKeyConstraintError(err error) bool {
	return Classify(err) == ForeignKeyViolation
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool {
	return Classify(err) == CheckViolation
}

// Wrap converts constraint violations into narrator.ConstraintError and
// returns every other error unchanged.
func Wrap(err error) error {
	if v := Classify(err); v != NoViolation {
		return narrator.NewConstraintError(v.String()+" constraint violated", err)
	}
	return err
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
