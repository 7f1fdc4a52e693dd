package schema

import "github.com/google/uuid"

// Field names with a fixed meaning in table declarations.
const (
	// IDField is the identifier column every table carries.
	IDField = "ID"
	// DeletedField is the soft-delete flag of deletable tables.
	DeletedField = "IsDeleted"
	// CreatedField holds the row creation time of logged tables.
	CreatedField = "CreatedOn"
)

// TagName is the struct tag key read by the schema loader.
const TagName = "narrator"

// Table marks a struct as a table keyed by a UUID identifier.
type Table struct{}

// DeletableTable marks a table whose rows are removed logically by
// setting their IsDeleted flag.
type DeletableTable struct{ Table }

// Ref references a row of the table T by its identifier.
type Ref[T any] uuid.UUID

// NewRef returns a reference to the row of T identified by id.
func NewRef[T any](id uuid.UUID) Ref[T] { return Ref[T](id) }

// UUID returns the referenced identifier.
func (r Ref[T]) UUID() uuid.UUID { return uuid.UUID(r) }

// String implements fmt.Stringer.
func (r Ref[T]) String() string { return uuid.UUID(r).String() }
