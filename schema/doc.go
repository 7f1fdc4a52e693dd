// Package schema provides the markers used to declare narrator tables.
//
// A table is a Go struct that embeds [Table] or [DeletableTable]. Every
// exported, non-embedded field of the struct is a column:
//
//	type UserRolesTable struct {
//	    schema.DeletableTable `narrator:"user_roles"`
//
//	    Name      string
//	    Role      Role                   // enumeration
//	    UserID    schema.Ref[UsersTable] // foreign key
//	    Address   *Address               // nested record, nullable
//	    CreatedOn time.Time
//	}
//
// The optional tag on the embedded marker overrides the SQL table name and a
// `narrator:"..."` tag on a column overrides its SQL column name.
//
// Columns named [DeletedField] and [CreatedField] are treated specially by
// the generator: the soft-delete flag never appears in generated code and the
// creation timestamp is always nullable in the generated model.
package schema
