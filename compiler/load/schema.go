// Package load turns schema declarations into the resolved description the
// generator works on.
//
// Schemas come either from Go packages, loaded with golang.org/x/tools/go/packages
// (see [Config.Load]), or from a YAML or JSON document (see [ReadFile]).
package load

import (
	"fmt"
	"strings"
)

// Schema is the resolved symbol set of one generation run.
type Schema struct {
	// Namespace is the import path prefix the schema was resolved against.
	Namespace string    `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Tables    []*Table  `json:"tables" yaml:"tables"`
	Records   []*Record `json:"records,omitempty" yaml:"records,omitempty"`
	Enums     []*Enum   `json:"enums,omitempty" yaml:"enums,omitempty"`
}

// Table is a persisted record type.
type Table struct {
	// Name is the declared type name, e.g. "UserRolesTable".
	Name string `json:"name" yaml:"name"`
	// Package is the import path of the declaring package.
	Package string `json:"package" yaml:"package"`
	// SQLName overrides the SQL table name.
	SQLName string `json:"sql_name,omitempty" yaml:"sql_name,omitempty"`
	// Columns in declaration order.
	Columns []*Column `json:"columns" yaml:"columns"`
	// Deletable reports whether rows are deleted logically.
	Deletable bool `json:"deletable,omitempty" yaml:"deletable,omitempty"`
}

// Column is a declared property of a table or record.
type Column struct {
	// Name is the Go field name.
	Name string `json:"name" yaml:"name"`
	// ColumnName overrides the SQL column name.
	ColumnName string `json:"column,omitempty" yaml:"column,omitempty"`
	// Type is the resolved type of the property.
	Type *TypeRef `json:"type" yaml:"type"`
}

// Record is a named struct referenced from a column.
type Record struct {
	Name       string    `json:"name" yaml:"name"`
	Package    string    `json:"package" yaml:"package"`
	TypeParams []string  `json:"type_params,omitempty" yaml:"type_params,omitempty"`
	Fields     []*Column `json:"fields" yaml:"fields"`
}

// Enum is a named string type with declared constants.
type Enum struct {
	Name    string   `json:"name" yaml:"name"`
	Package string   `json:"package" yaml:"package"`
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Shape is the structural form of a TypeRef.
type Shape string

// Shapes.
const (
	ShapeBasic Shape = "basic" // predeclared type
	ShapeNamed Shape = "named" // declared type, possibly instantiated
	ShapeSlice Shape = "slice" // []Args[0]
	ShapeMap   Shape = "map"   // map[Args[0]]Args[1]
	ShapeParam Shape = "param" // type parameter
)

// Decl is the kind of declaration behind a named type.
type Decl string

// Declaration kinds.
const (
	DeclOther  Decl = ""       // anything the generator passes through
	DeclStruct Decl = "struct" // struct type
	DeclEnum   Decl = "enum"   // string type with declared constants
)

// TypeRef is a resolved type.
type TypeRef struct {
	Shape Shape `json:"shape" yaml:"shape"`
	// Name is the declaration name ("string", "UUID", "T"). Empty for
	// slices and maps.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Package is the declaring package of named types.
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	// Decl is the declaration kind of named types.
	Decl Decl `json:"decl,omitempty" yaml:"decl,omitempty"`
	// Nullable marks a pointer to the type.
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	// Args are the element types of slices and maps and the type arguments
	// of instantiated named types.
	Args []*TypeRef `json:"args,omitempty" yaml:"args,omitempty"`
}

// Basic returns the predeclared type name.
func Basic(name string) *TypeRef { return &TypeRef{Shape: ShapeBasic, Name: name} }

// Named returns a reference to the declared type pkg.name instantiated with args.
func Named(pkg, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeNamed, Package: pkg, Name: name, Args: args}
}

// Struct returns a reference to the struct type pkg.name instantiated with args.
func Struct(pkg, name string, args ...*TypeRef) *TypeRef {
	t := Named(pkg, name, args...)
	t.Decl = DeclStruct
	return t
}

// EnumOf returns a reference to the enumeration pkg.name.
func EnumOf(pkg, name string) *TypeRef {
	t := Named(pkg, name)
	t.Decl = DeclEnum
	return t
}

// SliceOf returns []elem.
func SliceOf(elem *TypeRef) *TypeRef { return &TypeRef{Shape: ShapeSlice, Args: []*TypeRef{elem}} }

// MapOf returns map[key]elem.
func MapOf(key, elem *TypeRef) *TypeRef {
	return &TypeRef{Shape: ShapeMap, Args: []*TypeRef{key, elem}}
}

// Param returns the type parameter name.
func Param(name string) *TypeRef { return &TypeRef{Shape: ShapeParam, Name: name} }

// Ptr returns a nullable copy of t.
func (t *TypeRef) Ptr() *TypeRef {
	c := *t
	c.Nullable = true
	return &c
}

// NonNull returns a non-nullable copy of t.
func (t *TypeRef) NonNull() *TypeRef {
	c := *t
	c.Nullable = false
	return &c
}

// Elem returns the element type of slices.
func (t *TypeRef) Elem() *TypeRef {
	if t.Shape == ShapeSlice && len(t.Args) == 1 {
		return t.Args[0]
	}
	return nil
}

// Is reports whether t is the named type pkg.name.
func (t *TypeRef) Is(pkg, name string) bool {
	return t != nil && t.Shape == ShapeNamed && t.Package == pkg && t.Name == name
}

// QualifiedName returns pkg.Name for named types and Name otherwise.
func (t *TypeRef) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// String returns the Go spelling of t with full package paths.
func (t *TypeRef) String() string {
	var b strings.Builder
	if t.Nullable {
		b.WriteByte('*')
	}
	switch t.Shape {
	case ShapeSlice:
		b.WriteString("[]")
		b.WriteString(t.Args[0].String())
	case ShapeMap:
		fmt.Fprintf(&b, "map[%s]%s", t.Args[0], t.Args[1])
	default:
		b.WriteString(t.QualifiedName())
		if len(t.Args) > 0 {
			b.WriteByte('[')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(a.String())
			}
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Validate checks the references of t for missing required input.
func (t *TypeRef) Validate() error {
	if t == nil {
		return fmt.Errorf("missing type")
	}
	switch t.Shape {
	case ShapeBasic, ShapeParam:
		if t.Name == "" {
			return fmt.Errorf("missing name for %s type", t.Shape)
		}
	case ShapeNamed:
		if t.Name == "" {
			return fmt.Errorf("missing name for named type")
		}
		if t.Package == "" {
			return fmt.Errorf("missing package qualifier for type %q", t.Name)
		}
	case ShapeSlice:
		if len(t.Args) != 1 {
			return fmt.Errorf("slice type needs one element type, got %d", len(t.Args))
		}
	case ShapeMap:
		if len(t.Args) != 2 {
			return fmt.Errorf("map type needs key and element types, got %d", len(t.Args))
		}
	default:
		return fmt.Errorf("unknown type shape %q", t.Shape)
	}
	for _, a := range t.Args {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Record returns the record declared as pkg.name, or nil.
func (s *Schema) Record(pkg, name string) *Record {
	for _, r := range s.Records {
		if r.Package == pkg && r.Name == name {
			return r
		}
	}
	return nil
}

// Enum returns the enum declared as pkg.name, or nil.
func (s *Schema) Enum(pkg, name string) *Enum {
	for _, e := range s.Enums {
		if e.Package == pkg && e.Name == name {
			return e
		}
	}
	return nil
}
