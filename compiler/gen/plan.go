package gen

import (
	"path/filepath"
)

// Location places a generated file.
type Location struct {
	// Package is the import path of the file's package.
	Package string
	// Name is the package name.
	Name string
	// Dir is the directory relative to the target.
	Dir string
	// File is the file name.
	File string
	// Header is the comment at the top of the file.
	Header string
	// Imports are the packages the file references, in the order the
	// emitter met them.
	Imports *ImportSet
}

// Loc returns l. It makes every plan a Plan.
func (l *Location) Loc() *Location { return l }

// Path returns the file path relative to the target.
func (l *Location) Path() string { return filepath.Join(l.Dir, l.File) }

// Plan is the renderer-neutral content of one generated file.
type Plan interface {
	Loc() *Location
}

// ModelPlan declares the model struct of a table and its GetID accessor.
type ModelPlan struct {
	Location
	Model *ModelDescriptor
}

// DaoPlan declares the DAO of a table: the DAO struct, its constructor, the
// table metadata and the row mapping methods.
type DaoPlan struct {
	Location
	Model *ModelDescriptor
	// Name is the DAO type name.
	Name string
	// TableVar is the name of the table metadata variable.
	TableVar string
	// SQLName is the SQL table name.
	SQLName string
	// Deletable selects the base DAO with the logical delete.
	Deletable bool
	// Logged reports whether the table has a creation timestamp.
	Logged bool
	// Columns in select order, the id first.
	Columns []*DaoColumn
}

// DaoColumn maps a model field onto a table column.
type DaoColumn struct {
	Field  string
	Column string
	// JSON stores the value as a JSON document.
	JSON bool
	// Write marks the columns set by ToStatement. The id and the creation
	// timestamp are managed by the base DAO.
	Write bool
}

// DtoPlan declares one DTO struct.
type DtoPlan struct {
	Location
	Dto *DtoDescriptor
}

// ConverterPlan declares the two converter functions of a model/DTO pair.
type ConverterPlan struct {
	Location
	Converter *ConverterDescriptor
}

// Renderer turns plans into source text.
type Renderer interface {
	Render(p Plan) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Plan) ([]byte, error)

// Render calls f(p).
func (f RendererFunc) Render(p Plan) ([]byte, error) { return f(p) }
