package gen

import (
	"github.com/syssam/narrator/compiler/load"
)

// ModelDescriptor describes the model of a table or a nested record.
type ModelDescriptor struct {
	// Name is the model type name.
	Name string
	// Package is the import path of the model type. Table models live in
	// their DAO package; a nested record is its own model.
	Package string
	// TypeParams are the type parameter names of generic records.
	TypeParams []string
	// Fields in declaration order, the id first for table models.
	Fields []*ModelField
	// Table is the source table, or nil for nested records.
	Table *load.Table
	// Record is the source record, or nil for table models.
	Record *load.Record

	// rel is the package location shared by the DTO and converter trees.
	rel string
}

// Key returns the registry key of the model.
func (m *ModelDescriptor) Key() string { return m.Package + "." + m.Name }

// Top reports whether m is the model of a table.
func (m *ModelDescriptor) Top() bool { return m.Table != nil }

// source returns the declared name of the table or record behind m.
func (m *ModelDescriptor) source() string {
	switch {
	case m.Table != nil:
		return m.Table.Name
	case m.Record != nil:
		return m.Record.Name
	}
	return m.Name
}

// ModelField is a field of a model.
type ModelField struct {
	// Name is the Go field name.
	Name string
	// Column is the SQL column name. Empty for nested record fields.
	Column string
	// Type is the model type of the field.
	Type *load.TypeRef
	// Kind is the classified kind of Type.
	Kind Kind
}

// DtoDescriptor describes the DTO of a model. It is cached under the key
// of its model.
type DtoDescriptor struct {
	Name       string
	Package    string
	TypeParams []string
	Fields     []*DtoField
	// Top marks the DTO of a table model.
	Top   bool
	Model *ModelDescriptor
}

// Key returns the qualified name of the DTO type.
func (d *DtoDescriptor) Key() string { return d.Package + "." + d.Name }

// DtoField is a field of a DTO.
type DtoField struct {
	// Name is the Go field name, shared with the model field.
	Name string
	// Tag is the transport name used in json and msgpack tags.
	Tag string
	// Type is the substituted DTO type.
	Type *load.TypeRef
	Kind Kind
	// ToDto and ToModel convert the field between the two forms.
	ToDto, ToModel *Conv
	// Record is the nested record model the field references, directly or
	// as a collection element.
	Record *ModelDescriptor
}

// ConverterDescriptor holds the converter functions of one model/DTO pair.
type ConverterDescriptor struct {
	Package string
	Model   *ModelDescriptor
	Dto     *DtoDescriptor
	// ToDto and ToModel are the function names.
	ToDto, ToModel string
}
