package gen

import (
	"strings"

	"github.com/syssam/narrator/compiler/load"
	"github.com/syssam/narrator/dao"
	"github.com/syssam/narrator/schema"
)

// model derives the model descriptor of t and emits its model and DAO
// plans. A table whose model is already registered emits nothing.
func (r *run) model(t *load.Table) (*ModelDescriptor, error) {
	if err := validateTable(t); err != nil {
		return nil, err
	}
	name, err := r.names.ModelName(t.Name)
	if err != nil {
		return nil, err
	}
	rel := daoPackage(r.cfg.Namespace, t)
	dst := r.cfg.dest(r.cfg.DaoDir, rel)

	m, created := r.reg.Models.getOrCreate(dst.Path+"."+name, func() *ModelDescriptor {
		return &ModelDescriptor{Name: name, Package: dst.Path, Table: t, rel: rel}
	})
	if !created {
		r.log.Debug("model already generated", "table", t.Name, "model", m.Key())
		return m, nil
	}

	id := &ModelField{
		Name:   schema.IDField,
		Column: dao.IDColumn,
		Type:   load.Named(uuidPkg, "UUID").Ptr(),
		Kind:   KindIdentifier,
	}
	m.Fields = append(m.Fields, id)
	for _, c := range t.Columns {
		switch c.Name {
		case schema.DeletedField:
			continue
		case schema.IDField:
			if Classify(c.Type) != KindIdentifier {
				return nil, NewSchemaError(t.Name, c.Name, "identifier must be a uuid.UUID or schema.Ref", nil)
			}
			continue
		}
		typ := modelType(c.Type)
		column := ColumnName(c)
		if c.Name == schema.CreatedField {
			typ = typ.Ptr()
			column = dao.CreatedColumn
		}
		m.Fields = append(m.Fields, &ModelField{
			Name:   c.Name,
			Column: column,
			Type:   typ,
			Kind:   Classify(typ),
		})
	}

	loc := r.location(dst, fileName(name, ""))
	for _, f := range m.Fields {
		loc.Imports.AddType(f.Type)
	}
	r.emit(&ModelPlan{Location: loc, Model: m})
	r.emit(r.daoPlan(dst, m))
	return m, nil
}

// daoPlan builds the DAO plan of the table model m.
func (r *run) daoPlan(dst destination, m *ModelDescriptor) *DaoPlan {
	t := m.Table
	daoName := DaoName(t.Name)
	loc := r.location(dst, fileName(daoName, ""))
	loc.Imports.Add(daoPkg)
	loc.Imports.Add(dialPkg)
	p := &DaoPlan{
		Location:  loc,
		Model:     m,
		Name:      daoName,
		TableVar:  lowerFirst(strings.TrimSuffix(t.Name, tableSuffix)) + tableSuffix,
		SQLName:   TableSQLName(t),
		Deletable: t.Deletable,
	}
	for _, f := range m.Fields {
		if f.Name == schema.CreatedField {
			p.Logged = true
		}
		p.Columns = append(p.Columns, &DaoColumn{
			Field:  f.Name,
			Column: f.Column,
			JSON:   storedAsJSON(f.Type, f.Kind),
			Write:  f.Name != schema.IDField && f.Name != schema.CreatedField,
		})
	}
	return p
}

// storedAsJSON reports whether a column of type t is kept as a JSON document.
func storedAsJSON(t *load.TypeRef, k Kind) bool {
	return k == KindCollection || k == KindRecord || t.Shape == load.ShapeMap
}

// recordModel derives the model descriptor of a nested record. The record
// is its own model, so no plan is emitted.
func (r *run) recordModel(rec *load.Record) (*ModelDescriptor, error) {
	m, created := r.reg.Models.getOrCreate(rec.Package+"."+rec.Name, func() *ModelDescriptor {
		return &ModelDescriptor{
			Name:       rec.Name,
			Package:    rec.Package,
			TypeParams: rec.TypeParams,
			Record:     rec,
			rel:        relPackage(r.cfg.Namespace, rec.Package),
		}
	})
	if !created {
		return m, nil
	}
	seen := make(map[string]bool)
	for _, f := range rec.Fields {
		if err := validateColumn(rec.Name, f, seen); err != nil {
			return nil, err
		}
		if f.Name == schema.DeletedField {
			continue
		}
		m.Fields = append(m.Fields, &ModelField{
			Name: f.Name,
			Type: f.Type,
			Kind: Classify(f.Type, rec.TypeParams...),
		})
	}
	return m, nil
}

// validateTable checks t for missing required input.
func validateTable(t *load.Table) error {
	switch {
	case t.Name == "":
		return NewSchemaError("", "", "missing table name", nil)
	case t.Package == "":
		return NewSchemaError(t.Name, "", "missing package qualifier", nil)
	case strings.TrimSuffix(t.Name, tableSuffix) == "":
		return NewSchemaError(t.Name, "", "table name has no noun before the Table suffix", nil)
	}
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if err := validateColumn(t.Name, c, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateColumn(owner string, c *load.Column, seen map[string]bool) error {
	if c == nil || c.Name == "" {
		return NewSchemaError(owner, "", "missing column name", nil)
	}
	if seen[c.Name] {
		return NewSchemaError(owner, c.Name, "duplicate column", nil)
	}
	seen[c.Name] = true
	if err := c.Type.Validate(); err != nil {
		return NewSchemaError(owner, c.Name, "invalid type", err)
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
