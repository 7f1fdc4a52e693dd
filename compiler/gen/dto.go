package gen

import (
	"slices"

	"github.com/syssam/narrator/compiler/load"
	"github.com/syssam/narrator/schema"
)

// dto derives the DTO of m and emits its plan, recursing into the nested
// records its fields reference. A second call for the same model returns
// the registered descriptor and emits nothing.
func (r *run) dto(m *ModelDescriptor) (*DtoDescriptor, error) {
	dst := r.cfg.dest(r.cfg.DtoDir, m.rel)
	name := DtoName(m.Name)
	if owner := r.dtoOwner(dst.Path, name); owner != nil && owner != m {
		return nil, NewSchemaError(m.source(), "", "generated name "+dst.Path+"."+name+" is already used by "+owner.Key(), nil)
	}
	d, created := r.reg.Dtos.getOrCreate(m.Key(), func() *DtoDescriptor {
		return &DtoDescriptor{
			Name:       name,
			Package:    dst.Path,
			TypeParams: m.TypeParams,
			Top:        m.Top(),
			Model:      m,
		}
	})
	if !created {
		return d, nil
	}

	loc := r.location(dst, fileName(m.Name, "dto"))
	for _, f := range m.Fields {
		if f.Name == schema.DeletedField {
			continue
		}
		s, err := r.substitute(m, f.Name, f.Type, m.TypeParams)
		if err != nil {
			return nil, err
		}
		loc.Imports.AddType(s.Type)
		d.Fields = append(d.Fields, &DtoField{
			Name:    f.Name,
			Tag:     jsonName(f.Name),
			Type:    s.Type,
			Kind:    s.Kind,
			ToDto:   s.ToDto,
			ToModel: s.ToModel,
			Record:  s.Record,
		})
	}
	r.emit(&DtoPlan{Location: loc, Dto: d})
	return d, nil
}

// dtoOwner returns the model whose DTO is named pkg.name.
func (r *run) dtoOwner(pkg, name string) *ModelDescriptor {
	for _, k := range r.reg.Dtos.Keys() {
		d, _ := r.reg.Dtos.Lookup(k)
		if d.Package == pkg && d.Name == name {
			return d.Model
		}
	}
	return nil
}

// substitute returns the DTO type of the model type t and its conversions.
// bound holds the type parameters of the enclosing record, which pass
// through unchanged.
func (r *run) substitute(owner *ModelDescriptor, field string, t *load.TypeRef, bound []string) (*Substitution, error) {
	kind := Classify(t, bound...)
	if s, ok := builtin(kind, t); ok {
		return s, nil
	}
	switch kind {
	case KindParam:
		name := t.Name
		if !slices.Contains(bound, name) {
			return nil, NewReferenceError(owner.source(), field, "type parameter "+name)
		}
		return &Substitution{Kind: kind, Type: t, ToDto: &Conv{From: t, To: t}, ToModel: &Conv{From: t, To: t}}, nil
	case KindCollection:
		es, err := r.substitute(owner, field, t.Elem(), bound)
		if err != nil {
			return nil, err
		}
		dt := nullable(load.SliceOf(es.Type), t)
		return &Substitution{
			Kind:    kind,
			Type:    dt,
			ToDto:   &Conv{From: t, To: dt, Elem: es.ToDto},
			ToModel: &Conv{From: dt, To: t, Elem: es.ToModel},
			Record:  es.Record,
		}, nil
	case KindRecord:
		return r.substituteRecord(owner, field, t)
	}
	return nil, NewSchemaError(owner.source(), field, "unclassified type "+t.String(), nil)
}

// substituteRecord resolves a nested record reference, generating the DTO
// of the record on first use. Type arguments pass through unchanged.
func (r *run) substituteRecord(owner *ModelDescriptor, field string, t *load.TypeRef) (*Substitution, error) {
	rec := r.schema.Record(t.Package, t.Name)
	if rec == nil {
		return nil, NewReferenceError(owner.source(), field, t.QualifiedName())
	}
	if len(t.Args) != len(rec.TypeParams) {
		return nil, NewSchemaError(owner.source(), field, "wrong number of type arguments for "+t.QualifiedName(), nil)
	}
	nm, err := r.recordModel(rec)
	if err != nil {
		return nil, err
	}
	nd, err := r.dto(nm)
	if err != nil {
		return nil, err
	}
	dt := nullable(load.Struct(nd.Package, nd.Name, t.Args...), t)
	pkg, toDto, toModel := r.converterNames(nm)
	s := &Substitution{Kind: KindRecord, Type: dt, Record: nm}
	s.ToDto, s.ToModel = pair(t, dt,
		&FuncRef{Package: pkg, Name: toDto, TypeArgs: t.Args},
		&FuncRef{Package: pkg, Name: toModel, TypeArgs: t.Args},
	)
	return s, nil
}
