package load

import (
	"cmp"
	"fmt"
	"go/constant"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/narrator/schema"
)

// schemaPkgPath is the import path of the table markers.
var schemaPkgPath = reflect.TypeOf(schema.Table{}).PkgPath()

// Config holds the configuration for loading Go schema packages.
type Config struct {
	// Path is the package pattern or directory of the schema package.
	Path string
	// BuildFlags are passed to the go tool.
	BuildFlags []string
	// Namespace is the import path prefix whose struct types are nested
	// records. It defaults to the module of the schema package.
	Namespace string
	// CommonPackages are additional packages scanned for tables, records
	// and enums.
	CommonPackages []string
}

// Load loads the schema package and the common packages and resolves every
// table declared in them together with the records and enums their columns
// reference.
func (c *Config) Load() (*Schema, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("load: missing schema path")
	}
	roots, err := c.load(c.Path)
	if err != nil {
		return nil, err
	}
	var common []*packages.Package
	if len(c.CommonPackages) > 0 {
		if common, err = c.load(c.CommonPackages...); err != nil {
			return nil, err
		}
	}
	ns := c.Namespace
	if ns == "" {
		ns = roots[0].PkgPath
		if roots[0].Module != nil {
			ns = roots[0].Module.Path
		}
	}
	r := &resolver{
		namespace: ns,
		common:    make(map[string]bool),
		seen:      make(map[string]bool),
		schema:    &Schema{Namespace: ns},
	}
	for _, p := range common {
		r.common[p.PkgPath] = true
	}
	for _, p := range roots {
		r.tables(p.Types)
	}
	for _, p := range common {
		if !slices.ContainsFunc(roots, func(q *packages.Package) bool { return q.PkgPath == p.PkgPath }) {
			r.tables(p.Types)
		}
	}
	return r.schema, nil
}

// load loads the packages matching patterns, sorted by import path.
// packages.Load does not keep the order of its patterns.
func (c *Config) load(patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedImports | packages.NeedDeps | packages.NeedModule,
		BuildFlags: c.BuildFlags,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: loading %q: %w", strings.Join(patterns, " "), err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("load: no packages found for %q", strings.Join(patterns, " "))
	}
	var errs []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("load: %s", strings.Join(errs, "\n"))
	}
	slices.SortFunc(pkgs, func(a, b *packages.Package) int { return cmp.Compare(a.PkgPath, b.PkgPath) })
	return pkgs, nil
}

// resolver converts go/types declarations into a Schema.
type resolver struct {
	namespace string
	common    map[string]bool
	seen      map[string]bool
	schema    *Schema
}

// inScope reports whether struct types of pkg are nested records.
func (r *resolver) inScope(pkg string) bool {
	return r.common[pkg] || pkg == r.namespace || strings.HasPrefix(pkg, r.namespace+"/")
}

// tables collects the tables of pkg in declaration order.
func (r *resolver) tables(pkg *types.Package) {
	scope := pkg.Scope()
	var objs []*types.TypeName
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok && !tn.IsAlias() {
			objs = append(objs, tn)
		}
	}
	slices.SortFunc(objs, func(a, b *types.TypeName) int { return cmp.Compare(a.Pos(), b.Pos()) })
	for _, tn := range objs {
		st, ok := tn.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}
		marker, tag, ok := tableMarker(st)
		if !ok {
			continue
		}
		t := &Table{
			Name:      tn.Name(),
			Package:   pkg.Path(),
			SQLName:   tag,
			Deletable: marker == "DeletableTable",
		}
		t.Columns = r.fields(st)
		r.schema.Tables = append(r.schema.Tables, t)
	}
}

// tableMarker returns the embedded schema marker of st and its tag.
func tableMarker(st *types.Struct) (string, string, bool) {
	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		named, ok := f.Type().(*types.Named)
		if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != schemaPkgPath {
			continue
		}
		switch name := named.Obj().Name(); name {
		case "Table", "DeletableTable":
			return name, reflect.StructTag(st.Tag(i)).Get(schema.TagName), true
		}
	}
	return "", "", false
}

// fields converts the exported fields of st. Embedded structs other than
// the schema markers are flattened in place.
func (r *resolver) fields(st *types.Struct) []*Column {
	var cols []*Column
	for i := range st.NumFields() {
		f := st.Field(i)
		if f.Embedded() {
			if inner, ok := mixinStruct(f.Type()); ok {
				cols = append(cols, r.fields(inner)...)
			}
			continue
		}
		if !f.Exported() {
			continue
		}
		cols = append(cols, &Column{
			Name:       f.Name(),
			ColumnName: reflect.StructTag(st.Tag(i)).Get(schema.TagName),
			Type:       r.typeRef(f.Type()),
		})
	}
	return cols
}

// mixinStruct returns the struct of an embedded column set.
func mixinStruct(t types.Type) (*types.Struct, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() != nil && named.Obj().Pkg().Path() == schemaPkgPath {
		return nil, false
	}
	st, ok := named.Underlying().(*types.Struct)
	return st, ok
}

func (r *resolver) typeRef(t types.Type) *TypeRef {
	switch t := t.(type) {
	case *types.Alias:
		return r.typeRef(types.Unalias(t))
	case *types.Pointer:
		return r.typeRef(t.Elem()).Ptr()
	case *types.Basic:
		return Basic(t.Name())
	case *types.Slice:
		return SliceOf(r.typeRef(t.Elem()))
	case *types.Map:
		return MapOf(r.typeRef(t.Key()), r.typeRef(t.Elem()))
	case *types.TypeParam:
		return Param(t.Obj().Name())
	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() == nil {
			return Basic(obj.Name())
		}
		ref := Named(obj.Pkg().Path(), obj.Name())
		for a := range t.TypeArgs().Types() {
			ref.Args = append(ref.Args, r.typeRef(a))
		}
		ref.Decl = r.declare(t)
		return ref
	default:
		return Basic(types.TypeString(t, nil))
	}
}

// declare classifies the declaration of named and records it in the schema
// the first time it is seen.
func (r *resolver) declare(named *types.Named) Decl {
	origin := named.Origin()
	obj := origin.Obj()
	key := obj.Pkg().Path() + "." + obj.Name()
	switch u := origin.Underlying().(type) {
	case *types.Struct:
		if _, _, isTable := tableMarker(u); isTable || !r.inScope(obj.Pkg().Path()) {
			return DeclOther
		}
		if !r.seen[key] {
			r.seen[key] = true
			rec := &Record{Name: obj.Name(), Package: obj.Pkg().Path()}
			for tp := range origin.TypeParams().TypeParams() {
				rec.TypeParams = append(rec.TypeParams, tp.Obj().Name())
			}
			r.schema.Records = append(r.schema.Records, rec)
			rec.Fields = r.fields(u)
		}
		return DeclStruct
	case *types.Basic:
		if u.Info()&types.IsString == 0 {
			return DeclOther
		}
		values := enumValues(obj.Pkg(), origin)
		if len(values) == 0 {
			return DeclOther
		}
		if !r.seen[key] {
			r.seen[key] = true
			r.schema.Enums = append(r.schema.Enums, &Enum{Name: obj.Name(), Package: obj.Pkg().Path(), Values: values})
		}
		return DeclEnum
	}
	return DeclOther
}

// enumValues returns the string constants of type named declared in pkg.
func enumValues(pkg *types.Package, named *types.Named) []string {
	scope := pkg.Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })
	values := make([]string, 0, len(consts))
	for _, c := range consts {
		values = append(values, constant.StringVal(c.Val()))
	}
	return values
}
