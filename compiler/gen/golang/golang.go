// Package golang renders generation plans as Go source with jennifer.
package golang

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/narrator/compiler/gen"
	"github.com/syssam/narrator/compiler/load"
)

// Import paths of the runtime packages generated code links against.
const (
	daoPkg     = "github.com/syssam/narrator/dao"
	dtoPkg     = "github.com/syssam/narrator/dto"
	dialectPkg = "github.com/syssam/narrator/dialect"
	uuidPkg    = "github.com/google/uuid"
)

// Renderer renders plans as Go source.
type Renderer struct{}

// New returns a Go renderer.
func New() *Renderer { return &Renderer{} }

var _ gen.Renderer = (*Renderer)(nil)

// Render implements gen.Renderer.
func (r *Renderer) Render(p gen.Plan) ([]byte, error) {
	f := newFile(p.Loc())
	switch p := p.(type) {
	case *gen.ModelPlan:
		genModel(f, p)
	case *gen.DaoPlan:
		genDao(f, p)
	case *gen.DtoPlan:
		genDto(f, p)
	case *gen.ConverterPlan:
		genConverter(f, p)
	default:
		return nil, fmt.Errorf("golang: unsupported plan %T", p)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("golang: render %s: %w", p.Loc().Path(), err)
	}
	return buf.Bytes(), nil
}

// newFile creates a new Jennifer file with the header comment and the
// imports of loc registered in order. Imports whose package name is taken
// get a numbered alias.
func newFile(loc *gen.Location) *jen.File {
	f := jen.NewFilePathName(loc.Package, loc.Name)
	if loc.Header != "" {
		f.HeaderComment(loc.Header)
	}
	used := map[string]bool{loc.Name: true}
	for _, imp := range loc.Imports.List() {
		name := imp.Name
		if !used[name] {
			used[name] = true
			f.ImportName(imp.Path, name)
			continue
		}
		alias := name
		for i := 2; used[alias]; i++ {
			alias = name + strconv.Itoa(i)
		}
		used[alias] = true
		f.ImportAlias(imp.Path, alias)
	}
	return f
}

// goType returns the Jennifer code of t.
func goType(t *load.TypeRef) *jen.Statement {
	base := baseType(t)
	if t.Nullable {
		return jen.Op("*").Add(base)
	}
	return base
}

func baseType(t *load.TypeRef) *jen.Statement {
	switch t.Shape {
	case load.ShapeSlice:
		return jen.Index().Add(goType(t.Args[0]))
	case load.ShapeMap:
		return jen.Map(goType(t.Args[0])).Add(goType(t.Args[1]))
	case load.ShapeNamed:
		if t.Package == "" {
			return jen.Id(t.Name)
		}
		q := jen.Qual(t.Package, t.Name)
		if len(t.Args) > 0 {
			q = q.Types(typeList(t.Args)...)
		}
		return q
	default:
		return jen.Id(t.Name)
	}
}

func typeList(ts []*load.TypeRef) []jen.Code {
	codes := make([]jen.Code, len(ts))
	for i, t := range ts {
		codes[i] = goType(t)
	}
	return codes
}

// typeParams returns the declaration of type parameters, each constrained
// by any.
func typeParams(names []string) []jen.Code {
	codes := make([]jen.Code, len(names))
	for i, n := range names {
		codes[i] = jen.Id(n).Any()
	}
	return codes
}

// typeArgs returns the instantiation of a generic declaration with its own
// type parameters.
func typeArgs(names []string) []jen.Code {
	codes := make([]jen.Code, len(names))
	for i, n := range names {
		codes[i] = jen.Id(n)
	}
	return codes
}

// qualified returns the generic declaration pkg.name instantiated with its
// type parameters.
func qualified(pkg, name string, params []string) *jen.Statement {
	q := jen.Qual(pkg, name)
	if len(params) > 0 {
		q = q.Types(typeArgs(params)...)
	}
	return q
}

// funcRef returns a reference to a conversion function, instantiated when
// it has type arguments.
func funcRef(f *gen.FuncRef) *jen.Statement {
	q := jen.Qual(f.Package, f.Name)
	if len(f.TypeArgs) > 0 {
		q = q.Types(typeList(f.TypeArgs)...)
	}
	return q
}

// convValue returns the expression converting x with c.
func convValue(c *gen.Conv, x jen.Code) jen.Code {
	switch {
	case c.Identity():
		return x
	case c.From.Nullable:
		return jen.Qual(dtoPkg, "Ptr").Call(x, convFunc(nonNull(c)))
	case c.Elem != nil:
		return jen.Qual(dtoPkg, "Slice").Call(x, convFunc(c.Elem))
	default:
		return funcRef(c.Func).Call(x)
	}
}

// convFunc returns c as a function value: the conversion function itself
// when it takes the value directly, a closure otherwise.
func convFunc(c *gen.Conv) jen.Code {
	if c.Func != nil && c.Elem == nil && !c.From.Nullable {
		return funcRef(c.Func)
	}
	return jen.Func().Params(jen.Id("v").Add(goType(c.From))).Add(goType(c.To)).Block(
		jen.Return(convValue(c, jen.Id("v"))),
	)
}

func nonNull(c *gen.Conv) *gen.Conv {
	n := *c
	n.From, n.To = c.From.NonNull(), c.To.NonNull()
	return &n
}
