package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/narrator/compiler/gen"
)

// genConverter generates the pair of functions converting a model to its
// DTO and back, one assignment per field.
func genConverter(f *jen.File, p *gen.ConverterPlan) {
	c := p.Converter
	m, d := c.Model, c.Dto
	modelType := qualified(m.Package, m.Name, m.TypeParams)
	dtoType := qualified(d.Package, d.Name, d.TypeParams)

	f.Commentf("%s converts a %s to its transport form.", c.ToDto, m.Name)
	genConvertFunc(f, c.ToDto, m.TypeParams, "m", modelType, "d", dtoType, d.Fields, func(field *gen.DtoField) *gen.Conv {
		return field.ToDto
	})

	f.Commentf("%s converts a %s back to a %s.", c.ToModel, d.Name, m.Name)
	genConvertFunc(f, c.ToModel, m.TypeParams, "d", dtoType.Clone(), "m", modelType.Clone(), d.Fields, func(field *gen.DtoField) *gen.Conv {
		return field.ToModel
	})
}

func genConvertFunc(f *jen.File, name string, params []string, in string, inType *jen.Statement, out string, outType *jen.Statement, fields []*gen.DtoField, conv func(*gen.DtoField) *gen.Conv) {
	fn := f.Func().Id(name)
	if len(params) > 0 {
		fn.Types(typeParams(params)...)
	}
	fn.Params(jen.Id(in).Add(inType)).Add(outType.Clone()).BlockFunc(func(group *jen.Group) {
		group.Var().Id(out).Add(outType.Clone())
		for _, field := range fields {
			group.Id(out).Dot(field.Name).Op("=").Add(convValue(conv(field), jen.Id(in).Dot(field.Name)))
		}
		group.Return(jen.Id(out))
	})
}
