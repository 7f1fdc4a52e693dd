package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/narrator/compiler/gen"
)

// genDto generates a DTO struct. Every field is tagged for json and msgpack
// with the same transport name.
func genDto(f *jen.File, p *gen.DtoPlan) {
	d := p.Dto
	f.Commentf("%s is the transport form of %s.", d.Name, d.Model.Name)
	decl := f.Type().Id(d.Name)
	if len(d.TypeParams) > 0 {
		decl.Types(typeParams(d.TypeParams)...)
	}
	decl.StructFunc(func(group *jen.Group) {
		for _, field := range d.Fields {
			tag := field.Tag + ",omitempty"
			group.Id(field.Name).Add(goType(field.Type)).Tag(map[string]string{
				"json":    tag,
				"msgpack": tag,
			})
		}
	})
}
