package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/narrator/compiler/gen"
)

// genModel generates the model struct of a table and its id accessor.
func genModel(f *jen.File, p *gen.ModelPlan) {
	m := p.Model
	f.Commentf("%s is the model of the %s table.", m.Name, gen.TableSQLName(m.Table))
	f.Type().Id(m.Name).StructFunc(func(group *jen.Group) {
		for _, field := range m.Fields {
			group.Id(field.Name).Add(goType(field.Type))
		}
	})

	f.Comment("GetID implements dao.ModelWithID.")
	f.Func().Params(jen.Id("m").Id(m.Name)).Id("GetID").Params().Op("*").Qual(uuidPkg, "UUID").Block(
		jen.Return(jen.Id("m").Dot("ID")),
	)
}

// genDao generates the DAO of a table.
func genDao(f *jen.File, p *gen.DaoPlan) {
	model := p.Model.Name
	base, ctor := "BasicDaoWithoutDelete", "NewBasicDaoWithoutDelete"
	if p.Deletable {
		base, ctor = "BasicDao", "NewBasicDao"
	}

	f.Commentf("%s maps %s onto the %s table.", p.Name, model, p.SQLName)
	f.Type().Id(p.Name).Struct(
		jen.Op("*").Qual(daoPkg, base).Types(jen.Id(model)),
	)

	f.Var().Id(p.TableVar).Op("=").Op("&").Qual(daoPkg, "Table").Values(jen.Dict{
		jen.Id("Name"): jen.Lit(p.SQLName),
		jen.Id("Columns"): jen.Index().String().ValuesFunc(func(group *jen.Group) {
			for _, c := range p.Columns {
				group.Lit(c.Column)
			}
		}),
		jen.Id("Logged"):    jen.Lit(p.Logged),
		jen.Id("Deletable"): jen.Lit(p.Deletable),
	})

	f.Commentf("New%s returns a DAO of the %s table.", p.Name, p.SQLName)
	f.Func().Id("New"+p.Name).Params(
		jen.Id("conn").Qual(dialectPkg, "ExecQuerier"),
		jen.Id("opts").Op("...").Qual(daoPkg, "Option"),
	).Op("*").Id(p.Name).Block(
		jen.Id("d").Op(":=").Op("&").Id(p.Name).Values(),
		jen.Id("d").Dot(base).Op("=").Qual(daoPkg, ctor).Types(jen.Id(model)).Call(
			jen.Id("conn"), jen.Id(p.TableVar), jen.Id("d"), jen.Id("opts").Op("..."),
		),
		jen.Return(jen.Id("d")),
	)

	f.Comment("ToModel implements dao.ModelDBConverter.")
	f.Func().Params(jen.Id("d").Op("*").Id(p.Name)).Id("ToModel").Params(
		jen.Id("row").Qual(daoPkg, "Row"),
	).Params(jen.Id(model), jen.Error()).Block(
		jen.Var().Id("m").Id(model),
		jen.Err().Op(":=").Id("row").Dot("Scan").Call(jen.Qual(daoPkg, "Columns").Values(jen.DictFunc(func(d jen.Dict) {
			for _, c := range p.Columns {
				dest := jen.Op("&").Id("m").Dot(c.Field)
				if c.JSON {
					dest = jen.Qual(daoPkg, "JSON").Call(dest)
				}
				d[jen.Lit(c.Column)] = dest
			}
		}))),
		jen.Return(jen.Id("m"), jen.Err()),
	)

	f.Comment("ToStatement implements dao.ModelDBConverter.")
	f.Func().Params(jen.Id("d").Op("*").Id(p.Name)).Id("ToStatement").Params(
		jen.Id("m").Id(model),
		jen.Id("stmt").Op("*").Qual(daoPkg, "Statement"),
	).BlockFunc(func(group *jen.Group) {
		for _, c := range p.Columns {
			if !c.Write {
				continue
			}
			value := jen.Id("m").Dot(c.Field)
			if c.JSON {
				value = jen.Qual(daoPkg, "JSONValue").Call(value)
			}
			group.Id("stmt").Dot("Set").Call(jen.Lit(c.Column), value)
		}
	})

	f.Comment("FilterWithSearchTerm implements dao.ModelDBConverter.")
	f.Func().Params(jen.Id("d").Op("*").Id(p.Name)).Id("FilterWithSearchTerm").Params(
		jen.Id("q").Op("*").Qual(daoPkg, "Query"),
		jen.Id("term").String(),
	).Block(
		jen.Panic(jen.Lit("not implemented: " + p.Name + ".FilterWithSearchTerm")),
	)
}
