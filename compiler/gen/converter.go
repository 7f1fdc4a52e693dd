package gen

// converterNames returns the package and function names of the converters
// of m.
func (r *run) converterNames(m *ModelDescriptor) (pkg, toDto, toModel string) {
	return r.cfg.dest(r.cfg.ConverterDir, m.rel).Path, m.Name + "ToDto", m.Name + "ToModel"
}

// converter emits the converter pair of m and, recursively, of every nested
// record its DTO references. The DTO of m must be registered.
func (r *run) converter(m *ModelDescriptor) (*ConverterDescriptor, error) {
	d, err := r.reg.Dtos.Lookup(m.Key())
	if err != nil {
		return nil, err
	}
	pkg, toDto, toModel := r.converterNames(m)
	c, created := r.reg.Converters.getOrCreate(m.Key(), func() *ConverterDescriptor {
		return &ConverterDescriptor{Package: pkg, Model: m, Dto: d, ToDto: toDto, ToModel: toModel}
	})
	if !created {
		return c, nil
	}

	loc := r.location(r.cfg.dest(r.cfg.ConverterDir, m.rel), fileName(m.Name, "conversions"))
	loc.Imports.Add(m.Package)
	loc.Imports.Add(d.Package)
	for _, f := range d.Fields {
		loc.Imports.AddConv(f.ToDto)
		loc.Imports.AddConv(f.ToModel)
	}
	r.emit(&ConverterPlan{Location: loc, Converter: c})

	for _, f := range d.Fields {
		if f.Record == nil {
			continue
		}
		if _, err := r.converter(f.Record); err != nil {
			return nil, err
		}
	}
	return c, nil
}
