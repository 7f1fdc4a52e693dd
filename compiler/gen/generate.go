package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/syssam/narrator/compiler/load"
)

// Generator generates the artifacts of a schema.
type Generator struct {
	cfg *Config
}

// NewGenerator returns a generator for cfg. The config is validated by
// Generate.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{cfg: cfg}
}

// New returns a generator configured by opts.
func New(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(cfg), nil
}

// Config returns the generator config.
func (g *Generator) Config() *Config { return g.cfg }

// Report is the outcome of a run.
type Report struct {
	// Tables lists the generated tables in schema order.
	Tables []string
	// Faults are the per-table errors that skipped a table.
	Faults []*TableFault
	// Files lists the paths handed to the writer, relative to the target.
	Files []string
	// Registry holds the descriptors of the run.
	Registry *Registry
}

// TableFault is an error isolated to one table.
type TableFault struct {
	Table string
	Err   error
}

// Error implements the error interface.
func (f *TableFault) Error() string {
	if f.Table == "" {
		return f.Err.Error()
	}
	return f.Table + ": " + f.Err.Error()
}

// Unwrap returns the underlying error.
func (f *TableFault) Unwrap() error { return f.Err }

// Err joins the table faults, or returns nil for a clean run.
func (r *Report) Err() error {
	errs := make([]error, len(r.Faults))
	for i, f := range r.Faults {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// run is the state of one Generate call.
type run struct {
	cfg     *Config
	log     *slog.Logger
	reg     *Registry
	names   *Namer
	schema  *load.Schema
	pending []Plan
}

// Generate derives the model, DAO, DTO and converter artifacts of every table
// in s and hands them to the writer. Tables failing with a schema or
// reference fault are skipped and reported; any other error aborts the run.
func (g *Generator) Generate(ctx context.Context, s *load.Schema) (*Report, error) {
	cfg := *g.cfg
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, NewSchemaError("", "", "missing schema", nil)
	}
	tables, err := selectTables(&cfg, s)
	if err != nil {
		return nil, err
	}
	w := cfg.Writer
	if w == nil {
		w = NewFileWriter(cfg.Target, cfg.Overwrite)
	}
	r := &run{
		cfg:    &cfg,
		log:    cfg.Logger,
		reg:    NewRegistry(),
		names:  NewNamer(NewDictionary(cfg.Nouns)),
		schema: s,
	}
	report := &Report{Registry: r.reg}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if t == nil {
			report.Faults = append(report.Faults, &TableFault{Err: NewSchemaError("", "", "missing table", nil)})
			continue
		}
		r.log.Info("generating table", "table", t.Name, "package", t.Package)
		mark := r.reg.mark()
		plans, err := r.table(t)
		if err != nil {
			if !isTableFault(err) {
				return report, err
			}
			r.reg.rollback(mark)
			r.log.Warn("skipping table", "table", t.Name, "error", err)
			report.Faults = append(report.Faults, &TableFault{Table: t.Name, Err: err})
			continue
		}
		for _, p := range plans {
			a, err := r.render(p)
			if err != nil {
				return report, err
			}
			if err := w.Write(a); err != nil {
				return report, NewGenerationError("write", a.Path(), "", err)
			}
			r.log.Debug("generated file", "table", t.Name, "file", a.Path())
			report.Files = append(report.Files, a.Path())
		}
		report.Tables = append(report.Tables, t.Name)
	}
	if err := w.Flush(ctx); err != nil {
		return report, NewGenerationError("flush", "", "", err)
	}
	r.log.Info("generation finished", "tables", len(report.Tables), "faults", len(report.Faults), "files", len(report.Files))
	return report, nil
}

// table runs the model, DTO and converter emitters for t and returns the
// plans they emitted.
func (r *run) table(t *load.Table) ([]Plan, error) {
	r.pending = nil
	m, err := r.model(t)
	if err != nil {
		return nil, err
	}
	if _, err := r.dto(m); err != nil {
		return nil, err
	}
	if _, err := r.converter(m); err != nil {
		return nil, err
	}
	plans := r.pending
	r.pending = nil
	return plans, nil
}

// selectTables applies the table filter of cfg.
func selectTables(cfg *Config, s *load.Schema) ([]*load.Table, error) {
	if cfg.Table == "" {
		return s.Tables, nil
	}
	names := NewNamer(NewDictionary(cfg.Nouns))
	i := slices.IndexFunc(s.Tables, func(t *load.Table) bool {
		if t == nil {
			return false
		}
		if t.Name == cfg.Table || strings.TrimSuffix(t.Name, tableSuffix) == cfg.Table {
			return true
		}
		name, err := names.ModelName(t.Name)
		return err == nil && name == cfg.Table
	})
	if i < 0 {
		return nil, NewConfigError("Table", cfg.Table, "no such table in schema")
	}
	return s.Tables[i : i+1], nil
}

// emit queues a plan of the current table.
func (r *run) emit(p Plan) {
	r.pending = append(r.pending, p)
}

// location returns the location of a new file in dst.
func (r *run) location(dst destination, file string) Location {
	return Location{
		Package: dst.Path,
		Name:    dst.Name,
		Dir:     dst.Dir,
		File:    file,
		Header:  r.cfg.Header,
		Imports: NewImportSet(dst.Path),
	}
}

// render renders p into an artifact.
func (r *run) render(p Plan) (Artifact, error) {
	loc := p.Loc()
	body, err := r.cfg.Renderer.Render(p)
	if err != nil {
		return Artifact{}, NewGenerationError("render", loc.Path(), fmt.Sprintf("%T", p), err)
	}
	return Artifact{
		Package: loc.Package,
		Dir:     loc.Dir,
		File:    loc.File,
		Imports: loc.Imports.Paths(),
		Body:    body,
	}, nil
}
