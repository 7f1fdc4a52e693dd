package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/narrator/compiler/gen"
)

// defaultSchema is the schema package used when neither the config file nor
// the flags name one.
const defaultSchema = "./tables"

// settings is the layout of the config file.
//
//	schema: ./tables
//	target: ./generated
//	package: example.com/app/generated
//	common_packages: [example.com/app/common]
type settings struct {
	// Schema is a Go package pattern or a schema description file.
	Schema     string `yaml:"schema"`
	gen.Config `yaml:",inline"`
}

// readSettings reads the config file at path. An empty path yields empty
// settings.
func readSettings(path string) (*settings, error) {
	s := &settings{}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}

// genFlags are the generation flags of the generate and watch commands.
type genFlags struct {
	schema       string
	target       string
	pkg          string
	namespace    string
	daoDir       string
	dtoDir       string
	converterDir string
	common       string
	table        string
	header       string
	nouns        string
	overwrite    bool
}

func (f *genFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.schema, "schema", "s", defaultSchema, "Schema package pattern or YAML/JSON schema file")
	fs.StringVarP(&f.target, "target", "o", "", "Output directory")
	fs.StringVarP(&f.pkg, "package", "p", "", "Import path of the output directory")
	fs.StringVar(&f.namespace, "namespace", "", "Import path prefix of the schema (default: module of the schema package)")
	fs.StringVar(&f.daoDir, "dao-dir", gen.DefaultDaoDir, "Model and DAO tree, relative to the output directory")
	fs.StringVar(&f.dtoDir, "dto-dir", gen.DefaultDtoDir, "DTO tree, relative to the output directory")
	fs.StringVar(&f.converterDir, "converter-dir", gen.DefaultConverterDir, "Converter tree, relative to the output directory")
	fs.StringVar(&f.common, "common", "", `";"-separated packages whose structs are nested records`)
	fs.StringVarP(&f.table, "table", "t", "", "Generate only this table (type or model name)")
	fs.StringVar(&f.header, "header", gen.DefaultHeader, "Header comment of generated files")
	fs.StringVar(&f.nouns, "nouns", "", `CSV file of "singular,plural" pairs replacing the builtin dictionary`)
	fs.BoolVar(&f.overwrite, "overwrite", false, "Replace files that already exist")
}

// config merges the config file with the flags set on cmd. Flags win.
func (f *genFlags) config(cmd *cobra.Command, g *globals) (string, *gen.Config, error) {
	s, err := readSettings(g.configFile)
	if err != nil {
		return "", nil, err
	}
	cfg := &s.Config
	fs := cmd.Flags()

	var opts []gen.Option
	for _, sf := range []struct {
		name  string
		value string
		opt   func(string) gen.Option
	}{
		{"target", f.target, gen.WithTarget},
		{"package", f.pkg, gen.WithPackage},
		{"namespace", f.namespace, gen.WithNamespace},
		{"dao-dir", f.daoDir, gen.WithDaoDir},
		{"dto-dir", f.dtoDir, gen.WithDtoDir},
		{"converter-dir", f.converterDir, gen.WithConverterDir},
		{"table", f.table, gen.WithTable},
		{"header", f.header, gen.WithHeader},
		{"nouns", f.nouns, gen.WithNouns},
	} {
		if fs.Changed(sf.name) {
			opts = append(opts, sf.opt(sf.value))
		}
	}
	if fs.Changed("common") {
		opts = append(opts, gen.WithCommonPackages(gen.ParseCommonPackages(f.common)...))
	}
	if fs.Changed("overwrite") {
		opts = append(opts, gen.WithOverwrite(f.overwrite))
	}
	opts = append(opts, gen.WithLogger(g.logger()))
	if err := cfg.ApplyAll(opts...); err != nil {
		return "", nil, err
	}

	schema := s.Schema
	if schema == "" || fs.Changed("schema") {
		schema = f.schema
	}
	return schema, cfg, nil
}
