package gen

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"
)

// Default values of the generation config.
const (
	DefaultDaoDir       = "daos"
	DefaultDtoDir       = "dtos"
	DefaultConverterDir = "conversions"
	DefaultHeader       = "Code generated by narrator. DO NOT EDIT."
)

// Config holds the global codegen configuration.
type Config struct {
	// Target is the directory the generated trees are written to.
	Target string `yaml:"target"`
	// Package is the import path of Target.
	// For example: "github.com/org/project/generated".
	Package string `yaml:"package"`
	// Namespace is the import path prefix of the schema. Table packages are
	// placed relative to it.
	Namespace string `yaml:"namespace"`
	// DaoDir, DtoDir and ConverterDir are the roots of the model/DAO, DTO
	// and converter trees, relative to Target.
	DaoDir       string `yaml:"dao_dir"`
	DtoDir       string `yaml:"dto_dir"`
	ConverterDir string `yaml:"converter_dir"`
	// CommonPackages are the packages, besides the namespace, whose structs
	// are generated as nested records.
	CommonPackages []string `yaml:"common_packages"`
	// Table limits generation to the table with this type or model name.
	Table string `yaml:"table"`
	// Header is the comment at the top of every generated file.
	Header string `yaml:"header"`
	// Nouns is an optional CSV file of "singular,plural" pairs replacing
	// the builtin noun dictionary.
	Nouns string `yaml:"nouns"`
	// Overwrite allows replacing files that already exist.
	Overwrite bool `yaml:"overwrite"`

	// Logger receives progress and per-table faults.
	Logger *slog.Logger `yaml:"-"`
	// Renderer turns plans into source. Required.
	Renderer Renderer `yaml:"-"`
	// Writer receives the rendered artifacts. Defaults to a FileWriter
	// rooted at Target.
	Writer Writer `yaml:"-"`
}

// Defaults fills the unset optional fields.
func (c *Config) Defaults() {
	if c.DaoDir == "" {
		c.DaoDir = DefaultDaoDir
	}
	if c.DtoDir == "" {
		c.DtoDir = DefaultDtoDir
	}
	if c.ConverterDir == "" {
		c.ConverterDir = DefaultConverterDir
	}
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// Validate reports the first configuration fault.
func (c *Config) Validate() error {
	switch {
	case c.Target == "":
		return NewConfigError("Target", nil, "missing target directory")
	case c.Package == "":
		return NewConfigError("Package", nil, "missing target package")
	case c.Renderer == nil:
		return NewConfigError("Renderer", nil, "missing renderer")
	}
	for _, d := range []struct{ opt, dir string }{
		{"DaoDir", c.DaoDir},
		{"DtoDir", c.DtoDir},
		{"ConverterDir", c.ConverterDir},
	} {
		if d.dir == "" || !filepath.IsLocal(filepath.FromSlash(d.dir)) {
			return NewConfigError(d.opt, d.dir, "must be a relative path inside the target")
		}
	}
	if c.DaoDir == c.DtoDir || c.DaoDir == c.ConverterDir || c.DtoDir == c.ConverterDir {
		return NewConfigError("DaoDir", c.DaoDir, "model, DTO and converter trees must differ")
	}
	for _, p := range c.CommonPackages {
		if strings.TrimSpace(p) == "" {
			return NewConfigError("CommonPackages", c.CommonPackages, "empty package path")
		}
	}
	return nil
}

// destination is the location of one generated package.
type destination struct {
	Path string // import path
	Name string // package name
	Dir  string // directory relative to Target
}

// dest returns the destination of package rel under the tree root.
func (c *Config) dest(root, rel string) destination {
	p := path.Join(root, rel)
	return destination{
		Path: path.Join(c.Package, p),
		Name: path.Base(p),
		Dir:  filepath.FromSlash(p),
	}
}
