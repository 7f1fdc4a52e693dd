package gen

import (
	"errors"
	"log/slog"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the output directory.
// For example: "github.com/org/project/generated".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithNamespace sets the import path prefix of the schema.
func WithNamespace(ns string) Option {
	return func(c *Config) error {
		c.Namespace = strings.TrimSuffix(ns, "/")
		return nil
	}
}

// WithDaoDir sets the root of the model and DAO tree.
func WithDaoDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("DaoDir", nil, "directory cannot be empty")
		}
		c.DaoDir = dir
		return nil
	}
}

// WithDtoDir sets the root of the DTO tree.
func WithDtoDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("DtoDir", nil, "directory cannot be empty")
		}
		c.DtoDir = dir
		return nil
	}
}

// WithConverterDir sets the root of the converter tree.
func WithConverterDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("ConverterDir", nil, "directory cannot be empty")
		}
		c.ConverterDir = dir
		return nil
	}
}

// WithCommonPackages adds packages whose structs are nested records.
func WithCommonPackages(pkgs ...string) Option {
	return func(c *Config) error {
		c.CommonPackages = append(c.CommonPackages, pkgs...)
		return nil
	}
}

// ParseCommonPackages splits a ";"-separated package list, dropping blanks.
func ParseCommonPackages(s string) []string {
	var pkgs []string
	for p := range strings.SplitSeq(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

// WithTable limits generation to one table, named by its type or model name.
func WithTable(name string) Option {
	return func(c *Config) error {
		c.Table = name
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithNouns sets the CSV file of the noun dictionary.
func WithNouns(path string) Option {
	return func(c *Config) error {
		c.Nouns = path
		return nil
	}
}

// WithOverwrite allows the default writer to replace existing files.
func WithOverwrite(overwrite bool) Option {
	return func(c *Config) error {
		c.Overwrite = overwrite
		return nil
	}
}

// WithLogger sets the logger of the run.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithRenderer sets the renderer turning plans into source.
func WithRenderer(r Renderer) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Renderer", nil, "renderer cannot be nil")
		}
		c.Renderer = r
		return nil
	}
}

// WithWriter sets the writer receiving the rendered artifacts.
func WithWriter(w Writer) Option {
	return func(c *Config) error {
		if w == nil {
			return NewConfigError("Writer", nil, "writer cannot be nil")
		}
		c.Writer = w
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options and the defaults
// for the fields they leave unset.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.Defaults()
	return c, nil
}
