// Package compiler loads table schemas and generates their models, DAOs,
// DTOs and converters.
//
//	report, err := compiler.Generate(ctx, "./tables",
//		gen.WithTarget("./generated"),
//		gen.WithPackage("example.com/app/generated"),
//	)
package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/syssam/narrator/compiler/gen"
	"github.com/syssam/narrator/compiler/gen/golang"
	"github.com/syssam/narrator/compiler/load"
)

// LoadSchema loads the schema at path. A .yaml, .yml or .json file is read
// as a schema description; anything else is loaded as a Go package pattern
// with the namespace and common packages of cfg.
func LoadSchema(path string, cfg *gen.Config) (*load.Schema, error) {
	if IsDescriptionFile(path) {
		return load.ReadFile(path)
	}
	lc := &load.Config{
		Path:           path,
		Namespace:      cfg.Namespace,
		CommonPackages: cfg.CommonPackages,
	}
	return lc.Load()
}

// Generate loads the schema at schemaPath and generates its artifacts. The
// Go renderer is used unless opts set another one, and the namespace
// defaults to the one the schema was resolved against.
func Generate(ctx context.Context, schemaPath string, opts ...gen.Option) (*gen.Report, error) {
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return GenerateConfig(ctx, schemaPath, cfg)
}

// GenerateConfig is like Generate with a prepared config.
func GenerateConfig(ctx context.Context, schemaPath string, cfg *gen.Config) (*gen.Report, error) {
	if cfg.Renderer == nil {
		cfg.Renderer = golang.New()
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := LoadSchema(schemaPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = s.Namespace
	}
	return gen.NewGenerator(cfg).Generate(ctx, s)
}

// IsDescriptionFile reports whether path names a YAML or JSON schema
// description rather than a Go package.
func IsDescriptionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
