package gen

import (
	"path"
	"regexp"
	"strings"

	"github.com/syssam/narrator/compiler/load"
)

// Import is one imported package.
type Import struct {
	Path string
	Name string
}

// ImportSet is an insertion-ordered set of imports. The package of the file
// itself is never added.
type ImportSet struct {
	self  string
	list  []Import
	index map[string]int
}

// NewImportSet returns an empty set for a file of package self.
func NewImportSet(self string) *ImportSet {
	return &ImportSet{self: self, index: make(map[string]int)}
}

// Add adds the package at importPath.
func (s *ImportSet) Add(importPath string) {
	if importPath == "" || importPath == s.self {
		return
	}
	if _, ok := s.index[importPath]; ok {
		return
	}
	s.index[importPath] = len(s.list)
	s.list = append(s.list, Import{Path: importPath, Name: PackageName(importPath)})
}

// AddType adds the packages referenced by t.
func (s *ImportSet) AddType(t *load.TypeRef) {
	if t == nil {
		return
	}
	if t.Shape == load.ShapeNamed {
		s.Add(t.Package)
	}
	for _, a := range t.Args {
		s.AddType(a)
	}
}

// AddConv adds the packages referenced by a conversion.
func (s *ImportSet) AddConv(c *Conv) {
	if c == nil || c.Identity() {
		return
	}
	if c.From.Nullable {
		s.Add(dtoPkg)
	}
	if c.Func != nil {
		s.Add(c.Func.Package)
		for _, a := range c.Func.TypeArgs {
			s.AddType(a)
		}
	}
	if c.Elem != nil {
		s.Add(dtoPkg)
		s.AddType(c.Elem.From)
		s.AddType(c.Elem.To)
		s.AddConv(c.Elem)
	}
}

// List returns the imports in insertion order.
func (s *ImportSet) List() []Import {
	return append([]Import(nil), s.list...)
}

// Paths returns the import paths in insertion order.
func (s *ImportSet) Paths() []string {
	paths := make([]string, len(s.list))
	for i, imp := range s.list {
		paths[i] = imp.Path
	}
	return paths
}

// Len returns the number of imports.
func (s *ImportSet) Len() int { return len(s.list) }

var (
	versionSuffix = regexp.MustCompile(`^v[0-9]+$`)
	nonIdent      = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

// PackageName guesses the package name of importPath the way the go tool
// conventions name packages.
//
//	github.com/jackc/pgx/v5 => pgx
//	gopkg.in/yaml.v3        => yaml
//	github.com/go-sql-driver/mysql => mysql
func PackageName(importPath string) string {
	name := path.Base(importPath)
	if versionSuffix.MatchString(name) {
		if dir := path.Dir(importPath); dir != "." {
			name = path.Base(dir)
		}
	}
	if i := strings.Index(name, ".v"); i > 0 && versionSuffix.MatchString(name[i+1:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(strings.TrimSuffix(name, "-go"), ".go")
	return nonIdent.ReplaceAllString(name, "")
}
