package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Artifact is one rendered file.
type Artifact struct {
	// Package is the import path of the file's package.
	Package string
	// Dir is the directory relative to the target.
	Dir string
	// File is the file name.
	File string
	// Imports are the import paths the file references.
	Imports []string
	// Body is the rendered source.
	Body []byte
}

// Path returns the file path relative to the target.
func (a Artifact) Path() string { return filepath.Join(a.Dir, a.File) }

// Writer receives the artifacts of a run.
type Writer interface {
	// Write queues a. A second artifact with the same path is dropped.
	Write(a Artifact) error
	// Flush persists the queued artifacts.
	Flush(ctx context.Context) error
}

// FileWriter formats artifacts with goimports and writes them below a root
// directory in parallel.
type FileWriter struct {
	root      string
	overwrite bool
	workers   int

	queue []Artifact
	seen  map[string]bool

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks the outcome of a flush.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
	// Skipped lists the existing files left untouched.
	Skipped []string
}

// NewFileWriter returns a writer rooted at dir. Existing files are replaced
// only when overwrite is set.
func NewFileWriter(dir string, overwrite bool) *FileWriter {
	return &FileWriter{
		root:      dir,
		overwrite: overwrite,
		workers:   runtime.GOMAXPROCS(0),
		seen:      make(map[string]bool),
		metrics:   &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *FileWriter) WithWorkers(n int) *FileWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the flush metrics.
func (w *FileWriter) Metrics() *WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := *w.metrics
	m.Skipped = slices.Clone(m.Skipped)
	slices.Sort(m.Skipped)
	return &m
}

// Write implements Writer.
func (w *FileWriter) Write(a Artifact) error {
	p := a.Path()
	if !filepath.IsLocal(p) {
		return fmt.Errorf("artifact path %q escapes the target", p)
	}
	if w.seen[p] {
		return nil
	}
	w.seen[p] = true
	w.queue = append(w.queue, a)
	return nil
}

// Flush implements Writer.
func (w *FileWriter) Flush(ctx context.Context) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	queue := w.queue
	w.queue = nil

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, a := range queue {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(a)
			}
		})
	}
	return eg.Wait()
}

// writeFile formats and writes a single artifact.
func (w *FileWriter) writeFile(a Artifact) error {
	fullPath := filepath.Join(w.root, a.Path())
	if !w.overwrite {
		_, err := os.Stat(fullPath)
		switch {
		case err == nil:
			w.mu.Lock()
			w.metrics.Skipped = append(w.metrics.Skipped, a.Path())
			w.mu.Unlock()
			return nil
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("stat %s: %w", a.Path(), err)
		}
	}

	// Format using goimports (sorts the import block and drops unused imports)
	formatted, err := imports.Process(fullPath, a.Body, nil)
	if err != nil {
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		debugPath := fullPath + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, a.Body, 0o644)
		return fmt.Errorf("format %s: %w (unformatted written to %s)", a.Path(), err, debugPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", a.Path(), err)
	}
	if err := os.WriteFile(fullPath, formatted, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.Path(), err)
	}

	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(formatted))
	w.mu.Unlock()
	return nil
}

// MemoryWriter keeps artifacts in memory. Flush is a no-op.
type MemoryWriter struct {
	artifacts []Artifact
	index     map[string]int
	// Writes counts Write calls, including dropped duplicates.
	Writes int
}

// NewMemoryWriter returns an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{index: make(map[string]int)}
}

// Write implements Writer.
func (w *MemoryWriter) Write(a Artifact) error {
	w.Writes++
	if _, ok := w.index[a.Path()]; ok {
		return nil
	}
	w.index[a.Path()] = len(w.artifacts)
	w.artifacts = append(w.artifacts, a)
	return nil
}

// Flush implements Writer.
func (w *MemoryWriter) Flush(context.Context) error { return nil }

// Artifacts returns the kept artifacts in write order.
func (w *MemoryWriter) Artifacts() []Artifact {
	return slices.Clone(w.artifacts)
}

// Get returns the artifact written at path.
func (w *MemoryWriter) Get(path string) (Artifact, bool) {
	i, ok := w.index[filepath.FromSlash(path)]
	if !ok {
		return Artifact{}, false
	}
	return w.artifacts[i], true
}

// Paths returns the paths of the kept artifacts in write order.
func (w *MemoryWriter) Paths() []string {
	paths := make([]string, len(w.artifacts))
	for i, a := range w.artifacts {
		paths[i] = filepath.ToSlash(a.Path())
	}
	return paths
}
