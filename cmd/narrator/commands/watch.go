package commands

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/narrator/cmd/narrator/output"
	"github.com/syssam/narrator/compiler"
	"github.com/syssam/narrator/compiler/gen"
)

func newWatchCmd(g *globals) *cobra.Command {
	f := &genFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the schema changes",
		Long: `Generate once, then watch the schema and regenerate after every change.

Generated files are always replaced. A "/..." schema pattern watches every
directory below the root.

Examples:
  narrator watch -s ./tables/... -o ./generated -p example.com/app/generated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, cfg, err := f.config(cmd, g)
			if err != nil {
				return err
			}
			cfg.Overwrite = true
			return watch(cmd.Context(), schema, cfg, debounce, g.verbose)
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Quiet period before regenerating")
	return cmd
}

func watch(ctx context.Context, schema string, cfg *gen.Config, debounce time.Duration, verbose bool) error {
	dirs, err := watchDirs(schema)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	run := func() {
		if err := generate(ctx, schema, cfg, verbose); err != nil {
			output.Error("%v", err)
		}
	}
	run()
	output.Info("watching %s (Ctrl+C to stop)", strings.Join(dirs, ", "))

	fire := make(chan struct{}, 1)
	timer := time.AfterFunc(time.Hour, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if relevant(ev, schema, cfg.Target) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			output.Warning("watch: %v", err)
		case <-fire:
			run()
		}
	}
}

// watchDirs returns the directories to watch for schema. A description file
// is watched through its directory.
func watchDirs(schema string) ([]string, error) {
	if compiler.IsDescriptionFile(schema) {
		return []string{filepath.Dir(schema)}, nil
	}
	root := strings.TrimSuffix(schema, "/...")
	if root == schema {
		return []string{filepath.Clean(root)}, nil
	}
	var dirs []string
	err := filepath.WalkDir(filepath.Clean(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != filepath.Clean(root) && (strings.HasPrefix(name, ".") || name == "testdata") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

// relevant reports whether ev changes the schema. Events below target are
// the generator's own output.
func relevant(ev fsnotify.Event, schema, target string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if target != "" {
		if rel, err := filepath.Rel(target, ev.Name); err == nil && filepath.IsLocal(rel) {
			return false
		}
	}
	if compiler.IsDescriptionFile(schema) {
		return filepath.Clean(ev.Name) == filepath.Clean(schema)
	}
	return filepath.Ext(ev.Name) == ".go" && !strings.HasSuffix(ev.Name, "_test.go")
}

