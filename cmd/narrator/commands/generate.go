package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/narrator/cmd/narrator/output"
	"github.com/syssam/narrator/compiler"
	"github.com/syssam/narrator/compiler/gen"
)

func newGenerateCmd(g *globals) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the artifacts of every table",
		Long: `Generate the model, DAO, DTO and converter files of every table in the schema.

Existing files are kept unless --overwrite is set. Tables with schema faults
are skipped and reported; the other tables are still generated.

Examples:
  narrator generate -s ./tables -o ./generated -p example.com/app/generated
  narrator generate -c narrator.yaml --table UsersTable --overwrite
  narrator generate -s schema.yaml -o ./generated -p example.com/app/generated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, cfg, err := f.config(cmd, g)
			if err != nil {
				return err
			}
			return generate(cmd.Context(), schema, cfg, g.verbose)
		},
	}
	f.register(cmd)
	return cmd
}

// generate runs one generation with a fresh file writer and prints its
// report. Skipped tables make it fail after the others are written.
func generate(ctx context.Context, schema string, cfg *gen.Config, verbose bool) error {
	start := time.Now()
	c := *cfg
	w := gen.NewFileWriter(c.Target, c.Overwrite)
	c.Writer = w

	report, err := compiler.GenerateConfig(ctx, schema, &c)
	if err != nil {
		return err
	}

	output.Section("Generated " + schema)
	for _, t := range report.Tables {
		output.Success("%s", t)
	}
	for _, f := range report.Faults {
		output.Warning("%v", f)
	}
	if verbose {
		for _, p := range report.Files {
			output.Muted("  %s", p)
		}
	}
	m := w.Metrics()
	output.Info("%d file(s) written in %s", m.FilesWritten, time.Since(start).Round(time.Millisecond))
	if n := len(m.Skipped); n > 0 {
		output.Muted("%d existing file(s) kept, use --overwrite to replace them", n)
	}
	if n := len(report.Faults); n > 0 {
		return fmt.Errorf("%d table(s) skipped", n)
	}
	return nil
}
