// Package commands implements the narrator command line.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/syssam/narrator/cmd/narrator/output"
)

// globals are the flags shared by every command.
type globals struct {
	configFile string
	verbose    bool
}

// logger returns the text logger of a run. Faults are shown by default and
// per-file progress with --verbose.
func (g *globals) logger() *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newRootCmd returns the narrator command tree.
func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "narrator",
		Short: "Generate models, DAOs, DTOs and converters from table schemas",
		Long: `narrator reads table declarations, either Go packages embedding schema.Table or
a YAML/JSON schema description, and generates for every table:

  - the persistence model and its DAO
  - the transport DTO, with json and msgpack tags
  - the converters between the two

Nested record types referenced by the columns are generated once and shared.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "YAML config file (flags override its values)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newGenerateCmd(g), newWatchCmd(g))
	return root
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}
