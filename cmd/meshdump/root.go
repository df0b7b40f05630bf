package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	Verbose bool
}

// cli carries the state a command run needs. log is nil until
// PersistentPreRunE builds it, unless the caller injected one.
type cli struct {
	flags globalFlags
	log   *zap.Logger
}

// newRootCmd builds the command tree. A nil logger means one is built from
// --verbose before any subcommand runs.
func newRootCmd(log *zap.Logger) *cobra.Command {
	c := &cli{log: log}

	root := &cobra.Command{
		Use:   "meshdump",
		Short: "Export scene scripts as binary triangle meshes",
		Long: `meshdump evaluates a scene script, tessellates its parts and writes
the result as a little-endian binary mesh: a vertex count and an index
count, then all positions, all normals, all colors and the triangle indices.

Commands:
  export SCRIPT -o OUT   evaluate, tessellate and write a mesh file
  info FILE              summarize a mesh file from its header and positions
  dump FILE              print every vertex and triangle of a mesh file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.log != nil {
				return nil
			}
			log, err := newLogger(c.flags.Verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			c.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&c.flags.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newExportCmd(c))
	root.AddCommand(newInfoCmd(c))
	root.AddCommand(newDumpCmd(c))
	return root
}

// newLogger returns a development logger at debug level when verbose is
// set, otherwise a production logger at info level. Both write to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
