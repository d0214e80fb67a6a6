// Command conic canonicalizes conic problem files and solves them with an
// external solver program.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bartolsthoorn/goconic/internal/config"
)

// app holds the global flags and the state built from them.
type app struct {
	verbose    bool
	configPath string
	solverCmd  string
	solverArgs []string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "conic",
		Short: "Canonicalize and solve conic optimization problems",
		Long: `conic reads a problem file (YAML, JSON or TOML) with named variables,
an objective and affine constraints over zero, nonnegative, second-order,
rotated second-order and positive-semidefinite cones.

"canon" prints the solver-native form of the problem; "solve" passes it to
an external solver that speaks the JSON protocol of internal/execsolver.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging and solver output")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&a.solverCmd, "solver", "", "Solver command (overrides solver.command)")
	root.PersistentFlags().StringArrayVar(&a.solverArgs, "solver-arg", nil, "Solver argument, repeatable (overrides solver.args)")

	root.AddCommand(newCanonCmd(a))
	root.AddCommand(newSolveCmd(a))
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}
	if a.solverCmd != "" {
		a.cfg.Solver.Command = a.solverCmd
	}
	if len(a.solverArgs) > 0 {
		a.cfg.Solver.Args = a.solverArgs
	}
	if a.verbose {
		a.cfg.Solver.Verbose = true
	}

	level, err := a.cfg.Level()
	if err != nil {
		return err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
