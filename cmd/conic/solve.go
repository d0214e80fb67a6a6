package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bartolsthoorn/goconic/conic"
	"github.com/bartolsthoorn/goconic/internal/execsolver"
	"github.com/bartolsthoorn/goconic/internal/problemfile"
)

func newSolveCmd(a *app) *cobra.Command {
	var metricsFile string
	cmd := &cobra.Command{
		Use:   "solve <problem>",
		Short: "Solve a problem with the configured external solver",
		Long: `solve canonicalizes a problem, runs the solver program once and prints
the termination status, objective value, variable values and the primal and
dual value of every constraint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Solver.Command == "" {
				return fmt.Errorf("no solver configured: set solver.command or pass --solver")
			}
			prob, err := problemfile.Load(args[0])
			if err != nil {
				return err
			}

			solver := execsolver.New(a.cfg.Solver.Command, a.cfg.Solver.Args...).WithLogger(a.logger)
			solver.Stderr = cmd.ErrOrStderr()
			reg := prometheus.NewRegistry()
			opts := append(a.cfg.SolveOptions(),
				conic.WithLogger(a.logger),
				conic.WithMetrics(conic.NewMetrics(reg)),
			)

			sol, err := prob.Model.Solve(solver, opts...)
			if err != nil {
				return err
			}
			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}
			return writeSolution(cmd.OutOrStdout(), prob, sol)
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write solve metrics in Prometheus text format to this file")
	return cmd
}

func writeSolution(w io.Writer, prob *problemfile.Problem, sol *conic.Solution) error {
	fmt.Fprintf(w, "termination: %s\n", sol.Termination())
	fmt.Fprintf(w, "primal status: %s\n", sol.PrimalStatus())
	fmt.Fprintf(w, "dual status: %s\n", sol.DualStatus())
	fmt.Fprintf(w, "raw status: %s\n", sol.RawStatus())
	if !prob.Feasibility {
		fmt.Fprintf(w, "objective: %g\n", sol.ObjectiveValue())
	}
	fmt.Fprintf(w, "solve time: %s\n", sol.SolveTime())

	fmt.Fprintln(w, "variables:")
	for i, name := range prob.Variables {
		v, err := sol.VariableValue(conic.VariableIndex(i))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s = %g\n", name, v)
	}
	fmt.Fprintln(w, "constraints:")
	for i, name := range prob.Constraints {
		ci := conic.ConstraintIndex(i)
		primal, err := sol.ConstraintPrimal(ci)
		if err != nil {
			return err
		}
		dual, err := sol.ConstraintDual(ci)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s: primal=%v dual=%v\n", name, primal, dual)
	}
	return nil
}
