package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartolsthoorn/goconic/conic"
	"github.com/bartolsthoorn/goconic/internal/execsolver"
	"github.com/bartolsthoorn/goconic/internal/problemfile"
)

func newCanonCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "canon <problem>",
		Short: "Print the solver-native form of a problem",
		Long: `canon builds the cone layout and constraint matrix of a problem and
prints a summary. With --json it prints the exact request the solve command
would send to the solver.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prob, err := problemfile.Load(args[0])
			if err != nil {
				return err
			}
			p, cis, err := prob.Model.Canonicalize()
			if err != nil {
				return err
			}
			a.logger.Debug("Problem canonicalized",
				zap.String("path", args[0]),
				zap.Stringer("problem", p))
			if asJSON {
				return writeRequest(cmd.OutOrStdout(), p, a.cfg.SolveOptions())
			}
			return writeLayout(cmd.OutOrStdout(), prob, p, cis)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the solver request as JSON")
	return cmd
}

// writeRequest encodes p the way execsolver sends it. The options are
// captured by a solver that never runs the external program.
func writeRequest(w io.Writer, p *conic.Problem, opts []conic.SolveOption) error {
	var req *execsolver.Request
	capture := conic.SolverFunc(func(a *conic.SparseMatrix, b, c []float64, cone conic.Cone, o conic.Options) (*conic.RawResult, error) {
		req = execsolver.NewRequest(a, b, c, cone, o)
		return &conic.RawResult{}, nil
	})
	if _, err := conic.Solve(p, capture, opts...); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(req)
}

func writeLayout(w io.Writer, prob *problemfile.Problem, p *conic.Problem, cis []conic.ConstraintIndex) error {
	sense := "minimize"
	switch {
	case prob.Feasibility:
		sense = "feasibility"
	case p.Maximize:
		sense = "maximize"
	}
	fmt.Fprintf(w, "sense: %s\n", sense)
	fmt.Fprintf(w, "variables: %d\n", p.A.Rows)
	fmt.Fprintf(w, "cone rows: %d\n", p.A.Cols)
	fmt.Fprintf(w, "nonzeros: %d\n", p.A.NNZ())
	fmt.Fprintf(w, "cone: zero=%d linear=%d soc=%v rsoc=%v psd=%v\n",
		p.Cone.Zero, p.Cone.Linear, p.Cone.SOC, p.Cone.RotatedSOC, p.Cone.PSD)
	fmt.Fprintln(w, "constraints:")
	for i, ci := range cis {
		row, count, err := p.Layout.Rows(ci)
		if err != nil {
			return err
		}
		set, err := p.Layout.Set(ci)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s: %v rows [%d, %d)\n", prob.Constraints[i], set, row, row+count)
	}
	return nil
}
