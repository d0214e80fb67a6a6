package conic

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Solve passes p to solver and converts the result into a Solution. The
// solver is called exactly once; its errors are returned wrapped in a
// SolveError and are not retried.
//
//	solution, err := conic.Solve(problem, solver,
//		conic.WithTolerance(1e-8),
//		conic.WithLogger(logger),
//	)
func Solve(p *Problem, solver Solver, opts ...SolveOption) (*Solution, error) {
	const op = "Solve"
	cfg := newSolveConfig(opts)
	log := cfg.logger

	if solver == nil {
		return nil, newError(op, SolveError, ErrNilSolver)
	}
	numVars, dim := p.A.Rows, p.A.Cols
	if len(p.B) != numVars || len(p.C) != dim || p.Cone.Dim() != dim {
		return nil, newErrorf(op, SolveError, ErrDimensionMismatch,
			"A is %dx%d, len(b)=%d, len(c)=%d, cone dim %d", numVars, dim, len(p.B), len(p.C), p.Cone.Dim())
	}

	log.Debug("Starting solve",
		zap.Int("variables", numVars),
		zap.Int("cone_rows", dim),
		zap.Int("nonzeros", p.A.NNZ()),
		zap.Int("zero", p.Cone.Zero),
		zap.Int("linear", p.Cone.Linear),
		zap.Ints("soc", p.Cone.SOC),
		zap.Ints("rotated_soc", p.Cone.RotatedSOC),
		zap.Ints("psd", p.Cone.PSD))
	cfg.metrics.observeProblem(p)

	start := time.Now()
	raw, err := solver.Solve(p.A, p.B, p.C, p.Cone.clone(), cfg.options)
	elapsed := time.Since(start)
	if err != nil {
		cfg.metrics.observeError()
		log.Error("Solver failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, newError(op, SolveError, err)
	}
	if raw == nil {
		cfg.metrics.observeError()
		return nil, newError(op, SolveError, fmt.Errorf("solver returned no result"))
	}
	if raw.Info.PrimalInfeasible && raw.Info.DualInfeasible {
		cfg.metrics.observeError()
		return nil, newErrorf(op, SolveError, ErrInconsistentDiagnostics, "%v", raw.Info)
	}

	x, err := expandSlice(dim, raw.X, 0)
	if err != nil {
		cfg.metrics.observeError()
		return nil, newErrorf(op, SolveError, err, "solver primal vector")
	}
	y, err := expandSlice(numVars, raw.Y, 0)
	if err != nil {
		cfg.metrics.observeError()
		return nil, newErrorf(op, SolveError, err, "solver dual vector")
	}

	term, primal, dual := Classify(raw.Info)
	sol := &Solution{
		termination: term,
		primal:      primal,
		dual:        dual,
		objective:   objectiveValue(p, y),
		info:        raw.Info,
		solveTime:   elapsed,
		x:           x,
		y:           y,
		slack:       slack(p, y),
		layout:      p.Layout,
	}
	cfg.metrics.observeSolve(term, elapsed)

	fields := []zap.Field{
		zap.Stringer("termination", term),
		zap.Stringer("primal_status", primal),
		zap.Stringer("dual_status", dual),
		zap.Float64("objective", sol.objective),
		zap.Duration("elapsed", elapsed),
		zap.String("raw_status", raw.Info.String()),
	}
	switch raw.Info.Accuracy {
	case AccuracyExact:
		log.Info("Solve finished", fields...)
	default:
		log.Warn("Solve finished with degraded accuracy", fields...)
	}
	return sol, nil
}

// objectiveValue returns ±bᵀy plus the objective constant. B holds the
// negated objective when minimizing.
func objectiveValue(p *Problem, y []float64) float64 {
	v := floats.Dot(p.B, y)
	if !p.Maximize {
		v = -v
	}
	return v + p.ObjectiveConstant
}

// slack returns c − Aᵀy; the solver does not report it.
func slack(p *Problem, y []float64) []float64 {
	s := p.A.MulTransVec(y)
	floats.SubTo(s, p.C, s)
	return s
}
