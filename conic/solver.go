package conic

import "fmt"

// Accuracy is the solver's numerical-accuracy code.
type Accuracy int

const (
	// AccuracyExact indicates the solution meets the requested tolerance.
	AccuracyExact Accuracy = iota
	// AccuracyReduced indicates the solution is usable but inaccurate.
	AccuracyReduced
	// AccuracyFailed indicates the solver failed numerically.
	AccuracyFailed
)

// String returns a human-readable representation of the accuracy code.
func (a Accuracy) String() string {
	switch a {
	case AccuracyExact:
		return "Exact"
	case AccuracyReduced:
		return "Reduced"
	case AccuracyFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Diagnostics is the solver's report on the outcome of a solve.
type Diagnostics struct {
	// PrimalInfeasible is set when the solver's primal (A·x = b, x ∈ K)
	// is infeasible; Y then holds a certificate.
	PrimalInfeasible bool
	// DualInfeasible is set when the solver's dual (c − Aᵀy ∈ K) is
	// infeasible; X then holds a certificate.
	DualInfeasible bool
	Accuracy       Accuracy
	// Iterations is informational; zero when the solver does not report it.
	Iterations int
	// Message is an optional free-form solver message.
	Message string
}

// String formats the diagnostics as the raw solver status.
func (d Diagnostics) String() string {
	s := fmt.Sprintf("pinf=%d dinf=%d numerr=%d", btoi(d.PrimalInfeasible), btoi(d.DualInfeasible), int(d.Accuracy))
	if d.Message != "" {
		s += " " + d.Message
	}
	return s
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RawResult is what a Solver returns: its primal vector X (one entry per
// cone row), its dual vector Y (one entry per variable) and diagnostics.
type RawResult struct {
	X    []float64
	Y    []float64
	Info Diagnostics
}

// Options are passed through to the Solver unchanged. Zero values mean
// "solver default".
type Options struct {
	Verbose       bool
	MaxIterations int
	Tolerance     float64
	// Params holds solver-specific numeric parameters.
	Params map[string]float64
}

// Solver solves
//
//	minimize cᵀx  subject to  A·x = b, x ∈ K
//
// together with its dual, where K is described by cone. Implementations
// must not retain a, b or c after returning.
type Solver interface {
	Solve(a *SparseMatrix, b, c []float64, cone Cone, opts Options) (*RawResult, error)
}

// SolverFunc adapts an ordinary function to the Solver interface.
type SolverFunc func(a *SparseMatrix, b, c []float64, cone Cone, opts Options) (*RawResult, error)

// Solve calls f.
func (f SolverFunc) Solve(a *SparseMatrix, b, c []float64, cone Cone, opts Options) (*RawResult, error) {
	return f(a, b, c, cone, opts)
}
