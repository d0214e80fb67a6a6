package conic

import (
	"slices"
	"time"
)

// Solution contains the results of a solve. It is immutable; the
// accessors return copies.
type Solution struct {
	termination TerminationStatus
	primal      ResultStatus
	dual        ResultStatus
	objective   float64
	info        Diagnostics
	solveTime   time.Duration

	// x and y are the solver's primal and dual vectors; slack is c − Aᵀy.
	x     []float64
	y     []float64
	slack []float64

	layout *ConeLayout
}

// Termination returns the termination status.
func (s *Solution) Termination() TerminationStatus { return s.termination }

// PrimalStatus returns the status of the variable values.
func (s *Solution) PrimalStatus() ResultStatus { return s.primal }

// DualStatus returns the status of the constraint duals.
func (s *Solution) DualStatus() ResultStatus { return s.dual }

// ObjectiveValue returns the objective at the variable values, including
// the objective constant.
func (s *Solution) ObjectiveValue() float64 { return s.objective }

// Diagnostics returns the solver's raw diagnostics.
func (s *Solution) Diagnostics() Diagnostics { return s.info }

// RawStatus returns the diagnostics formatted as the solver reported them.
func (s *Solution) RawStatus() string { return s.info.String() }

// SolveTime returns the wall-clock duration of the external solve call.
func (s *Solution) SolveTime() time.Duration { return s.solveTime }

// Layout returns the layout the solution was produced for.
func (s *Solution) Layout() *ConeLayout { return s.layout }

// IsOptimal returns true if the solution is optimal, to full or reduced
// accuracy.
func (s *Solution) IsOptimal() bool {
	return s.termination.IsOptimal()
}

// IsInfeasible returns true if the problem was found infeasible.
func (s *Solution) IsInfeasible() bool {
	return s.termination == Infeasible || s.termination == AlmostInfeasible
}

// IsUnbounded returns true if the problem was found dual infeasible.
func (s *Solution) IsUnbounded() bool {
	return s.termination == DualInfeasible || s.termination == AlmostDualInfeasible
}

// HasSolution returns true if the variable values carry a result.
func (s *Solution) HasSolution() bool {
	return s.primal.HasSolution()
}

// VariableValues returns the value of every variable.
func (s *Solution) VariableValues() []float64 { return slices.Clone(s.y) }

// SolverPrimal returns the solver's primal vector, one entry per cone row.
func (s *Solution) SolverPrimal() []float64 { return slices.Clone(s.x) }

// Slack returns c − Aᵀy, one entry per cone row.
func (s *Solution) Slack() []float64 { return slices.Clone(s.slack) }
