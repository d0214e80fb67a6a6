package conic

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Sense is the objective sense.
type Sense int

const (
	// FeasibilitySense has no objective.
	FeasibilitySense Sense = iota
	// Minimize minimizes the objective.
	Minimize
	// Maximize maximizes the objective.
	Maximize
)

// String returns a human-readable representation of the sense.
func (s Sense) String() string {
	switch s {
	case FeasibilitySense:
		return "Feasibility"
	case Minimize:
		return "Minimize"
	case Maximize:
		return "Maximize"
	default:
		return "Unknown"
	}
}

// Optimizer is a single-owner session driving the two-pass build:
//
//	vars := opt.BeginAllocation(n)
//	ci, _ := opt.AllocateConstraint(conic.GreaterThan{Lower: 1})
//	...
//	_ = opt.LoadVariables(n)
//	_ = opt.LoadConstraint(ci, f, conic.GreaterThan{Lower: 1})
//	opt.SetObjectiveSense(conic.Minimize)
//	_ = opt.SetObjective(obj)
//	_ = opt.Optimize()
//
// followed by result queries. It is not safe for concurrent use.
type Optimizer struct {
	solver Solver
	opts   []SolveOption
	logger *zap.Logger

	alloc *AllocationPhase
	load  *LoadPhase

	sense     Sense
	objective ScalarAffine

	sol *Solution
}

// New returns an empty optimizer that solves with solver. opts are applied
// to every Optimize call.
func New(solver Solver, opts ...SolveOption) *Optimizer {
	return &Optimizer{
		solver: solver,
		opts:   opts,
		logger: newSolveConfig(opts).logger,
	}
}

// Empty discards the model and any solution.
func (o *Optimizer) Empty() {
	o.alloc, o.load = nil, nil
	o.sense, o.objective = FeasibilitySense, ScalarAffine{}
	o.sol = nil
}

// IsEmpty reports whether no model has been started.
func (o *Optimizer) IsEmpty() bool {
	return o.alloc == nil && o.load == nil
}

// BeginAllocation starts a new model with numVars variables and returns
// their indices. Any previous model and solution are discarded.
func (o *Optimizer) BeginAllocation(numVars int) []VariableIndex {
	o.Empty()
	o.alloc = NewAllocationPhase(numVars)
	vars := make([]VariableIndex, numVars)
	for i := range vars {
		vars[i] = VariableIndex(i)
	}
	return vars
}

// AllocateConstraint reserves rows for a constraint in set s. It fails
// once loading has begun.
func (o *Optimizer) AllocateConstraint(s Set) (ConstraintIndex, error) {
	if o.load != nil {
		return -1, newError("AllocateConstraint", LayoutError, ErrLayoutFrozen)
	}
	if o.alloc == nil {
		return -1, newErrorf("AllocateConstraint", LayoutError, ErrLayoutFrozen, "BeginAllocation not called")
	}
	return o.alloc.Allocate(s)
}

// LoadVariables freezes the layout and starts loading. numVars must match
// the count passed to BeginAllocation.
func (o *Optimizer) LoadVariables(numVars int) error {
	const op = "LoadVariables"
	if o.alloc == nil {
		return newErrorf(op, LayoutError, ErrLayoutFrozen, "BeginAllocation not called")
	}
	if numVars != o.alloc.NumVariables() {
		return newErrorf(op, LoadError, ErrDimensionMismatch, "%d variables, allocated %d", numVars, o.alloc.NumVariables())
	}
	layout := o.alloc.Finalize()
	o.alloc = nil
	o.load = NewLoadPhase(layout)
	c := layout.Cone()
	o.logger.Debug("Layout finalized",
		zap.Int("variables", layout.NumVariables()),
		zap.Int("constraints", layout.NumConstraints()),
		zap.Int("cone_rows", layout.Dim()),
		zap.Int("zero", c.Zero),
		zap.Int("linear", c.Linear),
		zap.Int("soc_blocks", len(c.SOC)),
		zap.Int("rotated_soc_blocks", len(c.RotatedSOC)),
		zap.Int("psd_blocks", len(c.PSD)))
	return nil
}

// LoadConstraint fills in the coefficients of constraint ci. s must equal
// the set ci was allocated with.
func (o *Optimizer) LoadConstraint(ci ConstraintIndex, f Function, s Set) error {
	const op = "LoadConstraint"
	if o.load == nil {
		return newErrorf(op, LoadError, ErrLayoutFrozen, "LoadVariables not called")
	}
	allocated, err := o.load.Layout().Set(ci)
	if err != nil {
		return err
	}
	if allocated != s {
		return newErrorf(op, LoadError, ErrFunctionSetMismatch, "allocated %v, loading %v", allocated, s)
	}
	return o.load.Load(ci, f)
}

// SetObjectiveSense sets the objective sense.
func (o *Optimizer) SetObjectiveSense(sense Sense) { o.sense = sense }

// ObjectiveSense returns the objective sense.
func (o *Optimizer) ObjectiveSense() Sense { return o.sense }

// SetObjective sets the objective function. It is applied at Optimize.
func (o *Optimizer) SetObjective(f ScalarAffine) error {
	o.objective = f
	return nil
}

// Optimize assembles the problem and solves it. The previous solution, if
// any, is replaced. The loaded model is consumed: a new model must be
// built before the next Optimize.
func (o *Optimizer) Optimize() error {
	const op = "Optimize"
	if o.load == nil {
		return newErrorf(op, LoadError, ErrLayoutFrozen, "LoadVariables not called")
	}
	o.sol = nil

	objective := o.objective
	if o.sense == FeasibilitySense {
		objective = ScalarAffine{}
	}
	if err := o.load.SetObjective(objective, o.sense == Maximize); err != nil {
		return err
	}
	prob, err := o.load.Finalize()
	if err != nil {
		return err
	}
	// The load phase is released before the solver builds its own
	// structures.
	o.load = nil

	sol, err := Solve(prob, o.solver, o.opts...)
	if err != nil {
		return err
	}
	o.sol = sol
	return nil
}

// ResultCount returns 1 after a successful Optimize and 0 otherwise.
func (o *Optimizer) ResultCount() int {
	if o.sol == nil {
		return 0
	}
	return 1
}

// Solution returns the last solution, or nil.
func (o *Optimizer) Solution() *Solution { return o.sol }

// SolveTime returns the duration of the last solve. It must only be called
// after a successful Optimize; it returns 0 otherwise.
func (o *Optimizer) SolveTime() time.Duration {
	if o.sol == nil {
		return 0
	}
	return o.sol.SolveTime()
}

// RawStatus returns the solver's raw diagnostics. It must only be called
// after a successful Optimize; it returns "" otherwise.
func (o *Optimizer) RawStatus() string {
	if o.sol == nil {
		return ""
	}
	return o.sol.RawStatus()
}

// TerminationStatus returns OptimizeNotCalled before a solve.
func (o *Optimizer) TerminationStatus() TerminationStatus {
	if o.sol == nil {
		return OptimizeNotCalled
	}
	return o.sol.Termination()
}

// PrimalStatus returns NoSolution before a solve.
func (o *Optimizer) PrimalStatus() ResultStatus {
	if o.sol == nil {
		return NoSolution
	}
	return o.sol.PrimalStatus()
}

// DualStatus returns NoSolution before a solve.
func (o *Optimizer) DualStatus() ResultStatus {
	if o.sol == nil {
		return NoSolution
	}
	return o.sol.DualStatus()
}

// ObjectiveValue returns the objective value of the last solution.
func (o *Optimizer) ObjectiveValue() (float64, error) {
	if o.sol == nil {
		return 0, o.noSolution("ObjectiveValue")
	}
	return o.sol.ObjectiveValue(), nil
}

// VariableValue returns the value of v in the last solution.
func (o *Optimizer) VariableValue(v VariableIndex) (float64, error) {
	if o.sol == nil {
		return 0, o.noSolution("VariableValue")
	}
	return o.sol.VariableValue(v)
}

// ConstraintPrimal returns the primal value of ci in the last solution.
func (o *Optimizer) ConstraintPrimal(ci ConstraintIndex) ([]float64, error) {
	if o.sol == nil {
		return nil, o.noSolution("ConstraintPrimal")
	}
	return o.sol.ConstraintPrimal(ci)
}

// ConstraintDual returns the dual value of ci in the last solution.
func (o *Optimizer) ConstraintDual(ci ConstraintIndex) ([]float64, error) {
	if o.sol == nil {
		return nil, o.noSolution("ConstraintDual")
	}
	return o.sol.ConstraintDual(ci)
}

func (o *Optimizer) noSolution(op string) error {
	return newError(op, ResultError, ErrNoSolution)
}

// String summarizes the optimizer state.
func (o *Optimizer) String() string {
	switch {
	case o.alloc != nil:
		return fmt.Sprintf("Optimizer{allocating, %d variables}", o.alloc.NumVariables())
	case o.load != nil:
		return fmt.Sprintf("Optimizer{loading, %d rows}", o.load.Layout().Dim())
	case o.sol != nil:
		return fmt.Sprintf("Optimizer{solved, %s}", o.sol.Termination())
	default:
		return "Optimizer{empty}"
	}
}
