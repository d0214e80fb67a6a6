package conic

// Constraint is a function constrained to lie in a set.
type Constraint struct {
	// Name is optional and only used for reporting.
	Name     string
	Function Function
	Set      Set
}

// Model represents a complete conic optimization problem:
//
//	Minimize (or Maximize): Objective(x)
//	Subject to:             Fᵢ(x) ∈ Sᵢ  for every constraint i
//
// with NumVars free variables. It runs both passes of the build in one
// call, so it suits callers that already hold the whole model.
type Model struct {
	// NumVars is the number of variables.
	NumVars int

	// Maximize indicates whether to maximize (true) or minimize (false).
	Maximize bool

	// Objective is the objective function. Its constant is added to the
	// reported objective value.
	Objective ScalarAffine

	// Constraints are the constraints in allocation order. The i-th
	// constraint receives ConstraintIndex(i).
	Constraints []Constraint
}

// AddConstraint appends a constraint and returns its index.
//
// Example:
//
//	model.AddConstraint("budget", conic.ScalarAffine{
//		Terms: []conic.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}},
//	}, conic.EqualTo{Value: 1})
func (m *Model) AddConstraint(name string, f Function, s Set) ConstraintIndex {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Function: f, Set: s})
	return ConstraintIndex(len(m.Constraints) - 1)
}

// Canonicalize allocates and loads every constraint and returns the
// solver-native problem, along with the index of each constraint.
func (m *Model) Canonicalize() (*Problem, []ConstraintIndex, error) {
	alloc := NewAllocationPhase(m.NumVars)
	indices := make([]ConstraintIndex, len(m.Constraints))
	for i, c := range m.Constraints {
		ci, err := alloc.Allocate(c.Set)
		if err != nil {
			return nil, nil, err
		}
		indices[i] = ci
	}

	load := NewLoadPhase(alloc.Finalize())
	for i, c := range m.Constraints {
		if err := load.Load(indices[i], c.Function); err != nil {
			return nil, nil, err
		}
	}
	if err := load.SetObjective(m.Objective, m.Maximize); err != nil {
		return nil, nil, err
	}
	prob, err := load.Finalize()
	if err != nil {
		return nil, nil, err
	}
	return prob, indices, nil
}

// Solve canonicalizes the model and solves it with solver.
//
//	solution, err := model.Solve(solver, conic.WithTolerance(1e-8))
func (m *Model) Solve(solver Solver, opts ...SolveOption) (*Solution, error) {
	prob, _, err := m.Canonicalize()
	if err != nil {
		return nil, err
	}
	return Solve(prob, solver, opts...)
}
