package conic

import "testing"

// recordingSolver returns a fixed result and keeps the inputs of the last
// call.
type recordingSolver struct {
	result *RawResult
	err    error

	calls int
	a     *SparseMatrix
	b, c  []float64
	cone  Cone
	opts  Options
}

func (r *recordingSolver) Solve(a *SparseMatrix, b, c []float64, cone Cone, opts Options) (*RawResult, error) {
	r.calls++
	r.a, r.cone, r.opts = a, cone, opts
	r.b = append([]float64(nil), b...)
	r.c = append([]float64(nil), c...)
	return r.result, r.err
}

func optimal(x, y []float64) *recordingSolver {
	return &recordingSolver{result: &RawResult{X: x, Y: y}}
}

// equalityModel is x1 + x2 = 1, minimize x1.
func equalityModel() *Model {
	m := &Model{NumVars: 2, Objective: SingleVariable(0)}
	m.AddConstraint("sum", ScalarAffine{Terms: []Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}}, EqualTo{Value: 1})
	return m
}

func mustProblem(t *testing.T, m *Model) *Problem {
	t.Helper()
	p, _, err := m.Canonicalize()
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	return p
}
