package conic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// build allocates sets in order and returns the load phase and indices.
func build(t *testing.T, numVars int, sets ...Set) (*LoadPhase, []ConstraintIndex) {
	t.Helper()
	a := NewAllocationPhase(numVars)
	cis := make([]ConstraintIndex, len(sets))
	for i, s := range sets {
		ci, err := a.Allocate(s)
		require.NoError(t, err)
		cis[i] = ci
	}
	return NewLoadPhase(a.Finalize()), cis
}

func terms(pairs ...float64) []Term {
	ts := make([]Term, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ts = append(ts, Term{Var: VariableIndex(pairs[i]), Coef: pairs[i+1]})
	}
	return ts
}

// x1 + x2 = 1, minimize x1.
func TestLoadEqualityScenario(t *testing.T) {
	p, cis := build(t, 2, EqualTo{Value: 1})
	require.NoError(t, p.LoadScalar(cis[0], ScalarAffine{Terms: terms(0, 1, 1, 1)}))
	require.NoError(t, p.SetObjective(SingleVariable(0), false))

	prob, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, Cone{Zero: 1}, prob.Cone)
	require.Equal(t, []float64{-1}, prob.C)
	require.Equal(t, []float64{-1, 0}, prob.B)
	want := []Nonzero{{Row: 0, Col: 0, Val: -1}, {Row: 1, Col: 0, Val: -1}}
	if diff := cmp.Diff(want, prob.A.Triplets()); diff != "" {
		t.Errorf("A mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, prob.A.Rows)
	require.Equal(t, 1, prob.A.Cols)
}

func TestLoadScalarCombinesDuplicates(t *testing.T) {
	p, cis := build(t, 2, GreaterThan{Lower: 2})
	f := ScalarAffine{Terms: terms(0, 1, 0, 2, 1, -3, 1, 3), Constant: 0.5}
	require.NoError(t, p.LoadScalar(cis[0], f))
	prob, err := p.Finalize()
	require.NoError(t, err)

	require.Equal(t, []float64{0.5 - 2}, prob.C)
	require.Equal(t, []Nonzero{{Row: 0, Col: 0, Val: -3}}, prob.A.Triplets())
}

func TestLoadLessThanFlipsSign(t *testing.T) {
	p, cis := build(t, 1, LessThan{Upper: 5})
	require.NoError(t, p.LoadScalar(cis[0], ScalarAffine{Terms: terms(0, 2), Constant: 1}))
	prob, err := p.Finalize()
	require.NoError(t, err)

	// 5 - (2x + 1) >= 0
	require.Equal(t, []float64{4}, prob.C)
	require.Equal(t, 2.0, prob.A.At(0, 0))
}

func TestLoadVectorSets(t *testing.T) {
	p, cis := build(t, 3,
		Nonpositives{Dim: 2},
		SecondOrderCone{Dim: 3},
		Zeros{Dim: 1},
	)
	np := VectorAffine{
		Terms:     []VectorTerm{{Row: 0, Term: Term{Var: 0, Coef: 1}}, {Row: 1, Term: Term{Var: 1, Coef: -1}}},
		Constants: []float64{1, 0},
	}
	soc := VectorAffine{
		Terms: []VectorTerm{
			{Row: 1, Term: Term{Var: 0, Coef: 1}},
			{Row: 2, Term: Term{Var: 1, Coef: 1}},
			{Row: 2, Term: Term{Var: 1, Coef: 1}},
		},
		Constants: []float64{1, 0, 0},
	}
	require.NoError(t, p.Load(cis[0], np))
	require.NoError(t, p.Load(cis[1], soc))
	require.NoError(t, p.Load(cis[2], VectorOfVariables(2)))
	prob, err := p.Finalize()
	require.NoError(t, err)

	// zero row 0, linear rows 1..2, soc rows 3..5
	require.Equal(t, []float64{0, -1, 0, 1, 0, 0}, prob.C)
	want := []Nonzero{
		{Row: 2, Col: 0, Val: -1},
		{Row: 0, Col: 1, Val: 1},
		{Row: 1, Col: 2, Val: -1},
		{Row: 0, Col: 4, Val: -1},
		{Row: 1, Col: 5, Val: -2},
	}
	if diff := cmp.Diff(want, prob.A.Triplets()); diff != "" {
		t.Errorf("A mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPSDTriangle(t *testing.T) {
	p, cis := build(t, 3, PSDTriangle{Side: 2})
	f := VectorAffine{
		Terms: []VectorTerm{
			{Row: 0, Term: Term{Var: 0, Coef: 1}},
			{Row: 1, Term: Term{Var: 1, Coef: 1}},
			{Row: 2, Term: Term{Var: 2, Coef: 1}},
		},
		Constants: []float64{1, 0.5, 0},
	}
	require.NoError(t, p.LoadVector(cis[0], f))
	prob, err := p.Finalize()
	require.NoError(t, err)

	require.Equal(t, Cone{PSD: []int{2}}, prob.Cone)
	// Square slots 0=(0,0), 1=(1,0), 2=(0,1), 3=(1,1); the lower slot stays empty.
	require.Equal(t, []float64{1, 0, 1, 0}, prob.C)
	want := []Nonzero{
		{Row: 0, Col: 0, Val: -1},
		{Row: 1, Col: 2, Val: -2},
		{Row: 2, Col: 3, Val: -1},
	}
	if diff := cmp.Diff(want, prob.A.Triplets()); diff != "" {
		t.Errorf("A mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPSDDiagonalOnly(t *testing.T) {
	p, cis := build(t, 2, PSDTriangle{Side: 2})
	f := VectorAffine{
		Terms: []VectorTerm{
			{Row: 0, Term: Term{Var: 0, Coef: 1}},
			{Row: 2, Term: Term{Var: 1, Coef: 1}},
		},
		Constants: []float64{3, 0, 5},
	}
	require.NoError(t, p.LoadVector(cis[0], f))
	prob, err := p.Finalize()
	require.NoError(t, err)

	require.Equal(t, []float64{3, 0, 0, 5}, prob.C)
	require.Equal(t, []float64{3, 0, 5}, SquareToPacked(prob.C, 2))
	require.Equal(t, -1.0, prob.A.At(0, 0))
	require.Equal(t, -1.0, prob.A.At(1, 3))
	require.Equal(t, 2, prob.A.NNZ())
}

func TestLoadErrors(t *testing.T) {
	p, cis := build(t, 2, EqualTo{}, Nonnegatives{Dim: 2})

	err := p.LoadScalar(cis[1], ScalarAffine{})
	require.ErrorIs(t, err, ErrFunctionSetMismatch)
	require.True(t, IsLoadError(err))

	err = p.LoadVector(cis[0], VectorOfVariables(0))
	require.ErrorIs(t, err, ErrFunctionSetMismatch)

	err = p.LoadVector(cis[1], VectorOfVariables(0))
	require.ErrorIs(t, err, ErrDimensionMismatch)

	err = p.LoadVector(cis[1], VectorAffine{
		Terms:     []VectorTerm{{Row: 2, Term: Term{Var: 0, Coef: 1}}},
		Constants: []float64{0, 0},
	})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	err = p.LoadScalar(cis[0], SingleVariable(2))
	require.ErrorIs(t, err, ErrVariableOutOfRange)

	err = p.LoadScalar(7, SingleVariable(0))
	require.ErrorIs(t, err, ErrUnknownConstraint)

	require.NoError(t, p.LoadScalar(cis[0], SingleVariable(0)))
	err = p.LoadScalar(cis[0], SingleVariable(0))
	require.ErrorIs(t, err, ErrAlreadyLoaded)

	_, err = p.Finalize()
	require.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, p.LoadVector(cis[1], VectorOfVariables(0, 1)))
	_, err = p.Finalize()
	require.NoError(t, err)
	require.Nil(t, p.nz, "triplet storage must be released")

	_, err = p.Finalize()
	require.ErrorIs(t, err, ErrFinalized)
	require.ErrorIs(t, p.SetObjective(ScalarAffine{}, false), ErrFinalized)
}

func TestSetObjective(t *testing.T) {
	p, _ := build(t, 3)
	f := ScalarAffine{Terms: terms(0, 1, 2, 4, 0, 2), Constant: 7}

	require.NoError(t, p.SetObjective(f, true))
	prob, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, []float64{3, 0, 4}, prob.B)
	require.Equal(t, 7.0, prob.ObjectiveConstant)
	require.True(t, prob.Maximize)

	p, _ = build(t, 3)
	require.NoError(t, p.SetObjective(f, false))
	prob, err = p.Finalize()
	require.NoError(t, err)
	require.Equal(t, []float64{-3, 0, -4}, prob.B)

	p, _ = build(t, 1)
	require.ErrorIs(t, p.SetObjective(SingleVariable(3), false), ErrVariableOutOfRange)
}
