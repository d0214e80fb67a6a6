package conic

import (
	"fmt"
)

// Problem is the solver-native form of a model:
//
//	Primal (solved by the Solver):  minimize cᵀx  subject to  A·x = b, x ∈ K
//	Dual   (the caller's problem):  maximize bᵀy  subject to  c − Aᵀy ∈ K
//
// A is NumVariables × Cone.Dim(): one row per variable and one column per
// cone row. This orientation is used whatever the shape of the problem.
type Problem struct {
	A    *SparseMatrix
	B    []float64
	C    []float64
	Cone Cone

	// ObjectiveConstant is added to the objective value after the solve.
	ObjectiveConstant float64
	// Maximize records the caller's objective sense. B already carries
	// the matching sign.
	Maximize bool

	Layout *ConeLayout
}

// LoadPhase is the second pass of the two-pass build. It places the
// coefficients of each constraint at the rows its ConeLayout assigned.
type LoadPhase struct {
	layout   *ConeLayout
	nz       []Nonzero
	c        []float64
	b        []float64
	objConst float64
	maximize bool
	loaded   []bool
	done     bool
}

// NewLoadPhase returns an empty load phase over a frozen layout.
func NewLoadPhase(layout *ConeLayout) *LoadPhase {
	return &LoadPhase{
		layout: layout,
		c:      make([]float64, layout.Dim()),
		b:      make([]float64, layout.NumVariables()),
		loaded: make([]bool, layout.NumConstraints()),
	}
}

// Layout returns the layout the phase loads into.
func (p *LoadPhase) Layout() *ConeLayout { return p.layout }

// Load dispatches on the function type to LoadScalar or LoadVector.
func (p *LoadPhase) Load(ci ConstraintIndex, f Function) error {
	switch fn := f.(type) {
	case ScalarAffine:
		return p.LoadScalar(ci, fn)
	case VectorAffine:
		return p.LoadVector(ci, fn)
	default:
		return newErrorf("Load", LoadError, ErrFunctionSetMismatch, "function %T", f)
	}
}

// LoadScalar loads f into the row of the scalar constraint ci. Repeated
// variables are summed and zero coefficients dropped.
func (p *LoadPhase) LoadScalar(ci ConstraintIndex, f ScalarAffine) error {
	const op = "LoadScalar"
	info, row, err := p.begin(op, ci)
	if err != nil {
		return err
	}
	if !info.set.scalar() {
		return newErrorf(op, LoadError, ErrFunctionSetMismatch, "scalar function in %v", info.set)
	}
	terms, err := combineTerms(f.Terms, p.layout.NumVariables())
	if err != nil {
		return newError(op, LoadError, err)
	}

	s := sign(info.set.flipped())
	p.c[row] = s * (f.Constant - info.set.setConstant())
	for _, t := range terms {
		p.nz = append(p.nz, Nonzero{Row: int(t.Var), Col: row, Val: -s * t.Coef})
	}
	p.loaded[ci] = true
	return nil
}

// LoadVector loads f into the rows of the vector constraint ci. For PSD
// sets each packed row is placed at its upper-triangular square slot with
// off-diagonal entries doubled.
func (p *LoadPhase) LoadVector(ci ConstraintIndex, f VectorAffine) error {
	const op = "LoadVector"
	info, row, err := p.begin(op, ci)
	if err != nil {
		return err
	}
	if info.set.scalar() {
		return newErrorf(op, LoadError, ErrFunctionSetMismatch, "vector function in %v", info.set)
	}
	dim := info.set.Dimension()
	if f.Rows() != dim {
		return newErrorf(op, LoadError, ErrDimensionMismatch, "%d rows in %v", f.Rows(), info.set)
	}
	byRow, err := combineVectorTerms(f.Terms, dim, p.layout.NumVariables())
	if err != nil {
		return newError(op, LoadError, err)
	}

	s := sign(info.set.flipped())
	target, factor := identityRows(dim), unitFactors(dim)
	if psd, ok := info.set.(PSDTriangle); ok {
		target, factor = triangleToSquare(psd.Side), triangleFactors(psd.Side, loadOffDiagonal)
	}
	for k := 0; k < dim; k++ {
		r := row + target[k]
		p.c[r] = s * factor[k] * f.Constants[k]
		for _, t := range byRow[k] {
			p.nz = append(p.nz, Nonzero{Row: int(t.Var), Col: r, Val: -s * factor[k] * t.Coef})
		}
	}
	p.loaded[ci] = true
	return nil
}

// SetObjective sets the objective to f. Repeated variables are summed. The
// objective may be set any number of times before Finalize.
func (p *LoadPhase) SetObjective(f ScalarAffine, maximize bool) error {
	const op = "SetObjective"
	if p.done {
		return newError(op, LoadError, ErrFinalized)
	}
	b := make([]float64, p.layout.NumVariables())
	for _, t := range f.Terms {
		if t.Var < 0 || int(t.Var) >= len(b) {
			return newErrorf(op, LoadError, ErrVariableOutOfRange, "variable %d", t.Var)
		}
		b[t.Var] += t.Coef
	}
	// The solver maximizes bᵀy.
	if !maximize {
		for i := range b {
			b[i] = -b[i]
		}
	}
	p.b = b
	p.objConst = f.Constant
	p.maximize = maximize
	return nil
}

// Finalize assembles the constraint matrix and returns the problem. The
// phase drops its triplet storage before the matrix is built and rejects
// every later call.
func (p *LoadPhase) Finalize() (*Problem, error) {
	const op = "Finalize"
	if p.done {
		return nil, newError(op, LoadError, ErrFinalized)
	}
	for ci, ok := range p.loaded {
		if !ok {
			return nil, newErrorf(op, LoadError, ErrNotLoaded, "constraint %d", ci)
		}
	}
	p.done = true

	nz := p.nz
	p.nz = nil
	a, err := nonzerosToCSC(p.layout.NumVariables(), p.layout.Dim(), nz)
	if err != nil {
		return nil, newError(op, LoadError, err)
	}
	prob := &Problem{
		A:                 a,
		B:                 p.b,
		C:                 p.c,
		Cone:              p.layout.Cone(),
		ObjectiveConstant: p.objConst,
		Maximize:          p.maximize,
		Layout:            p.layout,
	}
	p.b, p.c = nil, nil
	return prob, nil
}

// begin validates ci for loading and returns its table entry and first
// absolute row.
func (p *LoadPhase) begin(op string, ci ConstraintIndex) (constraintInfo, int, error) {
	if p.done {
		return constraintInfo{}, 0, newError(op, LoadError, ErrFinalized)
	}
	info, err := p.layout.info(ci)
	if err != nil {
		return constraintInfo{}, 0, err
	}
	if p.loaded[ci] {
		return constraintInfo{}, 0, newErrorf(op, LoadError, ErrAlreadyLoaded, "constraint %d", ci)
	}
	row, _, err := p.layout.Rows(ci)
	if err != nil {
		return constraintInfo{}, 0, err
	}
	return info, row, nil
}

func identityRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func unitFactors(n int) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = 1
	}
	return f
}

// triangleFactors returns 1 for diagonal packed rows and offDiagonal for
// the others.
func triangleFactors(side int, offDiagonal float64) []float64 {
	f := make([]float64, 0, PackedLength(side))
	for c := 0; c < side; c++ {
		for r := 0; r <= c; r++ {
			if r == c {
				f = append(f, 1)
			} else {
				f = append(f, offDiagonal)
			}
		}
	}
	return f
}

func (p *Problem) String() string {
	return fmt.Sprintf("Problem{vars=%d rows=%d nnz=%d cone=%+v}", p.A.Rows, p.A.Cols, p.A.NNZ(), p.Cone)
}
