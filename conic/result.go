package conic

import (
	"gonum.org/v1/gonum/mat"
)

// VariableValue returns the value of variable v.
func (s *Solution) VariableValue(v VariableIndex) (float64, error) {
	if v < 0 || int(v) >= len(s.y) {
		return 0, newErrorf("VariableValue", ResultError, ErrVariableOutOfRange, "variable %d", v)
	}
	return s.y[v], nil
}

// ConstraintPrimal returns the value of the constraint function at the
// variable values. PSD constraints are returned in packed form.
func (s *Solution) ConstraintPrimal(ci ConstraintIndex) ([]float64, error) {
	set, row, err := s.resolve("ConstraintPrimal", ci)
	if err != nil {
		return nil, err
	}
	if psd, ok := set.(PSDTriangle); ok {
		return s.readTriangle(s.slack[row:], psd.Side, false), nil
	}
	out := s.read(s.slack, row, set)
	// Only scalar sets carry a non-zero set constant.
	for i := range out {
		out[i] += set.setConstant()
	}
	return out, nil
}

// ConstraintDual returns the dual value of the constraint. PSD constraints
// are returned in packed form, with the dual matrix D satisfying
// ⟨D, F⟩ = Σ dᵢᵢfᵢᵢ + 2 Σ_{i<j} dᵢⱼfᵢⱼ for the packed function F.
func (s *Solution) ConstraintDual(ci ConstraintIndex) ([]float64, error) {
	set, row, err := s.resolve("ConstraintDual", ci)
	if err != nil {
		return nil, err
	}
	if psd, ok := set.(PSDTriangle); ok {
		return s.readTriangle(s.x[row:], psd.Side, true), nil
	}
	return s.read(s.x, row, set), nil
}

// ConstraintPrimalMatrix returns the primal value of a PSD constraint as a
// symmetric matrix.
func (s *Solution) ConstraintPrimalMatrix(ci ConstraintIndex) (*mat.SymDense, error) {
	return s.symMatrix(ci, s.ConstraintPrimal)
}

// ConstraintDualMatrix returns the dual value of a PSD constraint as a
// symmetric matrix.
func (s *Solution) ConstraintDualMatrix(ci ConstraintIndex) (*mat.SymDense, error) {
	return s.symMatrix(ci, s.ConstraintDual)
}

func (s *Solution) symMatrix(ci ConstraintIndex, value func(ConstraintIndex) ([]float64, error)) (*mat.SymDense, error) {
	set, _, err := s.resolve("ConstraintMatrix", ci)
	if err != nil {
		return nil, err
	}
	psd, ok := set.(PSDTriangle)
	if !ok {
		return nil, newErrorf("ConstraintMatrix", ResultError, ErrFunctionSetMismatch, "%v is not a PSD set", set)
	}
	v, err := value(ci)
	if err != nil {
		return nil, err
	}
	return SymMatrix(v, psd.Side), nil
}

// SymMatrix returns the side×side symmetric matrix whose packed upper
// triangle is v.
func SymMatrix(v []float64, side int) *mat.SymDense {
	return mat.NewSymDense(side, PackedToSquare(v, side))
}

func (s *Solution) resolve(op string, ci ConstraintIndex) (Set, int, error) {
	if s.layout == nil {
		return nil, 0, newError(op, ResultError, ErrNoSolution)
	}
	info, err := s.layout.info(ci)
	if err != nil {
		return nil, 0, err
	}
	row, _, err := s.layout.Rows(ci)
	if err != nil {
		return nil, 0, err
	}
	return info.set, row, nil
}

// read copies the rows of a non-PSD constraint, undoing the sign flip of
// upper-bound style sets.
func (s *Solution) read(vec []float64, row int, set Set) []float64 {
	n := set.Dimension()
	sg := sign(set.flipped())
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = sg * vec[row+i]
	}
	return out
}

// readTriangle reads a square PSD block into packed form and unscales it.
// With fold set, the lower mirror of each off-diagonal entry is added to
// the upper one first.
func (s *Solution) readTriangle(block []float64, side int, fold bool) []float64 {
	packed := SquareToPacked(block[:side*side], side)
	if fold {
		t := 0
		for c := 0; c < side; c++ {
			for r := 0; r <= c; r++ {
				if r != c {
					packed[t] += block[SquareIndex(c, r, side)]
				}
				t++
			}
		}
	}
	return UnscaleTriangle(packed, side, false)
}
