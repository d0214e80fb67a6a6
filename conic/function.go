package conic

import (
	"fmt"
	"sort"
)

// VariableIndex identifies a decision variable. Variables are numbered
// 0..numVariables-1 in allocation order.
type VariableIndex int

// Term is a single coefficient·variable product.
type Term struct {
	Var  VariableIndex
	Coef float64
}

// VectorTerm is a Term contributing to output row Row of a vector function.
type VectorTerm struct {
	Row int
	Term
}

// Function is an affine function of the variables. It is implemented by
// ScalarAffine and VectorAffine only.
type Function interface {
	// Rows is the output dimension of the function.
	Rows() int
	isFunction()
}

// ScalarAffine is Σ Terms + Constant. Repeated variables are summed.
type ScalarAffine struct {
	Terms    []Term
	Constant float64
}

// VectorAffine is the vector whose row k is the sum of the terms with
// Row == k plus Constants[k]. Repeated (row, variable) pairs are summed.
type VectorAffine struct {
	Terms     []VectorTerm
	Constants []float64
}

func (ScalarAffine) Rows() int   { return 1 }
func (ScalarAffine) isFunction() {}

func (f VectorAffine) Rows() int { return len(f.Constants) }
func (VectorAffine) isFunction() {}

// SingleVariable returns the scalar function 1·v.
func SingleVariable(v VariableIndex) ScalarAffine {
	return ScalarAffine{Terms: []Term{{Var: v, Coef: 1}}}
}

// VectorOfVariables returns the vector function whose row k is vs[k].
func VectorOfVariables(vs ...VariableIndex) VectorAffine {
	f := VectorAffine{
		Terms:     make([]VectorTerm, len(vs)),
		Constants: make([]float64, len(vs)),
	}
	for k, v := range vs {
		f.Terms[k] = VectorTerm{Row: k, Term: Term{Var: v, Coef: 1}}
	}
	return f
}

// combineTerms sorts terms by variable, sums repeated variables and drops
// coefficients that are exactly zero after summation.
func combineTerms(terms []Term, numVars int) ([]Term, error) {
	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Var < sorted[j].Var })

	out := sorted[:0]
	for _, t := range sorted {
		if t.Var < 0 || int(t.Var) >= numVars {
			return nil, fmt.Errorf("variable %d: %w", t.Var, ErrVariableOutOfRange)
		}
		if n := len(out); n > 0 && out[n-1].Var == t.Var {
			out[n-1].Coef += t.Coef
			continue
		}
		out = append(out, t)
	}
	return dropZeros(out), nil
}

// combineVectorTerms groups terms by output row and combines each row as
// combineTerms does. The result has one entry per row.
func combineVectorTerms(terms []VectorTerm, rows, numVars int) ([][]Term, error) {
	byRow := make([][]Term, rows)
	for _, t := range terms {
		if t.Row < 0 || t.Row >= rows {
			return nil, fmt.Errorf("row %d of %d: %w", t.Row, rows, ErrDimensionMismatch)
		}
		byRow[t.Row] = append(byRow[t.Row], t.Term)
	}
	for k, ts := range byRow {
		if len(ts) == 0 {
			continue
		}
		combined, err := combineTerms(ts, numVars)
		if err != nil {
			return nil, err
		}
		byRow[k] = combined
	}
	return byRow, nil
}

func dropZeros(terms []Term) []Term {
	out := terms[:0]
	for _, t := range terms {
		if t.Coef != 0 {
			out = append(out, t)
		}
	}
	return out
}
