package conic

import (
	"fmt"
	"slices"
)

// Cone describes the solver's cone as the concatenation of five blocks.
// It is the cone-size descriptor handed to a Solver.
type Cone struct {
	// Zero is the number of free rows.
	Zero int
	// Linear is the number of nonnegative rows.
	Linear int
	// SOC lists the dimension of each second-order cone.
	SOC []int
	// RotatedSOC lists the dimension of each rotated second-order cone.
	RotatedSOC []int
	// PSD lists the side dimension of each semidefinite cone. Each block
	// occupies side² rows.
	PSD []int
}

// Dim returns the total number of rows of the cone.
func (c Cone) Dim() int {
	n := c.Zero + c.Linear
	for _, d := range c.SOC {
		n += d
	}
	for _, d := range c.RotatedSOC {
		n += d
	}
	for _, s := range c.PSD {
		n += s * s
	}
	return n
}

func (c Cone) clone() Cone {
	return Cone{
		Zero:       c.Zero,
		Linear:     c.Linear,
		SOC:        slices.Clone(c.SOC),
		RotatedSOC: slices.Clone(c.RotatedSOC),
		PSD:        slices.Clone(c.PSD),
	}
}

// ConstraintIndex identifies a constraint. Indices are issued in
// allocation order starting at 0.
type ConstraintIndex int

// constraintInfo is one entry of the constraint offset table.
type constraintInfo struct {
	set Set
	// offset is relative to the start of the set's block.
	offset int
	// rows is the number of cone rows: 1 for scalar sets, the dimension
	// for vector sets and side² for PSD sets.
	rows int
}

// AllocationPhase assigns every constraint a contiguous range inside its
// cone block. It is the first pass of the two-pass build; Finalize turns
// it into a ConeLayout from which absolute rows can be resolved.
type AllocationPhase struct {
	numVars     int
	cone        Cone
	sumSOC      int
	sumRSOC     int
	sumPSD      int
	constraints []constraintInfo
	frozen      bool
}

// NewAllocationPhase returns an empty allocation phase for a problem with
// numVars variables.
func NewAllocationPhase(numVars int) *AllocationPhase {
	return &AllocationPhase{numVars: numVars}
}

// Reset clears every block. Constraint indices issued before the reset
// become invalid.
func (a *AllocationPhase) Reset() {
	a.cone = Cone{}
	a.sumSOC, a.sumRSOC, a.sumPSD = 0, 0, 0
	a.constraints = nil
	a.frozen = false
}

// NumVariables returns the number of variables of the problem.
func (a *AllocationPhase) NumVariables() int { return a.numVars }

// Allocate reserves rows for a constraint in set s and returns its index.
func (a *AllocationPhase) Allocate(s Set) (ConstraintIndex, error) {
	if a.frozen {
		return -1, newError("Allocate", LayoutError, ErrLayoutFrozen)
	}
	if err := validateSet(s); err != nil {
		return -1, newError("Allocate", LayoutError, err)
	}
	offset, err := a.allocate(s)
	if err != nil {
		return -1, newError("Allocate", LayoutError, err)
	}
	a.constraints = append(a.constraints, constraintInfo{set: s, offset: offset, rows: s.blockSize()})
	return ConstraintIndex(len(a.constraints) - 1), nil
}

// allocate returns the offset of s within its block and grows the block.
func (a *AllocationPhase) allocate(s Set) (int, error) {
	switch s.cone() {
	case ConeZero:
		offset := a.cone.Zero
		a.cone.Zero += s.blockSize()
		return offset, nil
	case ConeLinear:
		offset := a.cone.Linear
		a.cone.Linear += s.blockSize()
		return offset, nil
	case ConeSOC:
		offset := a.sumSOC
		a.cone.SOC = append(a.cone.SOC, s.Dimension())
		a.sumSOC += s.Dimension()
		return offset, nil
	case ConeRotatedSOC:
		offset := a.sumRSOC
		a.cone.RotatedSOC = append(a.cone.RotatedSOC, s.Dimension())
		a.sumRSOC += s.Dimension()
		return offset, nil
	case ConePSD:
		side := s.(PSDTriangle).Side
		offset := a.sumPSD
		a.cone.PSD = append(a.cone.PSD, side)
		a.sumPSD += side * side
		return offset, nil
	default:
		return 0, fmt.Errorf("%v: %w", s, ErrUnsupportedSet)
	}
}

// Finalize freezes the block totals and returns the resulting layout. The
// phase rejects further allocation until Reset.
func (a *AllocationPhase) Finalize() *ConeLayout {
	a.frozen = true
	l := &ConeLayout{
		numVars:     a.numVars,
		cone:        a.cone.clone(),
		constraints: slices.Clone(a.constraints),
	}
	// Each block starts where the preceding ones end.
	l.base[ConeZero] = 0
	l.base[ConeLinear] = a.cone.Zero
	l.base[ConeSOC] = l.base[ConeLinear] + a.cone.Linear
	l.base[ConeRotatedSOC] = l.base[ConeSOC] + a.sumSOC
	l.base[ConePSD] = l.base[ConeRotatedSOC] + a.sumRSOC
	l.dim = l.base[ConePSD] + a.sumPSD
	return l
}

// ConeLayout is the frozen result of an AllocationPhase. It maps each
// constraint to an absolute row range of the solver's cone.
type ConeLayout struct {
	numVars     int
	cone        Cone
	constraints []constraintInfo
	base        [numConeKinds]int
	dim         int
}

// Cone returns a copy of the cone-size descriptor.
func (l *ConeLayout) Cone() Cone { return l.cone.clone() }

// Dim returns the total number of cone rows.
func (l *ConeLayout) Dim() int { return l.dim }

// NumVariables returns the number of variables.
func (l *ConeLayout) NumVariables() int { return l.numVars }

// NumConstraints returns the number of allocated constraints.
func (l *ConeLayout) NumConstraints() int { return len(l.constraints) }

// Set returns the set constraint ci was allocated with.
func (l *ConeLayout) Set(ci ConstraintIndex) (Set, error) {
	info, err := l.info(ci)
	if err != nil {
		return nil, err
	}
	return info.set, nil
}

// Rows resolves ci to its first absolute cone row and its row count.
func (l *ConeLayout) Rows(ci ConstraintIndex) (row, count int, err error) {
	info, err := l.info(ci)
	if err != nil {
		return 0, 0, err
	}
	return l.base[info.set.cone()] + info.offset, info.rows, nil
}

func (l *ConeLayout) info(ci ConstraintIndex) (constraintInfo, error) {
	if ci < 0 || int(ci) >= len(l.constraints) {
		return constraintInfo{}, newErrorf("Rows", LayoutError, ErrUnknownConstraint, "constraint %d", ci)
	}
	return l.constraints[ci], nil
}
