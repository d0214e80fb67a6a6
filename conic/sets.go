package conic

import "fmt"

// ConeKind identifies one of the five blocks of the solver's cone, in the
// order they are concatenated.
type ConeKind int

const (
	// ConeZero is the free block ({0} in the dual form).
	ConeZero ConeKind = iota
	// ConeLinear is the nonnegative orthant.
	ConeLinear
	// ConeSOC is a list of second-order cones.
	ConeSOC
	// ConeRotatedSOC is a list of rotated second-order cones.
	ConeRotatedSOC
	// ConePSD is a list of positive-semidefinite cones stored as full
	// column-major square blocks.
	ConePSD

	numConeKinds
)

// String returns a human-readable representation of the cone kind.
func (k ConeKind) String() string {
	names := [numConeKinds]string{"Zero", "Linear", "SOC", "RotatedSOC", "PSD"}
	if k >= 0 && k < numConeKinds {
		return names[k]
	}
	return "Unknown"
}

// Set is a constraint set the solver can represent. The interface is
// closed: only the set types of this package implement it.
type Set interface {
	// Dimension is the number of rows of a function constrained to the set.
	Dimension() int

	cone() ConeKind
	// flipped is true for upper-bound style sets, whose rows enter the
	// solver with the opposite sign.
	flipped() bool
	scalar() bool
	// setConstant is the right-hand side of a scalar set.
	setConstant() float64
	// blockSize is the number of cone rows the set occupies; it differs
	// from Dimension only for PSD sets.
	blockSize() int
}

// EqualTo is the scalar set {Value}.
type EqualTo struct{ Value float64 }

// GreaterThan is the scalar set [Lower, ∞).
type GreaterThan struct{ Lower float64 }

// LessThan is the scalar set (-∞, Upper].
type LessThan struct{ Upper float64 }

// Zeros is the vector set {0}^Dim.
type Zeros struct{ Dim int }

// Nonnegatives is the vector set [0, ∞)^Dim.
type Nonnegatives struct{ Dim int }

// Nonpositives is the vector set (-∞, 0]^Dim.
type Nonpositives struct{ Dim int }

// SecondOrderCone is {(t, x) : t >= ‖x‖₂} of dimension Dim.
type SecondOrderCone struct{ Dim int }

// RotatedSecondOrderCone is {(t, u, x) : 2tu >= ‖x‖₂², t, u >= 0} of
// dimension Dim.
type RotatedSecondOrderCone struct{ Dim int }

// PSDTriangle is the cone of Side×Side positive-semidefinite matrices,
// given by their packed upper triangle (see TriIndex).
type PSDTriangle struct{ Side int }

func (EqualTo) Dimension() int     { return 1 }
func (GreaterThan) Dimension() int { return 1 }
func (LessThan) Dimension() int    { return 1 }

func (s Zeros) Dimension() int                  { return s.Dim }
func (s Nonnegatives) Dimension() int           { return s.Dim }
func (s Nonpositives) Dimension() int           { return s.Dim }
func (s SecondOrderCone) Dimension() int        { return s.Dim }
func (s RotatedSecondOrderCone) Dimension() int { return s.Dim }
func (s PSDTriangle) Dimension() int            { return PackedLength(s.Side) }

func (EqualTo) cone() ConeKind                { return ConeZero }
func (GreaterThan) cone() ConeKind            { return ConeLinear }
func (LessThan) cone() ConeKind               { return ConeLinear }
func (Zeros) cone() ConeKind                  { return ConeZero }
func (Nonnegatives) cone() ConeKind           { return ConeLinear }
func (Nonpositives) cone() ConeKind           { return ConeLinear }
func (SecondOrderCone) cone() ConeKind        { return ConeSOC }
func (RotatedSecondOrderCone) cone() ConeKind { return ConeRotatedSOC }
func (PSDTriangle) cone() ConeKind            { return ConePSD }

func (EqualTo) flipped() bool                { return false }
func (GreaterThan) flipped() bool            { return false }
func (LessThan) flipped() bool               { return true }
func (Zeros) flipped() bool                  { return false }
func (Nonnegatives) flipped() bool           { return false }
func (Nonpositives) flipped() bool           { return true }
func (SecondOrderCone) flipped() bool        { return false }
func (RotatedSecondOrderCone) flipped() bool { return false }
func (PSDTriangle) flipped() bool            { return false }

func (EqualTo) scalar() bool                { return true }
func (GreaterThan) scalar() bool            { return true }
func (LessThan) scalar() bool               { return true }
func (Zeros) scalar() bool                  { return false }
func (Nonnegatives) scalar() bool           { return false }
func (Nonpositives) scalar() bool           { return false }
func (SecondOrderCone) scalar() bool        { return false }
func (RotatedSecondOrderCone) scalar() bool { return false }
func (PSDTriangle) scalar() bool            { return false }

func (s EqualTo) setConstant() float64              { return s.Value }
func (s GreaterThan) setConstant() float64          { return s.Lower }
func (s LessThan) setConstant() float64             { return s.Upper }
func (Zeros) setConstant() float64                  { return 0 }
func (Nonnegatives) setConstant() float64           { return 0 }
func (Nonpositives) setConstant() float64           { return 0 }
func (SecondOrderCone) setConstant() float64        { return 0 }
func (RotatedSecondOrderCone) setConstant() float64 { return 0 }
func (PSDTriangle) setConstant() float64            { return 0 }

func (EqualTo) blockSize() int                  { return 1 }
func (GreaterThan) blockSize() int              { return 1 }
func (LessThan) blockSize() int                 { return 1 }
func (s Zeros) blockSize() int                  { return s.Dim }
func (s Nonnegatives) blockSize() int           { return s.Dim }
func (s Nonpositives) blockSize() int           { return s.Dim }
func (s SecondOrderCone) blockSize() int        { return s.Dim }
func (s RotatedSecondOrderCone) blockSize() int { return s.Dim }
func (s PSDTriangle) blockSize() int            { return s.Side * s.Side }

func (s EqualTo) String() string                { return fmt.Sprintf("EqualTo(%g)", s.Value) }
func (s GreaterThan) String() string            { return fmt.Sprintf("GreaterThan(%g)", s.Lower) }
func (s LessThan) String() string               { return fmt.Sprintf("LessThan(%g)", s.Upper) }
func (s Zeros) String() string                  { return fmt.Sprintf("Zeros(%d)", s.Dim) }
func (s Nonnegatives) String() string           { return fmt.Sprintf("Nonnegatives(%d)", s.Dim) }
func (s Nonpositives) String() string           { return fmt.Sprintf("Nonpositives(%d)", s.Dim) }
func (s SecondOrderCone) String() string        { return fmt.Sprintf("SecondOrderCone(%d)", s.Dim) }
func (s RotatedSecondOrderCone) String() string { return fmt.Sprintf("RotatedSecondOrderCone(%d)", s.Dim) }
func (s PSDTriangle) String() string            { return fmt.Sprintf("PSDTriangle(%d)", s.Side) }

// validateSet checks set-specific dimension rules.
func validateSet(s Set) error {
	if s == nil {
		return ErrUnsupportedSet
	}
	switch v := s.(type) {
	case EqualTo, GreaterThan, LessThan:
		return nil
	case Zeros, Nonnegatives, Nonpositives, SecondOrderCone:
		if s.Dimension() < 1 {
			return fmt.Errorf("%v: %w", s, ErrDimensionMismatch)
		}
	case RotatedSecondOrderCone:
		if v.Dim < 2 {
			return fmt.Errorf("%v: needs at least 2 rows: %w", s, ErrDimensionMismatch)
		}
	case PSDTriangle:
		if v.Side < 1 {
			return fmt.Errorf("%v: %w", s, ErrDimensionMismatch)
		}
	default:
		return ErrUnsupportedSet
	}
	return nil
}
