package conic

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedSet is returned for a set the solver cannot represent.
	ErrUnsupportedSet = errors.New("conic: unsupported set")

	// ErrLayoutFrozen is returned when a constraint is allocated after the
	// layout has been finalized or loading has begun.
	ErrLayoutFrozen = errors.New("conic: layout is frozen")

	// ErrUnknownConstraint is returned for a constraint index the layout
	// never issued.
	ErrUnknownConstraint = errors.New("conic: unknown constraint")

	// ErrDimensionMismatch is returned when a function, set or vector does
	// not have the expected number of rows.
	ErrDimensionMismatch = errors.New("conic: dimension mismatch")

	// ErrVariableOutOfRange is returned for a variable index outside
	// [0, numVariables).
	ErrVariableOutOfRange = errors.New("conic: variable out of range")

	// ErrFunctionSetMismatch is returned when a scalar function is paired
	// with a vector set or the reverse, or when a constraint is loaded with
	// a different set than it was allocated with.
	ErrFunctionSetMismatch = errors.New("conic: function does not match set")

	// ErrAlreadyLoaded is returned when a constraint is loaded twice.
	ErrAlreadyLoaded = errors.New("conic: constraint already loaded")

	// ErrNotLoaded is returned by Finalize when an allocated constraint was
	// never loaded.
	ErrNotLoaded = errors.New("conic: constraint allocated but not loaded")

	// ErrFinalized is returned by a load phase after Finalize.
	ErrFinalized = errors.New("conic: load phase already finalized")

	// ErrInconsistentDiagnostics is returned when a solver reports both
	// primal and dual infeasibility.
	ErrInconsistentDiagnostics = errors.New("conic: solver reported both primal and dual infeasibility")

	// ErrNoSolution is returned by result queries before a solve completed.
	ErrNoSolution = errors.New("conic: no solution available")

	// ErrNilSolver is returned when Solve is called without a solver.
	ErrNilSolver = errors.New("conic: nil solver")
)

// ErrorKind classifies where in the pipeline an Error was raised.
type ErrorKind int

const (
	// LayoutError covers allocation and offset resolution.
	LayoutError ErrorKind = iota
	// LoadError covers filling the matrix and vectors.
	LoadError
	// SolveError covers the external solve call and its output.
	SolveError
	// ResultError covers result queries.
	ResultError
)

// String returns a human-readable representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case LayoutError:
		return "layout"
	case LoadError:
		return "load"
	case SolveError:
		return "solve"
	case ResultError:
		return "result"
	default:
		return "unknown"
	}
}

// Error records the failing operation and its kind. The underlying error
// is reachable through errors.Is and errors.As.
type Error struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("conic: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind ErrorKind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func newErrorf(op string, kind ErrorKind, err error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)}
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsLayoutError reports whether err was raised while allocating the layout.
func IsLayoutError(err error) bool { return isKind(err, LayoutError) }

// IsLoadError reports whether err was raised while loading constraints or
// the objective.
func IsLoadError(err error) bool { return isKind(err, LoadError) }

// IsSolveError reports whether err was raised by the external solve.
func IsSolveError(err error) bool { return isKind(err, SolveError) }

// IsResultError reports whether err was raised by a result query.
func IsResultError(err error) bool { return isKind(err, ResultError) }
