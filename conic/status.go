package conic

// TerminationStatus explains why the solve stopped.
type TerminationStatus int

const (
	// OptimizeNotCalled indicates no solve has completed.
	OptimizeNotCalled TerminationStatus = iota
	// Optimal indicates an optimal solution was found.
	Optimal
	// AlmostOptimal indicates an optimal solution was found to reduced accuracy.
	AlmostOptimal
	// Infeasible indicates the problem was proven infeasible.
	Infeasible
	// AlmostInfeasible indicates infeasibility was shown to reduced accuracy.
	AlmostInfeasible
	// DualInfeasible indicates the problem was proven unbounded (or infeasible).
	DualInfeasible
	// AlmostDualInfeasible indicates dual infeasibility was shown to reduced accuracy.
	AlmostDualInfeasible
	// NumericalError indicates the solver failed numerically.
	NumericalError
)

// String returns a human-readable representation of the termination status.
func (s TerminationStatus) String() string {
	names := []string{
		"OptimizeNotCalled", "Optimal", "AlmostOptimal", "Infeasible",
		"AlmostInfeasible", "DualInfeasible", "AlmostDualInfeasible",
		"NumericalError",
	}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// IsOptimal returns true for Optimal and AlmostOptimal.
func (s TerminationStatus) IsOptimal() bool {
	return s == Optimal || s == AlmostOptimal
}

// ResultStatus describes what a primal or dual result vector represents.
type ResultStatus int

const (
	// NoSolution indicates no result is available.
	NoSolution ResultStatus = iota
	// FeasiblePoint indicates a feasible point.
	FeasiblePoint
	// NearlyFeasiblePoint indicates a point feasible to reduced accuracy.
	NearlyFeasiblePoint
	// InfeasiblePoint indicates a point that is not feasible.
	InfeasiblePoint
	// InfeasibilityCertificate indicates a certificate of infeasibility of
	// the other problem.
	InfeasibilityCertificate
	// NearlyInfeasibilityCertificate is an InfeasibilityCertificate to
	// reduced accuracy.
	NearlyInfeasibilityCertificate
	// UnknownResultStatus indicates the result cannot be interpreted.
	UnknownResultStatus
)

// String returns a human-readable representation of the result status.
func (s ResultStatus) String() string {
	switch s {
	case NoSolution:
		return "NoSolution"
	case FeasiblePoint:
		return "FeasiblePoint"
	case NearlyFeasiblePoint:
		return "NearlyFeasiblePoint"
	case InfeasiblePoint:
		return "InfeasiblePoint"
	case InfeasibilityCertificate:
		return "InfeasibilityCertificate"
	case NearlyInfeasibilityCertificate:
		return "NearlyInfeasibilityCertificate"
	case UnknownResultStatus:
		return "UnknownResultStatus"
	default:
		return "Unknown"
	}
}

// HasSolution returns true if the result carries values.
func (s ResultStatus) HasSolution() bool {
	return s != NoSolution && s != UnknownResultStatus
}

// Classify maps solver diagnostics to the caller's statuses. The primal
// status describes the variable values and the dual status the constraint
// duals. The primal infeasibility flag is checked before the dual one.
func Classify(d Diagnostics) (term TerminationStatus, primal, dual ResultStatus) {
	if d.Accuracy == AccuracyFailed {
		return NumericalError, UnknownResultStatus, UnknownResultStatus
	}
	accurate := d.Accuracy == AccuracyExact
	pick := func(exact, reduced ResultStatus) ResultStatus {
		if accurate {
			return exact
		}
		return reduced
	}
	switch {
	case d.PrimalInfeasible:
		// The solver's primal is infeasible, so the caller's problem is
		// unbounded and Y is a ray.
		term = DualInfeasible
		if !accurate {
			term = AlmostDualInfeasible
		}
		return term, pick(InfeasibilityCertificate, NearlyInfeasibilityCertificate), InfeasiblePoint
	case d.DualInfeasible:
		term = Infeasible
		if !accurate {
			term = AlmostInfeasible
		}
		return term, InfeasiblePoint, pick(InfeasibilityCertificate, NearlyInfeasibilityCertificate)
	default:
		term = Optimal
		if !accurate {
			term = AlmostOptimal
		}
		return term, pick(FeasiblePoint, NearlyFeasiblePoint), pick(FeasiblePoint, NearlyFeasiblePoint)
	}
}
