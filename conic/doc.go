// Package conic translates conic optimization problems into the block
// format of a conic solver and maps the solver's output back.
//
// A problem has free variables y, a linear objective and constraints
// Fᵢ(y) ∈ Sᵢ where each Fᵢ is affine and each Sᵢ is one of the sets of this
// package. It is rewritten as the dual form of a solver that handles
//
//	minimize cᵀx  subject to  A·x = b, x ∈ K
//
// with K the concatenation of a free block, the nonnegative orthant,
// second-order cones, rotated second-order cones and positive-semidefinite
// cones (as full column-major square blocks). The caller's variables are
// the solver's dual vector y, each constraint becomes a range of rows of
// c − Aᵀy ∈ K, and the constraint duals are read from the solver's x.
//
// # Two-pass build
//
// An AllocationPhase assigns every constraint a contiguous range of its
// cone block; Finalize freezes it into a ConeLayout. A LoadPhase built
// on that layout fills in the matrix and vectors, and its Finalize hands
// a Problem to Solve:
//
//	alloc := conic.NewAllocationPhase(2)
//	ci, _ := alloc.Allocate(conic.EqualTo{Value: 1})
//	load := conic.NewLoadPhase(alloc.Finalize())
//	_ = load.LoadScalar(ci, conic.ScalarAffine{
//		Terms: []conic.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}},
//	})
//	_ = load.SetObjective(conic.SingleVariable(0), false)
//	problem, _ := load.Finalize()
//	solution, err := conic.Solve(problem, solver)
//
// Model runs both passes in one call and Optimizer exposes them as a
// stateful session.
//
// # Symmetric matrices
//
// PSD constraints are given by their packed upper triangle (see TriIndex).
// Each packed row is placed at its upper square slot; off-diagonal entries
// are doubled on the way in and halved on the way out, because the solver
// only sees the symmetric part of a square block.
//
// # Solvers
//
// The numerical solve is delegated to a Solver. It is called once per
// Solve, blocks until it returns and is never retried.
package conic
