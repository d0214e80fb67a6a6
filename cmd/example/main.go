package main

import (
	"fmt"
	"log"

	"github.com/bartolsthoorn/goconic/conic"
)

func main() {
	// Minimize: t
	// Subject to: x + y = 1, ‖(x, y)‖ <= t
	model := conic.Model{
		NumVars:   3,
		Objective: conic.SingleVariable(2),
	}
	model.AddConstraint("budget", conic.ScalarAffine{
		Terms: []conic.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}},
	}, conic.EqualTo{Value: 1})
	model.AddConstraint("norm", conic.VectorOfVariables(2, 0, 1), conic.SecondOrderCone{Dim: 3})

	problem, _, err := model.Canonicalize()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(problem)
	fmt.Printf("b = %v\nc = %v\n", problem.B, problem.C)
	for _, nz := range problem.A.Triplets() {
		fmt.Printf("A[%d,%d] = %g\n", nz.Row, nz.Col, nz.Val)
	}

	// The optimum is x = y = 1/2, t = 1/√2. A real solver would be plugged
	// in here; this one returns that point directly.
	const h = 0.7071067811865476
	solver := conic.SolverFunc(func(a *conic.SparseMatrix, b, c []float64, cone conic.Cone, opts conic.Options) (*conic.RawResult, error) {
		return &conic.RawResult{X: []float64{h, 1, -h, -h}, Y: []float64{0.5, 0.5, h}}, nil
	})
	solution, err := conic.Solve(problem, solver)
	if err != nil {
		log.Fatal(err)
	}

	if solution.IsOptimal() {
		y := solution.VariableValues()
		fmt.Printf("x = %.2f, y = %.2f, t = %.4f\n", y[0], y[1], y[2])
		fmt.Printf("Objective = %.4f\n", solution.ObjectiveValue())
	}
}
