package execsolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bartolsthoorn/goconic/conic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestHelperProcess isn't a real test. It's used as the external solver
// by the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintf(os.Stderr, "bad request: %v", err)
		os.Exit(2)
	}
	switch os.Getenv("MOCK_SOLVER") {
	case "echo":
		if req.Pars.FID == 1 {
			fmt.Fprint(os.Stderr, "iter 1: gap 1e-3")
		}
		resp := Response{
			X: req.C,
			Y: req.B,
			Info: Info{
				Iter:    len(req.C) + req.K.F,
				Message: fmt.Sprintf("maxiter=%d eps=%g", req.Pars.MaxIter, req.Pars.Eps),
			},
		}
		_ = json.NewEncoder(os.Stdout).Encode(resp)
	case "infeasible":
		fmt.Fprint(os.Stdout, `{"x": [1], "y": [], "info": {"pinf": 0, "dinf": 1, "numerr": 1}}`)
	case "badflag":
		fmt.Fprint(os.Stdout, `{"info": {"pinf": 2}}`)
	case "garbage":
		fmt.Fprint(os.Stdout, "not json")
	default:
		fmt.Fprint(os.Stderr, "solver crashed")
		os.Exit(3)
	}
	os.Exit(0)
}

func helperSolver(mode string) *Solver {
	s := New(os.Args[0], "-test.run=TestHelperProcess", "--")
	s.Env = []string{"GO_WANT_HELPER_PROCESS=1", "MOCK_SOLVER=" + mode}
	return s
}

func equalityProblem(t *testing.T) *conic.Problem {
	t.Helper()
	m := &conic.Model{NumVars: 2, Objective: conic.SingleVariable(0)}
	m.AddConstraint("sum", conic.ScalarAffine{Terms: []conic.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}}, conic.EqualTo{Value: 1})
	p, _, err := m.Canonicalize()
	require.NoError(t, err)
	return p
}

func TestNewRequest(t *testing.T) {
	p := equalityProblem(t)
	req := NewRequest(p.A, p.B, p.C, p.Cone, conic.Options{Verbose: true, MaxIterations: 40, Params: map[string]float64{"beta": 0.5}})

	require.Equal(t, Matrix{M: 2, N: 1, ColPtr: []int{0, 2}, RowInd: []int{0, 1}, Values: []float64{-1, -1}}, req.A)
	require.Equal(t, Cone{F: 1, Q: []int{}, R: []int{}, S: []int{}}, req.K)
	require.Equal(t, 1, req.Pars.FID)
	require.Equal(t, 40, req.Pars.MaxIter)

	b, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"A": {"m": 2, "n": 1, "colptr": [0, 2], "rowind": [0, 1], "values": [-1, -1]},
		"b": [-1, 0], "c": [-1],
		"K": {"f": 1, "l": 0, "q": [], "r": [], "s": []},
		"pars": {"fid": 1, "maxiter": 40, "params": {"beta": 0.5}}
	}`, string(b))
}

func TestResponseResult(t *testing.T) {
	r := Response{X: []float64{1}, Info: Info{Pinf: 1, Numerr: 1, Iter: 9, Message: "slow"}}
	raw, err := r.Result()
	require.NoError(t, err)
	require.Equal(t, conic.Diagnostics{PrimalInfeasible: true, Accuracy: conic.AccuracyReduced, Iterations: 9, Message: "slow"}, raw.Info)

	_, err = (&Response{Info: Info{Dinf: -1}}).Result()
	require.ErrorIs(t, err, ErrBadResponse)
	_, err = (&Response{Info: Info{Numerr: 3}}).Result()
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestSolveThroughProcess(t *testing.T) {
	p := equalityProblem(t)
	var stderr bytes.Buffer
	s := helperSolver("echo")
	s.Stderr = &stderr

	sol, err := conic.Solve(p, s, conic.WithVerbose(true), conic.WithMaxIterations(12), conic.WithTolerance(1e-6))
	require.NoError(t, err)
	require.Equal(t, conic.Optimal, sol.Termination())
	require.Equal(t, []float64{-1, 0}, sol.VariableValues())
	require.Equal(t, 2, sol.Diagnostics().Iterations)
	require.Equal(t, "maxiter=12 eps=1e-06", sol.Diagnostics().Message)
	require.Equal(t, "iter 1: gap 1e-3", stderr.String())

	dual, err := sol.ConstraintDual(0)
	require.NoError(t, err)
	require.Equal(t, []float64{-1}, dual)
}

func TestSolveInfeasibleThroughProcess(t *testing.T) {
	sol, err := conic.Solve(equalityProblem(t), helperSolver("infeasible"))
	require.NoError(t, err)
	require.Equal(t, conic.AlmostInfeasible, sol.Termination())
	require.Equal(t, []float64{0, 0}, sol.VariableValues())
}

func TestSolveProcessErrors(t *testing.T) {
	p := equalityProblem(t)

	_, err := helperSolver("crash").Solve(p.A, p.B, p.C, p.Cone, conic.Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "solver crashed")

	_, err = conic.Solve(p, helperSolver("crash"))
	require.True(t, conic.IsSolveError(err))

	_, err = helperSolver("garbage").Solve(p.A, p.B, p.C, p.Cone, conic.Options{})
	require.ErrorIs(t, err, ErrBadResponse)

	_, err = helperSolver("badflag").Solve(p.A, p.B, p.C, p.Cone, conic.Options{})
	require.ErrorIs(t, err, ErrBadResponse)

	_, err = New("").Solve(p.A, p.B, p.C, p.Cone, conic.Options{})
	require.Error(t, err)

	_, err = New("/nonexistent/solver-binary").Solve(p.A, p.B, p.C, p.Cone, conic.Options{})
	require.Error(t, err)
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "", excerpt("  \n"))
	require.Equal(t, ": oops", excerpt("oops\n"))
	long := bytes.Repeat([]byte("a"), maxStderr+10)
	require.Len(t, excerpt(string(long)), len(": ...")+maxStderr)
}
