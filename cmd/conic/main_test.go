package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/goconic/internal/execsolver"
)

const equalityYAML = `sense: minimize
variables: [x, y]
objective:
  terms: {x: 1}
constraints:
  - name: budget
    terms: {x: 1, y: 1}
    set: {type: equal_to, value: 1}
`

// TestHelperProcess isn't a real test. It's used as the external solver
// by the solve tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	var req execsolver.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintf(os.Stderr, "bad request: %v", err)
		os.Exit(2)
	}
	resp := execsolver.Response{
		X:    []float64{0.5},
		Y:    []float64{0.25, 0.75},
		Info: execsolver.Info{Iter: req.Pars.MaxIter},
	}
	_ = json.NewEncoder(os.Stdout).Encode(resp)
	os.Exit(0)
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestCanon(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "p.yaml", equalityYAML)
	out, err := run(t, "canon", p)
	require.NoError(t, err)
	require.Contains(t, out, "sense: minimize\n")
	require.Contains(t, out, "variables: 2\n")
	require.Contains(t, out, "nonzeros: 2\n")
	require.Contains(t, out, "cone: zero=1 linear=0 soc=[] rsoc=[] psd=[]\n")
	require.Contains(t, out, "  budget: EqualTo(1) rows [0, 1)\n")
}

func TestCanonJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "p.yaml", equalityYAML)
	cfg := writeTempFile(t, d, "cfg.toml", "[solver]\nmax_iterations = 30\n")
	out, err := run(t, "--config", cfg, "canon", "--json", p)
	require.NoError(t, err)

	var req execsolver.Request
	require.NoError(t, json.Unmarshal([]byte(out), &req))
	require.Equal(t, []float64{-1}, req.C)
	require.Equal(t, []float64{-1, 0}, req.B)
	require.Equal(t, 1, req.K.F)
	require.Equal(t, 30, req.Pars.MaxIter)
	require.Equal(t, []int{0, 2}, req.A.ColPtr)
}

func TestSolve(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	d := t.TempDir()
	p := writeTempFile(t, d, "p.yaml", equalityYAML)
	cfgJSON, err := json.Marshal(map[string]any{
		"log_level": "error",
		"solver": map[string]any{
			"command":        os.Args[0],
			"args":           []string{"-test.run=TestHelperProcess", "--"},
			"max_iterations": 17,
		},
	})
	require.NoError(t, err)
	cfg := writeTempFile(t, d, "cfg.json", string(cfgJSON))
	metrics := filepath.Join(d, "metrics.prom")

	out, err := run(t, "--config", cfg, "solve", "--metrics-file", metrics, p)
	require.NoError(t, err)
	require.Contains(t, out, "termination: Optimal\n")
	require.Contains(t, out, "primal status: FeasiblePoint\n")
	require.Contains(t, out, "objective: 0.25\n")
	require.Contains(t, out, "  x = 0.25\n")
	require.Contains(t, out, "  y = 0.75\n")
	require.Contains(t, out, "  budget: primal=[1] dual=[0.5]\n")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(prom), `goconic_solve_total{termination="Optimal"} 1`), string(prom))
}

func TestSolveErrors(t *testing.T) {
	p := writeTempFile(t, t.TempDir(), "p.yaml", equalityYAML)

	_, err := run(t, "solve", p)
	require.ErrorContains(t, err, "no solver configured")

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "canon", p)
	require.Error(t, err)

	_, err = run(t, "canon")
	require.Error(t, err)

	_, err = run(t, "canon", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
