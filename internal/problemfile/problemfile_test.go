package problemfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bartolsthoorn/goconic/conic"
)

const socYAML = `sense: minimize
variables: [x, y, t]
objective:
  terms: {t: 1}
constraints:
  - name: budget
    terms: {x: 1, y: 1}
    set: {type: equal_to, value: 1}
  - name: norm
    rows:
      - terms: {t: 1}
      - terms: {x: 1}
      - terms: {y: 1}
    set: {type: second_order_cone}
  - terms: {x: 1}
    constant: -2
    set: {type: less_than, value: 0}
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadYAML(t *testing.T) {
	p, err := Load(writeTempFile(t, "p.yaml", socYAML))
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y", "t"}, p.Variables)
	require.Equal(t, []string{"budget", "norm", "c2"}, p.Constraints)
	require.False(t, p.Feasibility)

	m := p.Model
	require.Equal(t, 3, m.NumVars)
	require.False(t, m.Maximize)
	require.Equal(t, conic.ScalarAffine{Terms: []conic.Term{{Var: 2, Coef: 1}}}, m.Objective)

	want := []conic.Constraint{
		{
			Name:     "budget",
			Function: conic.ScalarAffine{Terms: []conic.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}},
			Set:      conic.EqualTo{Value: 1},
		},
		{
			Name: "norm",
			Function: conic.VectorAffine{
				Terms: []conic.VectorTerm{
					{Row: 0, Term: conic.Term{Var: 2, Coef: 1}},
					{Row: 1, Term: conic.Term{Var: 0, Coef: 1}},
					{Row: 2, Term: conic.Term{Var: 1, Coef: 1}},
				},
				Constants: []float64{0, 0, 0},
			},
			Set: conic.SecondOrderCone{Dim: 3},
		},
		{
			Name:     "c2",
			Function: conic.ScalarAffine{Terms: []conic.Term{{Var: 0, Coef: 1}}, Constant: -2},
			Set:      conic.LessThan{Upper: 0},
		},
	}
	if diff := cmp.Diff(want, m.Constraints); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}

	prob, _, err := m.Canonicalize()
	require.NoError(t, err)
	require.Equal(t, conic.Cone{Zero: 1, Linear: 1, SOC: []int{3}}, prob.Cone)
}

func TestLoadJSONPSD(t *testing.T) {
	src := `{
  "sense": "max",
  "variables": ["a", "b"],
  "objective": {"terms": {"a": 1, "b": 1}, "constant": 4},
  "constraints": [
    {"name": "m", "set": {"type": "psd_triangle", "side": 2}, "rows": [
      {"terms": {"a": -1}, "constant": 1},
      {"constant": 0.5},
      {"terms": {"b": -1}, "constant": 1}
    ]}
  ]
}`
	p, err := Load(writeTempFile(t, "p.json", src))
	require.NoError(t, err)
	require.True(t, p.Model.Maximize)
	require.Equal(t, 4.0, p.Model.Objective.Constant)
	require.Equal(t, conic.PSDTriangle{Side: 2}, p.Model.Constraints[0].Set)

	prob, _, err := p.Model.Canonicalize()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 1, 1}, prob.C)
	require.Equal(t, []float64{1, 1}, prob.B)
}

func TestLoadTOMLFeasibility(t *testing.T) {
	src := `variables = ["u", "v"]

[objective.terms]
u = 3.0

[[constraints]]
name = "pos"
set = { type = "nonnegatives" }

  [[constraints.rows]]
  terms = { u = 1 }

  [[constraints.rows]]
  terms = { v = 1 }
  constant = -1
`
	p, err := Load(writeTempFile(t, "p.toml", src))
	require.NoError(t, err)
	require.True(t, p.Feasibility)
	require.Empty(t, p.Model.Objective.Terms)
	require.Equal(t, conic.Nonnegatives{Dim: 2}, p.Model.Constraints[0].Set)
	require.Equal(t, []float64{0, -1}, p.Model.Constraints[0].Function.(conic.VectorAffine).Constants)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		file File
		is   error
	}{
		{
			name: "unknown variable",
			file: File{Variables: []string{"x"}, Constraints: []Constraint{
				{Terms: map[string]float64{"z": 1}, Set: SetSpec{Type: SetEqualTo}},
			}},
			is: ErrUnknownVariable,
		},
		{
			name: "unknown set",
			file: File{Variables: []string{"x"}, Constraints: []Constraint{
				{Rows: []Affine{{}}, Set: SetSpec{Type: "ellipsoid"}},
			}},
			is: ErrUnknownSet,
		},
		{
			name: "unknown sense",
			file: File{Sense: "sideways"},
			is:   ErrUnknownSense,
		},
		{
			name: "objective variable",
			file: File{Sense: "min", Objective: Affine{Terms: map[string]float64{"q": 1}}},
			is:   ErrUnknownVariable,
		},
		{name: "duplicate variable", file: File{Variables: []string{"x", "x"}}},
		{name: "empty variable", file: File{Variables: []string{""}}},
		{
			name: "dim mismatch",
			file: File{Variables: []string{"x"}, Constraints: []Constraint{
				{Rows: []Affine{{}}, Set: SetSpec{Type: SetSecondOrderCone, Dim: 3}},
			}},
		},
		{
			name: "not a triangle",
			file: File{Variables: []string{"x"}, Constraints: []Constraint{
				{Rows: []Affine{{}, {}}, Set: SetSpec{Type: SetPSDTriangle}},
			}},
		},
		{
			name: "scalar with rows",
			file: File{Variables: []string{"x"}, Constraints: []Constraint{
				{Rows: []Affine{{}}, Set: SetSpec{Type: SetGreaterThan}},
			}},
		},
		{
			name: "vector with terms",
			file: File{Variables: []string{"x"}, Constraints: []Constraint{
				{Terms: map[string]float64{"x": 1}, Set: SetSpec{Type: SetZeros}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.file.Build()
			require.Error(t, err)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse([]byte("x"), ".ini")
	require.Error(t, err)
	_, err = Load("")
	require.Error(t, err)
}
