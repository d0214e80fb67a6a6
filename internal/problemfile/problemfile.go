// Package problemfile reads conic problems written by hand in YAML, JSON
// or TOML and turns them into a conic.Model.
//
// A problem names its variables and refers to them by name:
//
//	sense: minimize
//	variables: [x, y, t]
//	objective:
//	  terms: {t: 1}
//	constraints:
//	  - name: budget
//	    terms: {x: 1, y: 1}
//	    set: {type: equal_to, value: 1}
//	  - name: norm
//	    rows:
//	      - terms: {t: 1}
//	      - terms: {x: 1}
//	      - terms: {y: 1}
//	    set: {type: second_order_cone}
//
// Scalar constraints give terms and constant directly; vector constraints
// give one entry per row. The dimension of a vector set defaults to the
// number of rows.
package problemfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bartolsthoorn/goconic/conic"
)

var (
	// ErrUnknownVariable is returned for a term naming an undeclared variable.
	ErrUnknownVariable = errors.New("problemfile: unknown variable")
	// ErrUnknownSet is returned for an unrecognised set type.
	ErrUnknownSet = errors.New("problemfile: unknown set type")
	// ErrUnknownSense is returned for an unrecognised objective sense.
	ErrUnknownSense = errors.New("problemfile: unknown sense")
)

// Set types accepted in the set.type field.
const (
	SetEqualTo                = "equal_to"
	SetGreaterThan            = "greater_than"
	SetLessThan               = "less_than"
	SetZeros                  = "zeros"
	SetNonnegatives           = "nonnegatives"
	SetNonpositives           = "nonpositives"
	SetSecondOrderCone        = "second_order_cone"
	SetRotatedSecondOrderCone = "rotated_second_order_cone"
	SetPSDTriangle            = "psd_triangle"
)

// File is the on-disk form of a problem.
type File struct {
	Sense       string       `json:"sense" yaml:"sense" toml:"sense"`
	Variables   []string     `json:"variables" yaml:"variables" toml:"variables"`
	Objective   Affine       `json:"objective" yaml:"objective" toml:"objective"`
	Constraints []Constraint `json:"constraints" yaml:"constraints" toml:"constraints"`
}

// Affine is Σ coefficient·variable + Constant with variables named.
type Affine struct {
	Terms    map[string]float64 `json:"terms" yaml:"terms" toml:"terms"`
	Constant float64            `json:"constant" yaml:"constant" toml:"constant"`
}

// Constraint is either scalar (Terms and Constant) or vector (Rows).
type Constraint struct {
	Name     string             `json:"name" yaml:"name" toml:"name"`
	Terms    map[string]float64 `json:"terms" yaml:"terms" toml:"terms"`
	Constant float64            `json:"constant" yaml:"constant" toml:"constant"`
	Rows     []Affine           `json:"rows" yaml:"rows" toml:"rows"`
	Set      SetSpec            `json:"set" yaml:"set" toml:"set"`
}

// SetSpec selects a set. Value is the bound of a scalar set; Dim and Side
// are optional for vector sets and checked against the rows when given.
type SetSpec struct {
	Type  string  `json:"type" yaml:"type" toml:"type"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
	Dim   int     `json:"dim" yaml:"dim" toml:"dim"`
	Side  int     `json:"side" yaml:"side" toml:"side"`
}

// Problem is a built model together with its names.
type Problem struct {
	Model       *conic.Model
	Variables   []string
	Constraints []string
	// Feasibility is set when the file has no objective sense.
	Feasibility bool
}

// Load reads a problem file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (*Problem, error) {
	if path == "" {
		return nil, fmt.Errorf("empty problem path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(b, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes data in the format named by ext (".yaml", ".json", ...).
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch ext = strings.ToLower(ext); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported problem extension: %s", ext)
	}
	return &f, nil
}

// Build resolves names and returns the model. Constraints keep file order.
func (f *File) Build() (*Problem, error) {
	index := make(map[string]conic.VariableIndex, len(f.Variables))
	for i, name := range f.Variables {
		if name == "" {
			return nil, fmt.Errorf("variable %d has no name", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("variable %q declared twice", name)
		}
		index[name] = conic.VariableIndex(i)
	}

	p := &Problem{
		Model:     &conic.Model{NumVars: len(f.Variables)},
		Variables: append([]string(nil), f.Variables...),
	}
	switch strings.ToLower(f.Sense) {
	case "minimize", "min":
	case "maximize", "max":
		p.Model.Maximize = true
	case "", "feasibility":
		p.Feasibility = true
	default:
		return nil, fmt.Errorf("%q: %w", f.Sense, ErrUnknownSense)
	}
	if !p.Feasibility {
		terms, err := resolveTerms(index, f.Objective.Terms)
		if err != nil {
			return nil, fmt.Errorf("objective: %w", err)
		}
		p.Model.Objective = conic.ScalarAffine{Terms: terms, Constant: f.Objective.Constant}
	}

	for i, c := range f.Constraints {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("c%d", i)
		}
		fn, set, err := c.build(index)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", name, err)
		}
		p.Model.AddConstraint(name, fn, set)
		p.Constraints = append(p.Constraints, name)
	}
	return p, nil
}

func (c Constraint) build(index map[string]conic.VariableIndex) (conic.Function, conic.Set, error) {
	switch c.Set.Type {
	case SetEqualTo, SetGreaterThan, SetLessThan:
		if len(c.Rows) > 0 {
			return nil, nil, fmt.Errorf("scalar set %s with %d rows", c.Set.Type, len(c.Rows))
		}
		terms, err := resolveTerms(index, c.Terms)
		if err != nil {
			return nil, nil, err
		}
		fn := conic.ScalarAffine{Terms: terms, Constant: c.Constant}
		switch c.Set.Type {
		case SetEqualTo:
			return fn, conic.EqualTo{Value: c.Set.Value}, nil
		case SetGreaterThan:
			return fn, conic.GreaterThan{Lower: c.Set.Value}, nil
		default:
			return fn, conic.LessThan{Upper: c.Set.Value}, nil
		}
	}

	if len(c.Terms) > 0 || c.Constant != 0 {
		return nil, nil, fmt.Errorf("vector set %s takes rows, not terms", c.Set.Type)
	}
	fn := conic.VectorAffine{Constants: make([]float64, len(c.Rows))}
	for k, row := range c.Rows {
		terms, err := resolveTerms(index, row.Terms)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", k, err)
		}
		for _, t := range terms {
			fn.Terms = append(fn.Terms, conic.VectorTerm{Row: k, Term: t})
		}
		fn.Constants[k] = row.Constant
	}

	n := len(c.Rows)
	if c.Set.Dim != 0 && c.Set.Dim != n {
		return nil, nil, fmt.Errorf("set dim %d but %d rows", c.Set.Dim, n)
	}
	var set conic.Set
	switch c.Set.Type {
	case SetZeros:
		set = conic.Zeros{Dim: n}
	case SetNonnegatives:
		set = conic.Nonnegatives{Dim: n}
	case SetNonpositives:
		set = conic.Nonpositives{Dim: n}
	case SetSecondOrderCone:
		set = conic.SecondOrderCone{Dim: n}
	case SetRotatedSecondOrderCone:
		set = conic.RotatedSecondOrderCone{Dim: n}
	case SetPSDTriangle:
		side := conic.SideDimension(n)
		if conic.PackedLength(side) != n {
			return nil, nil, fmt.Errorf("%d rows is not a packed triangle", n)
		}
		if c.Set.Side != 0 && c.Set.Side != side {
			return nil, nil, fmt.Errorf("set side %d but %d rows", c.Set.Side, n)
		}
		set = conic.PSDTriangle{Side: side}
	default:
		return nil, nil, fmt.Errorf("%q: %w", c.Set.Type, ErrUnknownSet)
	}
	return fn, set, nil
}

// resolveTerms maps names to indices. Terms come out in variable order so
// the built model does not depend on map iteration.
func resolveTerms(index map[string]conic.VariableIndex, named map[string]float64) ([]conic.Term, error) {
	terms := make([]conic.Term, 0, len(named))
	for name, coef := range named {
		v, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownVariable)
		}
		terms = append(terms, conic.Term{Var: v, Coef: coef})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Var < terms[j].Var })
	return terms, nil
}
