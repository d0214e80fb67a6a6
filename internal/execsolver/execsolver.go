// Package execsolver implements conic.Solver by running an external
// program. The problem is written to the program's stdin as one JSON
// object and the result is read back from its stdout:
//
//	{"A": {"m": 2, "n": 1, "colptr": [0, 2], "rowind": [0, 1], "values": [-1, -1]},
//	 "b": [-1, 0], "c": [-1],
//	 "K": {"f": 1, "l": 0, "q": [], "r": [], "s": []},
//	 "pars": {"fid": 0}}
//
//	{"x": [0.5], "y": [0.25, 0.75], "info": {"pinf": 0, "dinf": 0, "numerr": 0, "iter": 7}}
//
// The call blocks until the program exits and cannot be cancelled.
package execsolver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bartolsthoorn/goconic/conic"
)

// ErrBadResponse is returned when the program's output cannot be used.
var ErrBadResponse = errors.New("execsolver: bad solver response")

// maxStderr bounds the stderr excerpt included in errors.
const maxStderr = 2048

// Matrix is a sparse matrix in compressed sparse column form.
type Matrix struct {
	M      int       `json:"m"`
	N      int       `json:"n"`
	ColPtr []int     `json:"colptr"`
	RowInd []int     `json:"rowind"`
	Values []float64 `json:"values"`
}

// Cone lists the block sizes: free rows, nonnegative rows, and the
// dimensions of the second-order, rotated second-order and PSD cones.
type Cone struct {
	F int   `json:"f"`
	L int   `json:"l"`
	Q []int `json:"q"`
	R []int `json:"r"`
	S []int `json:"s"`
}

// Pars are the solver parameters. FID is 1 when solver output is wanted.
type Pars struct {
	FID     int                `json:"fid"`
	MaxIter int                `json:"maxiter,omitempty"`
	Eps     float64            `json:"eps,omitempty"`
	Params  map[string]float64 `json:"params,omitempty"`
}

// Request is the JSON document written to the program.
type Request struct {
	A    Matrix    `json:"A"`
	B    []float64 `json:"b"`
	C    []float64 `json:"c"`
	K    Cone      `json:"K"`
	Pars Pars      `json:"pars"`
}

// Info is the program's diagnostics block.
type Info struct {
	Pinf    int    `json:"pinf"`
	Dinf    int    `json:"dinf"`
	Numerr  int    `json:"numerr"`
	Iter    int    `json:"iter"`
	Message string `json:"msg,omitempty"`
}

// Response is the JSON document read from the program.
type Response struct {
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Info Info      `json:"info"`
}

// NewRequest converts a solver call into its wire form.
func NewRequest(a *conic.SparseMatrix, b, c []float64, cone conic.Cone, opts conic.Options) *Request {
	req := &Request{
		A: Matrix{
			M:      a.Rows,
			N:      a.Cols,
			ColPtr: nonNilInts(a.ColPtr),
			RowInd: nonNilInts(a.RowIdx),
			Values: nonNilFloats(a.Values),
		},
		B: nonNilFloats(b),
		C: nonNilFloats(c),
		K: Cone{
			F: cone.Zero,
			L: cone.Linear,
			Q: nonNilInts(cone.SOC),
			R: nonNilInts(cone.RotatedSOC),
			S: nonNilInts(cone.PSD),
		},
		Pars: Pars{
			MaxIter: opts.MaxIterations,
			Eps:     opts.Tolerance,
		},
	}
	if opts.Verbose {
		req.Pars.FID = 1
	}
	if len(opts.Params) > 0 {
		req.Pars.Params = opts.Params
	}
	return req
}

// Result converts the response into a raw solver result.
func (r *Response) Result() (*conic.RawResult, error) {
	flag := func(name string, v int) (bool, error) {
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("%s=%d: %w", name, v, ErrBadResponse)
	}
	pinf, err := flag("pinf", r.Info.Pinf)
	if err != nil {
		return nil, err
	}
	dinf, err := flag("dinf", r.Info.Dinf)
	if err != nil {
		return nil, err
	}
	if r.Info.Numerr < 0 || r.Info.Numerr > int(conic.AccuracyFailed) {
		return nil, fmt.Errorf("numerr=%d: %w", r.Info.Numerr, ErrBadResponse)
	}
	return &conic.RawResult{
		X: r.X,
		Y: r.Y,
		Info: conic.Diagnostics{
			PrimalInfeasible: pinf,
			DualInfeasible:   dinf,
			Accuracy:         conic.Accuracy(r.Info.Numerr),
			Iterations:       r.Info.Iter,
			Message:          r.Info.Message,
		},
	}, nil
}

// Solver runs Command with Args once per solve.
type Solver struct {
	Command string
	Args    []string
	// Env is appended to the current environment.
	Env []string
	// Stderr receives the program's stderr when verbose output is
	// requested. Nil means os.Stderr.
	Stderr io.Writer

	logger *zap.Logger
}

// New returns a solver that runs command with args.
func New(command string, args ...string) *Solver {
	return &Solver{Command: command, Args: args, logger: zap.NewNop()}
}

// WithLogger sets the logger and returns s.
func (s *Solver) WithLogger(l *zap.Logger) *Solver {
	if l != nil {
		s.logger = l
	}
	return s
}

// Solve implements conic.Solver.
func (s *Solver) Solve(a *conic.SparseMatrix, b, c []float64, cone conic.Cone, opts conic.Options) (*conic.RawResult, error) {
	if s.Command == "" {
		return nil, fmt.Errorf("execsolver: no command configured")
	}
	log := s.logger
	if log == nil {
		log = zap.NewNop()
	}

	payload, err := json.Marshal(NewRequest(a, b, c, cone, opts))
	if err != nil {
		return nil, fmt.Errorf("execsolver: encode request: %w", err)
	}

	cmd := exec.Command(s.Command, s.Args...)
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if opts.Verbose {
		w := s.Stderr
		if w == nil {
			w = os.Stderr
		}
		cmd.Stderr = io.MultiWriter(&stderr, w)
	}

	log.Debug("Running external solver",
		zap.String("command", s.Command),
		zap.Strings("args", s.Args),
		zap.Int("request_bytes", len(payload)))
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("execsolver: %s: %w%s", s.Command, err, excerpt(stderr.String()))
	}
	log.Debug("External solver exited",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", stdout.Len()))

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("execsolver: decode response: %v: %w", err, ErrBadResponse)
	}
	return resp.Result()
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > maxStderr {
		s = "..." + s[len(s)-maxStderr:]
	}
	return ": " + s
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilFloats(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}
