package conic

import "go.uber.org/zap"

// SolveOption configures a solve.
type SolveOption func(*solveConfig)

type solveConfig struct {
	options Options
	logger  *zap.Logger
	metrics *Metrics
}

func defaultSolveConfig() *solveConfig {
	return &solveConfig{
		options: Options{Params: make(map[string]float64)},
		logger:  zap.NewNop(),
	}
}

func newSolveConfig(opts []SolveOption) *solveConfig {
	cfg := defaultSolveConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithVerbose enables or disables solver output.
func WithVerbose(enabled bool) SolveOption {
	return func(c *solveConfig) {
		c.options.Verbose = enabled
	}
}

// WithMaxIterations sets the solver's iteration limit.
func WithMaxIterations(n int) SolveOption {
	return func(c *solveConfig) {
		c.options.MaxIterations = n
	}
}

// WithTolerance sets the solver's target accuracy.
func WithTolerance(eps float64) SolveOption {
	return func(c *solveConfig) {
		c.options.Tolerance = eps
	}
}

// WithParam sets a solver-specific numeric parameter.
func WithParam(name string, value float64) SolveOption {
	return func(c *solveConfig) {
		c.options.Params[name] = value
	}
}

// WithLogger installs a structured logger. The default discards output.
func WithLogger(l *zap.Logger) SolveOption {
	return func(c *solveConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records solve metrics into m.
func WithMetrics(m *Metrics) SolveOption {
	return func(c *solveConfig) {
		c.metrics = m
	}
}
