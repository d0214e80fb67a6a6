package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/bartolsthoorn/goconic/conic"
)

// Config holds the CLI parameters.
// Zero values mean "unspecified" and leave the solver defaults in place.
type Config struct {
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	Solver   Solver `json:"solver" yaml:"solver" toml:"solver"`
}

// Solver describes the external solver process and its parameters.
type Solver struct {
	Command       string             `json:"command" yaml:"command" toml:"command"`
	Args          []string           `json:"args" yaml:"args" toml:"args"`
	Verbose       bool               `json:"verbose" yaml:"verbose" toml:"verbose"`
	MaxIterations int                `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
	Tolerance     float64            `json:"tolerance" yaml:"tolerance" toml:"tolerance"`
	Params        map[string]float64 `json:"params" yaml:"params" toml:"params"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no solver accepts.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("solver.max_iterations must be >= 0, got %d", c.Solver.MaxIterations)
	}
	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("solver.tolerance must be >= 0, got %g", c.Solver.Tolerance)
	}
	return nil
}

// Level parses LogLevel. An empty level is Info.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// SolveOptions converts the solver section into solve options. Params are
// applied in name order.
func (c Config) SolveOptions() []conic.SolveOption {
	s := c.Solver
	var opts []conic.SolveOption
	if s.Verbose {
		opts = append(opts, conic.WithVerbose(true))
	}
	if s.MaxIterations > 0 {
		opts = append(opts, conic.WithMaxIterations(s.MaxIterations))
	}
	if s.Tolerance > 0 {
		opts = append(opts, conic.WithTolerance(s.Tolerance))
	}
	names := make([]string, 0, len(s.Params))
	for name := range s.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, conic.WithParam(name, s.Params[name]))
	}
	return opts
}
