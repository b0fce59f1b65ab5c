// Package config loads application configuration for quantral. Settings
// merge in priority order: defaults, then quantral.yaml (searched upward
// from the working directory), then QUANTRAL_* environment variables,
// then command-line flags.
package config

// Config is the root application configuration.
type Config struct {
	Solver SolverConfig `koanf:"solver"`
	Output OutputConfig `koanf:"output"`
}

// SolverConfig tunes the relaxation solver.
type SolverConfig struct {
	// MaxIterations caps relaxation passes.
	MaxIterations int `koanf:"max_iterations"`

	// StrictRange turns an unmatched range selection without a default
	// into a hard error instead of an unresolved variable.
	StrictRange bool `koanf:"strict_range"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	// Format is one of auto, table, markdown, json. Auto picks table on
	// a terminal and markdown when piped.
	Format string `koanf:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"solver.max_iterations": 100,
		"solver.strict_range":   false,
		"output.format":         "auto",
	}
}
