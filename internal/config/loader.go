package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search
// for a config file.
const maxUpwardSearchLevels = 10

// configNames are the accepted config file names, in priority order.
var configNames = []string{"quantral.yaml", "quantral.yml"}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"max-iterations": "solver.max_iterations",
	"strict-range":   "solver.strict_range",
	"format":         "output.format",
}

// Load builds the effective configuration. explicit names a config file
// directly and skips the upward search; flags may be nil.
func Load(explicit string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	path := explicit
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	// QUANTRAL_SOLVER_MAX_ITERATIONS -> solver.max_iterations
	err := k.Load(env.Provider("QUANTRAL_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "QUANTRAL_"))
		if section, rest, ok := strings.Cut(key, "_"); ok {
			return section + "." + rest
		}
		return key
	}), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// Flags are highest priority and only apply when explicitly set.
	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, path, nil
}

// findConfigFile searches the working directory and its ancestors.
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
