package cli

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantral/quantral/pkg/unit"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "quantral", cmd.Use)
	assert.Equal(t, Version, cmd.Version)

	for _, flag := range []string{"config", "verbose", "format", "max-iterations", "strict-range"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	subcommands := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"version", "solve", "eval", "convert", "units"} {
		assert.True(t, subcommands[name], "subcommand %q should exist", name)
	}
}

func TestRootCmdVersion(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "quantral")
	assert.Contains(t, buf.String(), Version)
}

func TestRootCmdLoadsConfigIntoContext(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"eval", "1 + 1"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "2\n", buf.String())
}

func TestRootCmdFinalizesUnitRegistry(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"eval", "1 + 1"})
	require.NoError(t, cmd.Execute())

	// The registry is frozen after startup: rebinding an existing
	// symbol must fail instead of silently replacing it.
	err := unit.Register(&unit.Unit{
		Name:     "impostor",
		Symbol:   "m",
		SIFactor: 1,
		Dim:      unit.DimTime,
	})
	var dup *unit.DuplicateUnitError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "m", dup.Key)

	// "m" still resolves to the meter.
	u, err := unit.Resolve("m")
	require.NoError(t, err)
	assert.Equal(t, "meter", u.Name)
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	require.NotNil(t, cfg)
}

func TestGetLoggerFallback(t *testing.T) {
	logger := GetLogger(context.Background())
	require.NotNil(t, logger)
	// Discard logger must be safe to use.
	logger.Debug("noop", slog.String("k", "v"))
}
