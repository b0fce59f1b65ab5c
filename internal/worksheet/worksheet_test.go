package worksheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantral/quantral/internal/testutil"
	"github.com/quantral/quantral/pkg/problem"
)

const pipeWorksheet = `name: Pipe wall thickness
inputs:
  T_bar:
    value: 0.147
    unit: in
    name: Nominal wall thickness
  U_m: 0.125
  D: 0.84{in}
unknowns:
  T: Design wall thickness
  d: Inner diameter
equations:
  T: T_bar * (1 - U_m)
  d: D - 2*T
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParse(t *testing.T) {
	ws, err := Parse([]byte(pipeWorksheet), "pipe.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Pipe wall thickness", ws.Name)
	require.Len(t, ws.Inputs, 3)
	assert.Equal(t, "T_bar", ws.Inputs[0].Symbol)
	assert.Equal(t, "Nominal wall thickness", ws.Inputs[0].Name)
	assert.Equal(t, "in", ws.Inputs[0].Value.Unit().Symbol)
	assert.True(t, ws.Inputs[1].Value.Dim().IsDimensionless())
	assert.Equal(t, "in", ws.Inputs[2].Value.Unit().Symbol)

	require.Len(t, ws.Equations, 2)
	assert.Equal(t, "T", ws.Equations[0].Target)
	assert.Equal(t, "d", ws.Equations[1].Target)
}

func TestBuildAndSolve(t *testing.T) {
	p := writeFile(t, t.TempDir(), "pipe.yaml", pipeWorksheet)

	ws, err := Load(p)
	require.NoError(t, err)
	prob, err := ws.Build()
	require.NoError(t, err)

	snap, err := prob.Solve(problem.SolveOptions{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	tVal, ok := snap.Get("T")
	require.True(t, ok)
	tIn, err := tVal.To("in")
	require.NoError(t, err)
	assert.InDelta(t, 0.128625, tIn.Value(), 1e-9)

	dVal, ok := snap.Get("d")
	require.True(t, ok)
	dIn, err := dVal.To("in")
	require.NoError(t, err)
	assert.InDelta(t, 0.58275, dIn.Value(), 1e-9)
}

func TestBuildImplicitUnknowns(t *testing.T) {
	content := `inputs:
  a: 2
equations:
  b: a + 1
  c: b * 10
`
	ws, err := Parse([]byte(content), "implicit.yaml")
	require.NoError(t, err)
	prob, err := ws.Build()
	require.NoError(t, err)

	snap, err := prob.Solve(problem.SolveOptions{})
	require.NoError(t, err)
	c, ok := snap.Get("c")
	require.True(t, ok)
	assert.InDelta(t, 30, c.SI(), 1e-12)
}

func TestBuildSubproblem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "beam.yaml", `name: Beam
inputs:
  F: 10{kip}
unknowns: [R]
equations:
  R: F / 2
`)
	writeFile(t, dir, "frame.yaml", `name: Frame
inputs:
  margin: 1.5
subproblems:
  left: beam.yaml
equations:
  design: left_R * margin
`)

	ws, err := Load(filepath.Join(dir, "frame.yaml"))
	require.NoError(t, err)
	prob, err := ws.Build()
	require.NoError(t, err)

	snap, err := prob.Solve(problem.SolveOptions{})
	require.NoError(t, err)

	r, ok := snap.Get("left_R")
	require.True(t, ok)
	rKip, err := r.To("kip")
	require.NoError(t, err)
	assert.InDelta(t, 5, rKip.Value(), 1e-9)

	d, ok := snap.Get("design")
	require.True(t, ok)
	dKip, err := d.To("kip")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, dKip.Value(), 1e-9)
}

func TestBuildSubproblemCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "subproblems:\n  b: b.yaml\n")
	writeFile(t, dir, "b.yaml", "subproblems:\n  a: a.yaml\n")

	ws, err := Load(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	_, err = ws.Build()
	require.ErrorContains(t, err, "cycle")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unknown section", "nope: 1\n", "unknown worksheet section"},
		{"bad inputs kind", "inputs: [1, 2]\n", "inputs must be a mapping"},
		{"bad expression", "equations:\n  x: 1 +\n", "equation x"},
		{"bad unit", "inputs:\n  P: 3{bogons}\n", "input P"},
		{"non-constant input", "inputs:\n  P: x + 1\n", "must be a constant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse([]byte("name: ok\nequations:\n  x: \"1 +\"\n"), "bad.yaml")
	var werr *Error
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "bad.yaml", werr.File)
	assert.Equal(t, 3, werr.Line)
}
