// Package render formats solve results for the terminal and for
// machine consumption.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/quantral/quantral/pkg/problem"
	"github.com/quantral/quantral/pkg/quantity"
)

// Output formats.
const (
	FormatAuto     = "auto"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatCSV      = "csv"
)

// ResolveFormat maps "auto" to a concrete format: a styled table when
// writing to a terminal, markdown when piped.
func ResolveFormat(format string, w io.Writer) string {
	if format != FormatAuto && format != "" {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatTable
	}
	return FormatMarkdown
}

// Snapshot writes a solve result in the given format.
func Snapshot(w io.Writer, snap *problem.Snapshot, format string) error {
	switch ResolveFormat(format, w) {
	case FormatJSON:
		return renderJSON(w, snap)
	case FormatCSV:
		return renderCSV(w, snap)
	case FormatMarkdown, "md":
		return renderMarkdown(w, snap)
	case FormatTable:
		return renderTable(w, snap)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func formatValue(q quantity.Quantity) string {
	if !q.Known() {
		return "?"
	}
	return q.String()
}

func renderTable(w io.Writer, snap *problem.Snapshot) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if snap.Problem != "" {
		t.SetTitle(snap.Problem)
	}

	t.AppendHeader(table.Row{"Symbol", "Name", "Value"})
	for _, st := range snap.States() {
		t.AppendRow(table.Row{st.Symbol, st.Name, formatValue(st.Value)})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d variables, %d iterations)\n", len(snap.States()), snap.Iterations)
	return nil
}

func renderMarkdown(w io.Writer, snap *problem.Snapshot) error {
	if snap.Problem != "" {
		_, _ = fmt.Fprintf(w, "## %s\n\n", snap.Problem)
	}
	_, _ = fmt.Fprintln(w, "| Symbol | Name | Value |")
	_, _ = fmt.Fprintln(w, "| --- | --- | --- |")
	for _, st := range snap.States() {
		_, _ = fmt.Fprintf(w, "| %s | %s | %s |\n", st.Symbol, st.Name, formatValue(st.Value))
	}
	return nil
}

type jsonVariable struct {
	Symbol string   `json:"symbol"`
	Name   string   `json:"name,omitempty"`
	Value  *float64 `json:"value,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	SI     *float64 `json:"si,omitempty"`
	Known  bool     `json:"known"`
}

type jsonSnapshot struct {
	Problem    string         `json:"problem,omitempty"`
	Iterations int            `json:"iterations"`
	Variables  []jsonVariable `json:"variables"`
}

func renderJSON(w io.Writer, snap *problem.Snapshot) error {
	out := jsonSnapshot{
		Problem:    snap.Problem,
		Iterations: snap.Iterations,
	}
	for _, st := range snap.States() {
		jv := jsonVariable{Symbol: st.Symbol, Name: st.Name, Known: st.Value.Known()}
		if st.Value.Known() {
			v := st.Value.Value()
			si := st.Value.SI()
			jv.Value = &v
			jv.SI = &si
			if u := st.Value.Unit(); u != nil {
				jv.Unit = u.Symbol
			}
		}
		out.Variables = append(out.Variables, jv)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderCSV(w io.Writer, snap *problem.Snapshot) error {
	_, _ = fmt.Fprintln(w, "symbol,name,value")
	for _, st := range snap.States() {
		_, _ = fmt.Fprintf(w, "%s,%s,%s\n",
			escapeCSV(st.Symbol), escapeCSV(st.Name), escapeCSV(formatValue(st.Value)))
	}
	return nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
