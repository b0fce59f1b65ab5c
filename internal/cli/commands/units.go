package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/quantral/quantral/internal/config"
	"github.com/quantral/quantral/internal/render"
	"github.com/quantral/quantral/pkg/unit"
)

// NewUnitsCommand creates the units command.
func NewUnitsCommand(getCfg func(context.Context) *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "units [unit]",
		Short: "List known units",
		Long: `List the registered units with their dimensions and SI conversion
factors. With an argument, show the details of a single unit; the
argument accepts names, symbols, aliases, and SI-prefixed forms.`,
		Example: `  # List all units
  quantral units

  # Show one unit, by any spelling
  quantral units psi
  quantral units kilonewton`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg(cmd.Context())
			if len(args) > 0 {
				return showUnit(cmd, args[0])
			}
			return listUnits(cmd, cfg.Output.Format)
		},
	}
}

func showUnit(cmd *cobra.Command, spelling string) error {
	u, err := unit.Resolve(spelling)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s (%s)\n", u.Name, u.Symbol)
	if len(u.Aliases) > 0 {
		_, _ = fmt.Fprintf(w, "  aliases:   %s\n", strings.Join(u.Aliases, ", "))
	}
	_, _ = fmt.Fprintf(w, "  dimension: %s\n", u.Dim.String())
	_, _ = fmt.Fprintf(w, "  SI factor: %g\n", u.SIFactor)
	if u.IsAffine() {
		_, _ = fmt.Fprintf(w, "  SI offset: %g\n", u.SIOffset)
	}
	return nil
}

func listUnits(cmd *cobra.Command, format string) error {
	units := unit.List()
	w := cmd.OutOrStdout()

	switch render.ResolveFormat(format, w) {
	case render.FormatJSON:
		type jsonUnit struct {
			Symbol    string   `json:"symbol"`
			Name      string   `json:"name"`
			Aliases   []string `json:"aliases,omitempty"`
			Dimension string   `json:"dimension"`
			SIFactor  float64  `json:"si_factor"`
			SIOffset  float64  `json:"si_offset,omitempty"`
		}
		out := make([]jsonUnit, 0, len(units))
		for _, u := range units {
			out = append(out, jsonUnit{
				Symbol:    u.Symbol,
				Name:      u.Name,
				Aliases:   u.Aliases,
				Dimension: u.Dim.String(),
				SIFactor:  u.SIFactor,
				SIOffset:  u.SIOffset,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case render.FormatMarkdown:
		_, _ = fmt.Fprintln(w, "| Symbol | Name | Dimension | SI factor |")
		_, _ = fmt.Fprintln(w, "| --- | --- | --- | --- |")
		for _, u := range units {
			_, _ = fmt.Fprintf(w, "| %s | %s | %s | %g |\n", u.Symbol, u.Name, u.Dim.String(), u.SIFactor)
		}
		return nil
	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Symbol", "Name", "Dimension", "SI factor"})
		for _, u := range units {
			t.AppendRow(table.Row{u.Symbol, u.Name, u.Dim.String(), fmt.Sprintf("%g", u.SIFactor)})
		}
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d units)\n", len(units))
		return nil
	}
}
