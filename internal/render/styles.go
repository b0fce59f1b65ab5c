package render

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/quantral/quantral/pkg/problem"
)

// Styles holds the lipgloss styles for diagnostic output.
type Styles struct {
	Error  lipgloss.Style
	Symbol lipgloss.Style
	Detail lipgloss.Style
}

// NewStyles returns a styled or plain style set depending on whether w
// is a terminal.
func NewStyles(w io.Writer) *Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &Styles{
			Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			Symbol: lipgloss.NewStyle().Bold(true),
			Detail: lipgloss.NewStyle().Faint(true),
		}
	}
	return &Styles{}
}

// Unsolvable writes the root blockers of a failed solve, one line per
// blocked symbol with the reason it could not be resolved.
func Unsolvable(w io.Writer, ue *problem.UnsolvableError) {
	styles := NewStyles(w)

	_, _ = fmt.Fprintf(w, "%s after %d iterations:\n",
		styles.Error.Render("unsolvable"), ue.Iterations)

	blocked := append([]problem.Blocked(nil), ue.Blocked...)
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].Symbol < blocked[j].Symbol })

	for _, b := range blocked {
		reason := "missing inputs: " + joinSymbols(b.MissingInputs)
		if b.NoEquation {
			reason = "no equation resolves it"
		}
		_, _ = fmt.Fprintf(w, "  %s  %s\n",
			styles.Symbol.Render(b.Symbol), styles.Detail.Render(reason))
	}
}

func joinSymbols(syms []string) string {
	sorted := append([]string(nil), syms...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
