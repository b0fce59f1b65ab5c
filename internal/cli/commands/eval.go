package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantral/quantral/internal/config"
	"github.com/quantral/quantral/internal/worksheet"
	"github.com/quantral/quantral/pkg/expr"
	"github.com/quantral/quantral/pkg/parser"
)

// EvalOptions holds options for the eval command.
type EvalOptions struct {
	Sets []string // SYM=VALUE variable bindings
	In   string   // Display unit for the result
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(getCfg func(context.Context) *config.Config) *cobra.Command {
	opts := &EvalOptions{}
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a single expression",
		Long: `Evaluate an expression with full dimensional checking. Unit literals
are written in braces, and variables are bound with --set.`,
		Example: `  # Dynamic pressure at 30 m/s
  quantral eval "0.5 * 1.225{kg/m3} * (30{m/s})^2"

  # Bind a variable and pick the output unit
  quantral eval "F / A" --set "F=10{kip}" --set "A=2{in2}" --in psi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg(cmd.Context())

			e, err := parser.Parse(args[0])
			if err != nil {
				return err
			}

			bindings := expr.MapBindings{}
			for _, s := range opts.Sets {
				sym, val, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q: want SYM=VALUE", s)
				}
				q, err := worksheet.ParseQuantity(val)
				if err != nil {
					return fmt.Errorf("invalid --set %q: %w", s, err)
				}
				bindings[sym] = q
			}

			var evalOpts []expr.EvalOption
			if cfg.Solver.StrictRange {
				evalOpts = append(evalOpts, expr.WithStrictRange())
			}
			res, err := expr.NewEvaluator(bindings, evalOpts...).Eval(e)
			if err != nil {
				return err
			}
			if !res.Resolved {
				unbound := unboundVars(e, bindings)
				return fmt.Errorf("unresolved: missing bindings for %s", strings.Join(unbound, ", "))
			}

			out := res.Quantity
			if opts.In != "" {
				out, err = out.To(opts.In)
				if err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Sets, "set", nil, "Bind a variable (SYM=VALUE, repeatable)")
	cmd.Flags().StringVar(&opts.In, "in", "", "Convert the result to this unit")
	return cmd
}

func unboundVars(e expr.Expr, bindings expr.MapBindings) []string {
	var out []string
	for _, name := range expr.Vars(e) {
		if q, ok := bindings[name]; !ok || !q.Known() {
			out = append(out, name)
		}
	}
	return out
}
