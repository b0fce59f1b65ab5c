package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quantral/quantral/pkg/quantity"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from-unit> <to-unit>",
		Short: "Convert a value between units",
		Long: `Convert a value from one unit to another. The units must share a
dimension; converting pressure to length is an error, not a guess.`,
		Example: `  quantral convert 1200 psi MPa
  quantral convert 72 °F °C
  quantral convert 1 atm Pa`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			q, err := quantity.New(value, args[1])
			if err != nil {
				return err
			}
			out, err := q.To(args[2])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}
