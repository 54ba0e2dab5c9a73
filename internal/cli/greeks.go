package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newGreeksCmd(app *App) *cobra.Command {
	var daysPassed int

	cmd := &cobra.Command{
		Use:   "greeks <position.json>",
		Short: "Show per-leg option sensitivities",
		Long: `Greeks reports position-oriented delta, gamma, theta, vega and rho for
each visible option leg, at the current underlying price and the
simulated date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				in.DaysPassed = daysPassed
			}

			legs := app.Calculator().LegGreeks(in)
			if output.IsJSON() {
				return output.JSON(legs)
			}

			table := tablewriter.NewWriter(output.Writer())
			table.Header("Leg", "Days", "Vol", "Delta", "Gamma", "Theta", "Vega", "Rho")
			for _, leg := range legs {
				table.Append(
					leg.Label,
					fmt.Sprintf("%d", leg.DaysRemaining),
					fmt.Sprintf("%.1f%%", leg.Volatility),
					fmt.Sprintf("%.4f", leg.Greeks.Delta),
					fmt.Sprintf("%.4f", leg.Greeks.Gamma),
					fmt.Sprintf("%.4f", leg.Greeks.Theta),
					fmt.Sprintf("%.4f", leg.Greeks.Vega),
					fmt.Sprintf("%.4f", leg.Greeks.Rho),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&daysPassed, "days", 0, "days elapsed since entry (overrides position file)")
	return cmd
}
