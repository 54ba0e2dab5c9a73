package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	apperrors "options-simulator/internal/errors"
	"options-simulator/internal/logging"
	"options-simulator/internal/models"
	"options-simulator/pkg/utils"
)

// loadInput reads a SimulationInput from a JSON file.
func loadInput(path string) (models.SimulationInput, error) {
	var in models.SimulationInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, apperrors.Wrapf(err, "reading position file %s", path)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, apperrors.Wrapf(err, "parsing position file %s", path)
	}
	return in, nil
}

func newSimulateCmd(app *App) *cobra.Command {
	var (
		targetPrice float64
		daysPassed  int
	)

	cmd := &cobra.Command{
		Use:   "simulate <position.json>",
		Short: "Simulate exit P&L for a position at a target price",
		Long: `Simulate reads a position file (contracts, stock legs, optional
volatility surface) and reports the P&L of the three exit routes at the
target underlying price.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("price") {
				in.TargetUnderlyingPrice = targetPrice
			}
			if cmd.Flags().Changed("days") {
				in.DaysPassed = daysPassed
			}
			if in.TargetUnderlyingPrice <= 0 {
				return apperrors.NewValidationError("target price", in.TargetUnderlyingPrice, "must be positive")
			}

			result := app.Calculator().Simulate(in)
			logging.LogSimulation(logging.WithOperation(app.Logger, "simulate"),
				len(in.Contracts), len(in.Positions),
				in.DaysPassed, in.TargetUnderlyingPrice, result.CloseEverything.TotalPL)

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Exit simulation at target %s (%d days passed)",
				utils.FormatCurrency(in.TargetUnderlyingPrice), in.DaysPassed)
			output.Println()

			renderScenario(output, "Exercise / settlement", result.Exercise)
			renderScenario(output, "Close options only", result.CloseOptionsOnly)
			renderScenario(output, "Close everything", result.CloseEverything)
			renderLiquidity(output, result.Liquidity)
			return nil
		},
	}

	cmd.Flags().Float64Var(&targetPrice, "price", 0, "target underlying price (overrides position file)")
	cmd.Flags().IntVar(&daysPassed, "days", 0, "days elapsed since entry (overrides position file)")
	return cmd
}

func renderScenario(output *Output, title string, sc models.ScenarioResult) {
	output.Info("%s", title)

	table := tablewriter.NewWriter(output.Writer())
	table.Header("Leg", "P&L", "K", "Notes")
	for _, leg := range sc.Legs {
		pl := utils.FormatPnL(leg.DisplayValue)
		k := ""
		if leg.KCoefficient != 0 {
			k = fmt.Sprintf("%.2f", leg.KCoefficient)
		}
		notes := leg.Description
		if leg.Excluded {
			notes = "excluded: " + notes
		}
		table.Append(leg.Label, output.PnLString(leg.DisplayValue, pl), k, notes)
	}
	table.Append("TOTAL", output.PnLString(sc.TotalPL, utils.FormatPnL(sc.TotalPL)), "", "")
	table.Render()
	output.Println()
}

func renderLiquidity(output *Output, assessments []models.LiquidityAssessment) {
	if len(assessments) == 0 {
		return
	}
	output.Info("Liquidity")

	table := tablewriter.NewWriter(output.Writer())
	table.Header("Contract", "Score", "Level", "Warnings")
	for _, a := range assessments {
		warnings := ""
		for i, w := range a.Warnings {
			if i > 0 {
				warnings += "; "
			}
			warnings += w
		}
		table.Append(a.Symbol, fmt.Sprintf("%.0f", a.Score), string(a.Level), warnings)
	}
	table.Render()
	output.Println()
}
