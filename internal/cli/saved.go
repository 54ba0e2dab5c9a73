package cli

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"options-simulator/internal/store"
)

func newSavedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved simulation setups",
	}

	cmd.AddCommand(newSavedListCmd(app))
	cmd.AddCommand(newSavedAddCmd(app))
	cmd.AddCommand(newSavedRunCmd(app))
	cmd.AddCommand(newSavedDeleteCmd(app))
	return cmd
}

func newSavedListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved simulation setups",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.OpenStore()
			if err != nil {
				return err
			}

			sims, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(sims)
			}
			if len(sims) == 0 {
				output.Dim("No saved simulations.")
				return nil
			}

			table := tablewriter.NewWriter(output.Writer())
			table.Header("ID", "Name", "Legs", "Updated")
			for _, sim := range sims {
				table.Append(sim.ID, sim.Name,
					strconv.Itoa(len(sim.Input.Contracts)+len(sim.Input.Positions)),
					sim.UpdatedAt.Format("2006-01-02 15:04"))
			}
			table.Render()
			return nil
		},
	}
}

func newSavedAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <position.json>",
		Short: "Save a position file as a named simulation setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.OpenStore()
			if err != nil {
				return err
			}

			in, err := loadInput(args[0])
			if err != nil {
				return err
			}

			sim := &store.SavedSimulation{Name: name, Input: in}
			if err := st.Save(cmd.Context(), sim); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(sim)
			}
			output.Success("Saved %q as %s", sim.Name, sim.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name for the saved setup")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newSavedRunCmd(app *App) *cobra.Command {
	var (
		targetPrice float64
		daysPassed  int
	)

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Run a saved simulation setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.OpenStore()
			if err != nil {
				return err
			}

			sim, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			in := sim.Input
			if cmd.Flags().Changed("price") {
				in.TargetUnderlyingPrice = targetPrice
			}
			if cmd.Flags().Changed("days") {
				in.DaysPassed = daysPassed
			}

			result := app.Calculator().Simulate(in)
			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("%s", sim.Name)
			output.Println()
			renderScenario(output, "Exercise / settlement", result.Exercise)
			renderScenario(output, "Close options only", result.CloseOptionsOnly)
			renderScenario(output, "Close everything", result.CloseEverything)
			renderLiquidity(output, result.Liquidity)
			return nil
		},
	}

	cmd.Flags().Float64Var(&targetPrice, "price", 0, "target underlying price (overrides saved value)")
	cmd.Flags().IntVar(&daysPassed, "days", 0, "days elapsed since entry (overrides saved value)")
	return cmd
}

func newSavedDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved simulation setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			st, err := app.OpenStore()
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			output.Success("Deleted %s", args[0])
			return nil
		},
	}
}
