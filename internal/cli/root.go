// Package cli provides the command-line interface for the simulator.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-simulator/internal/config"
	"options-simulator/internal/logging"
	"options-simulator/internal/pricing"
	"options-simulator/internal/simulation"
	"options-simulator/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.SimulationStore
}

// Calculator builds the simulation engine from the configured pricing
// assumptions.
func (a *App) Calculator() *simulation.Calculator {
	params := pricing.DefaultParams()
	if a.Config != nil {
		params.RiskFreeRate = a.Config.Pricing.RiskFreeRate
		params.DividendYield = a.Config.Pricing.DividendYield
		if a.Config.Pricing.ContractMultiplier > 0 {
			params.ContractMultiplier = a.Config.Pricing.ContractMultiplier
		}
	}
	return simulation.NewCalculator(params)
}

// OpenStore lazily initializes the saved-simulation store.
func (a *App) OpenStore() (store.SimulationStore, error) {
	if a.Store != nil {
		return a.Store, nil
	}
	st, err := store.NewSQLiteStore(a.Config.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	a.Store = st
	return st, nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "optsim",
		Short: "Options exit P&L simulator",
		Long: `optsim simulates the profit and loss of closing an options position
under a hypothetical underlying price.

It prices each leg with Black-Scholes, interpolates implied volatility
from an optional volatility surface, scores per-contract liquidity, and
compares three exit routes: holding to settlement, closing the option
legs only, and closing everything including stock.

Use 'optsim help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/options-simulator)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSimulateCmd(app))
	rootCmd.AddCommand(newProjectCmd(app))
	rootCmd.AddCommand(newGreeksCmd(app))
	rootCmd.AddCommand(newSavedCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("optsim v%s\n", Version)
			}
		},
	}
}
