package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	apperrors "options-simulator/internal/errors"
	"options-simulator/internal/logging"
	"options-simulator/internal/models"
	"options-simulator/internal/simulation"
	"options-simulator/pkg/utils"
)

// projectionCSVRow is the flattened shape written by --csv.
type projectionCSVRow struct {
	DayOffset int     `csv:"day_offset"`
	TotalPL   float64 `csv:"total_pl"`
}

func newProjectCmd(app *App) *cobra.Command {
	var (
		targetPrice float64
		stepDays    int
		csvPath     string
	)

	cmd := &cobra.Command{
		Use:   "project <position.json>",
		Short: "Project exit P&L day by day until the last expiration",
		Long: `Project sweeps the close-everything exit P&L across time, from today
to the furthest leg expiration, and reports the series with summary
statistics. Expired legs stay frozen at their settlement value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			start := time.Now()

			in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("price") {
				in.TargetUnderlyingPrice = targetPrice
			}
			if in.TargetUnderlyingPrice <= 0 {
				return apperrors.NewValidationError("target price", in.TargetUnderlyingPrice, "must be positive")
			}
			if stepDays < 0 {
				return apperrors.NewValidationError("step", stepDays, "must not be negative")
			}

			proj := simulation.NewProjector(app.Calculator())
			offsets := proj.HorizonOffsets(in, stepDays)
			points := proj.Project(in, offsets)
			summary, err := simulation.Summarize(points)
			if err != nil {
				return err
			}
			logging.LogProjection(logging.WithOperation(app.Logger, "project"),
				len(points), in.TargetUnderlyingPrice, time.Since(start))

			if csvPath != "" {
				if err := writeProjectionCSV(csvPath, points); err != nil {
					return err
				}
				output.Success("Wrote %d points to %s", len(points), csvPath)
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"points":  points,
					"summary": summary,
				})
			}

			output.Bold("P&L projection at target %s", utils.FormatCurrency(in.TargetUnderlyingPrice))
			output.Println()
			renderProjection(output, points, summary)
			return nil
		},
	}

	cmd.Flags().Float64Var(&targetPrice, "price", 0, "target underlying price (overrides position file)")
	cmd.Flags().IntVar(&stepDays, "step", 1, "sampling interval in days")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the series to a CSV file")
	return cmd
}

func writeProjectionCSV(path string, points []models.ProjectionPoint) error {
	rows := make([]projectionCSVRow, len(points))
	for i, pt := range points {
		rows[i] = projectionCSVRow{DayOffset: pt.DayOffset, TotalPL: pt.TotalPL}
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return apperrors.Wrap(err, "writing projection CSV")
	}
	return nil
}

func renderProjection(output *Output, points []models.ProjectionPoint, summary models.ProjectionSummary) {
	table := tablewriter.NewWriter(output.Writer())
	table.Header("Day", "P&L")
	for _, pt := range points {
		table.Append(fmt.Sprintf("+%d", pt.DayOffset),
			output.PnLString(pt.TotalPL, utils.FormatPnL(pt.TotalPL)))
	}
	table.Render()

	output.Println()
	output.Printf("max %s  min %s  mean %s  final %s\n",
		utils.FormatPnL(summary.MaxPL),
		utils.FormatPnL(summary.MinPL),
		utils.FormatPnL(summary.MeanPL),
		utils.FormatPnL(summary.FinalPL))
}
