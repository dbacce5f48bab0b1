// Package forecast handles the scenario forecasting command
package forecast

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/common"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
)

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project drivers under baseline, growth, and downturn scenarios",
	Long: `Forecast discovers the statement's drivers and projects them forward under
three scenarios, with confidence bands and optional user adjustments applied
over date ranges.`,
	RunE: forecastFunc,
}

func init() {
	Cmd.Flags().IntVarP(&root.Horizon, "horizon", "m", 0, "Forecast horizon in months (default from config)")
	Cmd.Flags().StringVarP(&root.AdjustmentsFile, "adjustments", "a", "", "YAML file of driver adjustments")
	Cmd.Flags().BoolVarP(&root.Compare, "compare", "c", false, "Output only the per-scenario summary comparison")
}

func forecastFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Forecast command called")

	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input report is required (use --input)")
	}

	adjustments, err := loadAdjustments(root.AdjustmentsFile)
	if err != nil {
		return err
	}

	p := root.NewPipeline()
	stmt, err := p.Normalize(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	bundle, err := p.Forecast(stmt, root.Horizon, adjustments)
	if err != nil {
		return err
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldMonths, Value: bundle.Forecast.Horizon},
		logging.Field{Key: logging.FieldCount, Value: len(bundle.Discovery.Drivers)},
	).Info("Forecast complete")

	out := common.OutputPath(root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format)
	if root.Compare {
		return common.WriteJSONFile(bundle.Forecast.Compare, out)
	}
	if root.SharedFlags.Format == "csv" {
		return common.WriteCSVFile(common.ProjectionRows(bundle.Forecast), out)
	}
	return common.WriteJSONFile(bundle.Forecast, out)
}

// loadAdjustments reads a YAML list of driver adjustments.
func loadAdjustments(path string) ([]models.DriverAdjustment, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading adjustments file: %w", err)
	}

	var adjustments []models.DriverAdjustment
	if err := yaml.Unmarshal(raw, &adjustments); err != nil {
		return nil, fmt.Errorf("parsing adjustments file: %w", err)
	}
	return adjustments, nil
}
