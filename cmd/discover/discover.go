// Package discover handles the driver discovery command
package discover

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/common"
	"fjacquet/pnl-forecast/internal/logging"
)

var profiles bool

// Cmd represents the discover command
var Cmd = &cobra.Command{
	Use:   "discover",
	Short: "Score line items and select the business drivers",
	Long: `Discover scores every line item on materiality, variability,
predictability, growth impact, and data quality, selects the items that
drive the business, and assigns each a forecast method.`,
	RunE: discoverFunc,
}

func init() {
	Cmd.Flags().BoolVar(&profiles, "profiles", false, "Also print expense behavior profiles")
}

func discoverFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Discover command called")

	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input report is required (use --input)")
	}

	p := root.NewPipeline()
	stmt, err := p.Normalize(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	discovery, analysis := p.Discover(stmt)
	root.Log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(discovery.Drivers)},
		logging.Field{Key: "coverage", Value: discovery.Coverage},
		logging.Field{Key: "recommendedGrowth", Value: analysis.RecommendedGrowthRate},
	).Info("Driver discovery complete")

	if profiles {
		for _, profile := range p.CategorizeExpenses(stmt) {
			root.Log.WithFields(
				logging.Field{Key: logging.FieldLineItem, Value: profile.Name},
				logging.Field{Key: "behavior", Value: string(profile.Behavior)},
				logging.Field{Key: logging.FieldCategory, Value: profile.InflationCategory},
			).Info("Expense profile")
		}
	}

	out := common.OutputPath(root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format)
	if root.SharedFlags.Format == "csv" {
		return common.WriteCSVFile(common.DriverRows(discovery), out)
	}
	return common.WriteJSONFile(discovery, out)
}
