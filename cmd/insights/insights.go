// Package insights handles the insight analysis command
package insights

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/common"
	"fjacquet/pnl-forecast/internal/logging"
)

// Cmd represents the insights command
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Run rule-based analyzers over a normalized report",
	Long: `Insights scans the normalized statement for expense anomalies, margin
problems, revenue concentration, growth trends, and data-quality gaps, and
ranks the findings by priority and impact.`,
	RunE: insightsFunc,
}

func insightsFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Insights command called")

	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input report is required (use --input)")
	}

	p := root.NewPipeline()
	stmt, err := p.Normalize(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	report := p.Insights(stmt)
	root.Log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(report.All)},
		logging.Field{Key: "critical", Value: len(report.Critical)},
		logging.Field{Key: "dataQualityScore", Value: report.DataQualityScore},
	).Info("Insight analysis complete")

	out := common.OutputPath(root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format)
	if root.SharedFlags.Format == "csv" {
		return common.WriteCSVFile(common.InsightRows(report), out)
	}
	return common.WriteJSONFile(report, out)
}
