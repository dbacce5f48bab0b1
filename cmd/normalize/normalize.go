// Package normalize handles the report normalization command
package normalize

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/common"
)

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a P&L report into monthly line-item series",
	Long: `Normalize parses a hierarchical profit-and-loss report and flattens it into
per-account monthly time series with derived revenue, expense, and net-income
totals.`,
	RunE: normalizeFunc,
}

func normalizeFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Normalize command called")

	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input report is required (use --input)")
	}

	p := root.NewPipeline()
	stmt, err := p.Normalize(root.SharedFlags.Input)
	if err != nil {
		return fmt.Errorf("normalizing %s: %w", root.SharedFlags.Input, err)
	}

	out := common.OutputPath(root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format)
	if root.SharedFlags.Format == "csv" {
		return common.WriteCSVFile(common.StatementRows(stmt), out)
	}
	return common.WriteJSONFile(stmt, out)
}
