// Package cashflow handles the cash-flow projection command
package cashflow

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/common"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"
)

// Cmd represents the cashflow command
var Cmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Assemble monthly cash-flow statements for each scenario",
	Long: `Cashflow runs the full forecast and assembles indirect-method cash-flow
statements: operating cash from net income, depreciation, and working-capital
movement; investing from capex; financing from debt service and owner draws.`,
	RunE: cashflowFunc,
}

var openingBalance float64

func init() {
	Cmd.Flags().IntVarP(&root.Horizon, "horizon", "m", 0, "Forecast horizon in months (default from config)")
	Cmd.Flags().StringVarP(&root.Scenario, "scenario", "s", "", "Limit output to one scenario (baseline, growth, downturn)")
	Cmd.Flags().Float64VarP(&openingBalance, "opening-balance", "b", 0, "Known cash balance at the start of the horizon (default estimated from expenses)")
}

func cashflowFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Cashflow command called")

	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input report is required (use --input)")
	}

	p := root.NewPipeline()
	p.SetOpeningBalance(openingBalance)
	stmt, err := p.Normalize(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	bundle, err := p.Forecast(stmt, root.Horizon, nil)
	if err != nil {
		return err
	}

	flows := bundle.CashFlows
	if root.Scenario != "" {
		name := models.ScenarioName(root.Scenario)
		flow, ok := flows[name]
		if !ok {
			return fmt.Errorf("unknown scenario: %s", root.Scenario)
		}
		flows = map[models.ScenarioName]*models.CashFlowProjection{name: flow}
	}

	for name, flow := range flows {
		root.Log.WithFields(
			logging.Field{Key: logging.FieldScenario, Value: string(name)},
			logging.Field{Key: "negativeMonths", Value: flow.Risk.NegativeMonths},
			logging.Field{Key: "monthsOfCushion", Value: flow.Risk.MonthsOfCushion},
		).Info("Cash flow risk")
	}

	out := common.OutputPath(root.SharedFlags.Input, root.SharedFlags.Output, root.SharedFlags.Format)
	if root.SharedFlags.Format == "csv" {
		return common.WriteCSVFile(common.CashFlowRows(flows), out)
	}
	return common.WriteJSONFile(flows, out)
}
