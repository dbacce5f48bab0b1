// Package root contains the root command for the application
package root

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/pnl-forecast/internal/cache"
	"fjacquet/pnl-forecast/internal/cashflow"
	"fjacquet/pnl-forecast/internal/categorizer"
	"fjacquet/pnl-forecast/internal/common"
	"fjacquet/pnl-forecast/internal/config"
	"fjacquet/pnl-forecast/internal/drivers"
	"fjacquet/pnl-forecast/internal/fileutils"
	"fjacquet/pnl-forecast/internal/insights"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/normalizer"
	"fjacquet/pnl-forecast/internal/pipeline"
	"fjacquet/pnl-forecast/internal/projector"
	"fjacquet/pnl-forecast/internal/scenario"
	"fjacquet/pnl-forecast/internal/store"
	"fjacquet/pnl-forecast/internal/validation"
	"fjacquet/pnl-forecast/internal/workingcapital"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRunE.
	Cfg *config.Config

	// SharedFlags holds the common options every command reads.
	SharedFlags = CommonFlags{}

	// Flags used by the forecast and cashflow commands.
	Horizon         int
	Scenario        string
	AdjustmentsFile string
	Compare         bool

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "pnl-forecast",
		Short: "Discover financial drivers and forecast scenarios from a P&L report.",
		Long: `pnl-forecast normalizes a monthly profit-and-loss report, scores its line
items to discover the accounts that drive the business, and projects them
forward under baseline, growth, and downturn scenarios with working-capital
and cash-flow modeling.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to pnl-forecast!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			logging.SetDefaultLogger(logger)
			Log = logger

			normalizer.SetLogger(logger)
			drivers.SetLogger(logger)
			categorizer.SetLogger(logger)
			scenario.SetLogger(logger)
			projector.SetLogger(logger)
			workingcapital.SetLogger(logger)
			cashflow.SetLogger(logger)
			insights.SetLogger(logger)
			pipeline.SetLogger(logger)
			common.SetLogger(logger)
			store.SetLogger(logger)
			fileutils.SetLogger(logger)

			common.SetDelimiter([]rune(cfg.Output.Delimiter)[0])
			if SharedFlags.Format == "" {
				SharedFlags.Format = cfg.Output.Format
			}
			if err := validation.IsValidOutputFormat(SharedFlags.Format); err != nil {
				return err
			}
			return nil
		},
	}

	// Memo is the forecast cache. It lives here, with the application,
	// rather than inside the pipeline.
	Memo = cache.NewLRU[*pipeline.ForecastBundle](16, 15*time.Minute)
)

// NewPipeline builds the pipeline with the application-owned cache attached.
func NewPipeline() *pipeline.Pipeline {
	return pipeline.New(Cfg, Log, Memo)
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input report file (JSON)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: json or csv")
}
