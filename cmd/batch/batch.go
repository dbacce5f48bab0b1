// Package batch handles the directory-wide report consolidation command
package batch

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/batch"
	"fjacquet/pnl-forecast/internal/common"
	"fjacquet/pnl-forecast/internal/fileutils"
	"fjacquet/pnl-forecast/internal/logging"
)

var forecastAfterMerge bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Consolidate a directory of report exports by entity",
	Long: `Batch scans a directory for report exports, groups them by entity from
their filenames, and merges each group into one continuous statement.
With --forecast it also runs the full forecast on every merged statement.`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().BoolVar(&forecastAfterMerge, "forecast", false, "Run the forecast on each merged statement")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Batch command called")

	if root.SharedFlags.Input == "" {
		return fmt.Errorf("an input directory is required (use --input)")
	}
	if !fileutils.DirectoryExists(root.SharedFlags.Input) {
		return fmt.Errorf("input is not a directory: %s", root.SharedFlags.Input)
	}

	outDir := root.SharedFlags.Output
	if outDir == "" {
		outDir = root.SharedFlags.Input
	}
	if err := fileutils.EnsureDirectoryExists(outDir); err != nil {
		return err
	}

	files, err := fileutils.ListFilesWithExtension(root.SharedFlags.Input, ".json")
	if err != nil {
		return fmt.Errorf("scanning %s: %w", root.SharedFlags.Input, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no report files found in %s", root.SharedFlags.Input)
	}

	p := root.NewPipeline()
	agg := batch.NewAggregator(root.Log)

	groups, err := agg.GroupFilesByEntity(files)
	if err != nil {
		return err
	}

	for _, group := range groups {
		merged, err := agg.MergeStatements(group, p.Normalize)
		if err != nil {
			root.Log.Error("Skipping entity",
				logging.Field{Key: "entity", Value: group.Entity},
				logging.Field{Key: "error", Value: err})
			continue
		}

		name := agg.GenerateOutputFilename(group.Entity, agg.CalculateDateRange(merged))
		out := filepath.Join(outDir, name)
		if err := common.WriteJSONFile(merged, out); err != nil {
			return err
		}
		root.Log.Info("Wrote consolidated statement",
			logging.Field{Key: "entity", Value: group.Entity},
			logging.Field{Key: "output", Value: out})

		if !forecastAfterMerge {
			continue
		}
		bundle, err := p.Forecast(merged, root.Horizon, nil)
		if err != nil {
			root.Log.Error("Forecast failed for entity",
				logging.Field{Key: "entity", Value: group.Entity},
				logging.Field{Key: "error", Value: err})
			continue
		}
		forecastOut := out[:len(out)-len(".json")] + ".forecast.json"
		if err := common.WriteJSONFile(bundle.Forecast, forecastOut); err != nil {
			return err
		}
		root.Log.Info("Wrote forecast",
			logging.Field{Key: "entity", Value: group.Entity},
			logging.Field{Key: "output", Value: forecastOut})
	}

	return nil
}
