// Package configure handles generation of starter configuration files
package configure

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fjacquet/pnl-forecast/cmd/root"
	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/store"
)

var force bool

// Cmd represents the configure command
var Cmd = &cobra.Command{
	Use:   "configure",
	Short: "Write starter configuration files with the active settings",
	Long: `Configure writes the currently active configuration to config.yaml and the
built-in inflation-category database to expense-categories.yaml, so both can
be edited and picked up on the next run.`,
	RunE: configureFunc,
}

func init() {
	Cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
}

func configureFunc(cmd *cobra.Command, args []string) error {
	root.Log.Info("Configure command called")

	if err := writeConfigFile("config.yaml"); err != nil {
		return err
	}

	st := store.NewInflationStore(root.Cfg.Categorizer.CategoriesFile)
	if _, err := os.Stat(st.CategoriesFile); err == nil && !force {
		root.Log.WithField(logging.FieldFile, st.CategoriesFile).
			Warn("Categories file already exists, skipping (use --force to overwrite)")
		return nil
	}
	return st.SaveCategories(store.DefaultCategories(), store.DefaultVariableRate, store.DefaultGeneralRate)
}

func writeConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil && !force {
		root.Log.WithField(logging.FieldFile, path).
			Warn("Config file already exists, skipping (use --force to overwrite)")
		return nil
	}

	raw, err := yaml.Marshal(root.Cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	root.Log.WithField(logging.FieldFile, path).Info("Wrote configuration file")
	return nil
}
