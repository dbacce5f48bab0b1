// Package store provides loading and saving of the tunable heuristic
// databases: the inflation-category keyword file used by the expense
// categorizer. Built-in defaults apply when no file exists, so the tool
// works out of the box and stays overridable.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/pnl-forecast/internal/logging"
	"fjacquet/pnl-forecast/internal/models"

	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// categoriesFile is the on-disk YAML shape: "categories: [...]" plus the
// fallback rates applied when no keyword matches.
type categoriesFile struct {
	Categories   []models.InflationCategory `yaml:"categories"`
	VariableRate float64                    `yaml:"variable_rate"`
	GeneralRate  float64                    `yaml:"general_rate"`
}

// InflationStore manages the inflation-category database.
type InflationStore struct {
	CategoriesFile string
}

// NewInflationStore creates a store backed by the given YAML file name.
func NewInflationStore(categoriesFile string) *InflationStore {
	return &InflationStore{CategoriesFile: categoriesFile}
}

// DefaultCategories is the built-in inflation-category database. Rates are
// calibration values, not invariants; a categories file overrides them.
func DefaultCategories() []models.InflationCategory {
	return []models.InflationCategory{
		{Name: "labor", Keywords: []string{"salary", "salaries", "wage", "wages", "payroll", "labor", "staff", "contractor"}, AnnualRate: 0.04},
		{Name: "rent", Keywords: []string{"rent", "lease", "occupancy"}, AnnualRate: 0.03},
		{Name: "utilities", Keywords: []string{"utility", "utilities", "electric", "gas", "water", "internet", "phone", "telecom"}, AnnualRate: 0.035},
		{Name: "materials", Keywords: []string{"material", "materials", "supplies", "inventory", "cogs", "cost of goods"}, AnnualRate: 0.03},
		{Name: "insurance", Keywords: []string{"insurance", "premium"}, AnnualRate: 0.06},
	}
}

// Default fallback rates for expenses no keyword matches.
const (
	DefaultVariableRate = 0.025
	DefaultGeneralRate  = 0.03
)

// FindConfigFile looks for a configuration file in standard locations
func (s *InflationStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "pnl-forecast", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories loads the inflation categories plus fallback rates,
// returning the built-in defaults when no file is found.
func (s *InflationStore) LoadCategories() ([]models.InflationCategory, float64, float64, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "expense-categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField(logging.FieldFile, filename).
				Debug("Inflation categories file not found, using defaults")
			return DefaultCategories(), DefaultVariableRate, DefaultGeneralRate, nil
		}
		return nil, 0, 0, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error reading categories file: %w", err)
	}

	var cf categoriesFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, 0, 0, fmt.Errorf("error parsing categories file: %w", err)
	}
	if len(cf.Categories) == 0 {
		cf.Categories = DefaultCategories()
	}
	if cf.VariableRate == 0 {
		cf.VariableRate = DefaultVariableRate
	}
	if cf.GeneralRate == 0 {
		cf.GeneralRate = DefaultGeneralRate
	}

	log.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(cf.Categories)},
	).Debug("Loaded inflation categories")

	return cf.Categories, cf.VariableRate, cf.GeneralRate, nil
}

// SaveCategories writes the category database back to disk, creating the
// file with the defaults when it does not exist yet.
func (s *InflationStore) SaveCategories(categories []models.InflationCategory, variableRate, generalRate float64) error {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "expense-categories.yaml"
	}

	cf := categoriesFile{
		Categories:   categories,
		VariableRate: variableRate,
		GeneralRate:  generalRate,
	}
	data, err := yaml.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("error writing categories file: %w", err)
	}

	log.WithField(logging.FieldFile, filename).Info("Saved inflation categories")
	return nil
}
