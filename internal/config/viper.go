// Package config: Viper-based hierarchical configuration management.
//
// Every heuristic constant in the forecast pipeline is deliberately surfaced
// here rather than inlined: the shape of the model is the invariant, the
// numbers are calibration. Values load from defaults, then config.yaml, then
// PNLF_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Output struct {
		Format    string `mapstructure:"format" yaml:"format"` // "json" or "csv"
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"output" yaml:"output"`

	Trends struct {
		HighVolatility      float64 `mapstructure:"high_volatility" yaml:"high_volatility"`
		ModerateVolatility  float64 `mapstructure:"moderate_volatility" yaml:"moderate_volatility"`
		HighVolDamping      float64 `mapstructure:"high_vol_damping" yaml:"high_vol_damping"`
		ModerateVolDamping  float64 `mapstructure:"moderate_vol_damping" yaml:"moderate_vol_damping"`
		ShortHistoryMonths  int     `mapstructure:"short_history_months" yaml:"short_history_months"`
		ShortHistoryDamping float64 `mapstructure:"short_history_damping" yaml:"short_history_damping"`
		MinMonthlyGrowth    float64 `mapstructure:"min_monthly_growth" yaml:"min_monthly_growth"`
		MaxMonthlyGrowth    float64 `mapstructure:"max_monthly_growth" yaml:"max_monthly_growth"`
	} `mapstructure:"trends" yaml:"trends"`

	Discovery struct {
		MinCompositeScore float64 `mapstructure:"min_composite_score" yaml:"min_composite_score"`
		MinMateriality    float64 `mapstructure:"min_materiality" yaml:"min_materiality"`
		MinDataQuality    float64 `mapstructure:"min_data_quality" yaml:"min_data_quality"`
		VariabilityCap    float64 `mapstructure:"variability_cap" yaml:"variability_cap"`
		MinGrowthMonths   int     `mapstructure:"min_growth_months" yaml:"min_growth_months"`

		Weights struct {
			Materiality    float64 `mapstructure:"materiality" yaml:"materiality"`
			Variability    float64 `mapstructure:"variability" yaml:"variability"`
			Predictability float64 `mapstructure:"predictability" yaml:"predictability"`
			GrowthImpact   float64 `mapstructure:"growth_impact" yaml:"growth_impact"`
			DataQuality    float64 `mapstructure:"data_quality" yaml:"data_quality"`
		} `mapstructure:"weights" yaml:"weights"`

		// Forecast-method decision thresholds, evaluated in rule order.
		CorrelationThreshold    float64 `mapstructure:"correlation_threshold" yaml:"correlation_threshold"`
		PredictabilityThreshold float64 `mapstructure:"predictability_threshold" yaml:"predictability_threshold"`
		StableVariability       float64 `mapstructure:"stable_variability" yaml:"stable_variability"`
		VolatileVariability     float64 `mapstructure:"volatile_variability" yaml:"volatile_variability"`
	} `mapstructure:"discovery" yaml:"discovery"`

	Categorizer struct {
		VariableCorrelation float64 `mapstructure:"variable_correlation" yaml:"variable_correlation"`
		FixedVariability    float64 `mapstructure:"fixed_variability" yaml:"fixed_variability"`
		StepChangeRatio     float64 `mapstructure:"step_change_ratio" yaml:"step_change_ratio"`
		StepMinOccurrences  int     `mapstructure:"step_min_occurrences" yaml:"step_min_occurrences"`
		SeasonalPeakRatio   float64 `mapstructure:"seasonal_peak_ratio" yaml:"seasonal_peak_ratio"`
		SeasonalFlagRatio   float64 `mapstructure:"seasonal_flag_ratio" yaml:"seasonal_flag_ratio"`
		CategoriesFile      string  `mapstructure:"categories_file" yaml:"categories_file"`
	} `mapstructure:"categorizer" yaml:"categorizer"`

	Scenario struct {
		GrowthMultiplier     float64 `mapstructure:"growth_multiplier" yaml:"growth_multiplier"`
		GrowthSeasonalBoost  float64 `mapstructure:"growth_seasonal_boost" yaml:"growth_seasonal_boost"`
		GrowthExpenseImprove float64 `mapstructure:"growth_expense_improve" yaml:"growth_expense_improve"`
		DownturnMultiplier   float64 `mapstructure:"downturn_multiplier" yaml:"downturn_multiplier"`
		DownturnGrowthFloor  float64 `mapstructure:"downturn_growth_floor" yaml:"downturn_growth_floor"`
		DownturnSeasonalDamp float64 `mapstructure:"downturn_seasonal_damp" yaml:"downturn_seasonal_damp"`
		BaselineInflation    float64 `mapstructure:"baseline_inflation" yaml:"baseline_inflation"`
	} `mapstructure:"scenario" yaml:"scenario"`

	Projection struct {
		HorizonMonths     int      `mapstructure:"horizon_months" yaml:"horizon_months"`
		RecentWindow      int      `mapstructure:"recent_window" yaml:"recent_window"`
		OutlierStdDevs    float64  `mapstructure:"outlier_std_devs" yaml:"outlier_std_devs"`
		CatchAllKeywords  []string `mapstructure:"catch_all_keywords" yaml:"catch_all_keywords"`
		BandBase          float64  `mapstructure:"band_base" yaml:"band_base"`
		BandSlope         float64  `mapstructure:"band_slope" yaml:"band_slope"`
		LowConfidenceBand float64  `mapstructure:"low_confidence_band" yaml:"low_confidence_band"`
		MaxAdjustments    int      `mapstructure:"max_adjustments" yaml:"max_adjustments"`
	} `mapstructure:"projection" yaml:"projection"`

	WorkingCapital struct {
		DaysSalesOutstanding     float64 `mapstructure:"days_sales_outstanding" yaml:"days_sales_outstanding"`
		DaysPayablesOutstanding  float64 `mapstructure:"days_payables_outstanding" yaml:"days_payables_outstanding"`
		DaysInventoryOutstanding float64 `mapstructure:"days_inventory_outstanding" yaml:"days_inventory_outstanding"`
		CollectImmediate         float64 `mapstructure:"collect_immediate" yaml:"collect_immediate"`
		CollectNext30            float64 `mapstructure:"collect_next30" yaml:"collect_next30"`
		CollectNext60            float64 `mapstructure:"collect_next60" yaml:"collect_next60"`
		PayImmediate             float64 `mapstructure:"pay_immediate" yaml:"pay_immediate"`
		PayNext30                float64 `mapstructure:"pay_next30" yaml:"pay_next30"`
		PayNext60                float64 `mapstructure:"pay_next60" yaml:"pay_next60"`
	} `mapstructure:"working_capital" yaml:"working_capital"`

	Assets struct {
		DepreciationPctOfRevenue float64 `mapstructure:"depreciation_pct_of_revenue" yaml:"depreciation_pct_of_revenue"`
		DefaultUsefulLifeYears   float64 `mapstructure:"default_useful_life_years" yaml:"default_useful_life_years"`
		BaseCapexPctOfRevenue    float64 `mapstructure:"base_capex_pct_of_revenue" yaml:"base_capex_pct_of_revenue"`
		GrowthCapexFactor        float64 `mapstructure:"growth_capex_factor" yaml:"growth_capex_factor"`
	} `mapstructure:"assets" yaml:"assets"`

	CashFlow struct {
		OpeningBalanceMonths float64 `mapstructure:"opening_balance_months" yaml:"opening_balance_months"`
		DebtServicePct       float64 `mapstructure:"debt_service_pct" yaml:"debt_service_pct"`
		OwnerDrawPct         float64 `mapstructure:"owner_draw_pct" yaml:"owner_draw_pct"`
	} `mapstructure:"cash_flow" yaml:"cash_flow"`

	Insights struct {
		MaxInsights            int     `mapstructure:"max_insights" yaml:"max_insights"`
		AnomalyZScore          float64 `mapstructure:"anomaly_z_score" yaml:"anomaly_z_score"`
		ExtremeZScore          float64 `mapstructure:"extreme_z_score" yaml:"extreme_z_score"`
		HealthyMargin          float64 `mapstructure:"healthy_margin" yaml:"healthy_margin"`
		StrongMargin           float64 `mapstructure:"strong_margin" yaml:"strong_margin"`
		ConcentrationThreshold float64 `mapstructure:"concentration_threshold" yaml:"concentration_threshold"`
	} `mapstructure:"insights" yaml:"insights"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.pnl-forecast")
	v.AddConfigPath(".pnl-forecast")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("PNLF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.format", "json")
	v.SetDefault("output.delimiter", ",")

	// Growth-rate damping for forecasting
	v.SetDefault("trends.high_volatility", 0.5)
	v.SetDefault("trends.moderate_volatility", 0.3)
	v.SetDefault("trends.high_vol_damping", 0.7)
	v.SetDefault("trends.moderate_vol_damping", 0.85)
	v.SetDefault("trends.short_history_months", 6)
	v.SetDefault("trends.short_history_damping", 0.8)
	v.SetDefault("trends.min_monthly_growth", -0.10)
	v.SetDefault("trends.max_monthly_growth", 0.15)

	// Driver selection. Lenient defaults to tolerate sparse data.
	v.SetDefault("discovery.min_composite_score", 0.15)
	v.SetDefault("discovery.min_materiality", 0.01)
	v.SetDefault("discovery.min_data_quality", 0.25)
	v.SetDefault("discovery.variability_cap", 5.0)
	v.SetDefault("discovery.min_growth_months", 6)
	v.SetDefault("discovery.weights.materiality", 0.3)
	v.SetDefault("discovery.weights.variability", 0.2)
	v.SetDefault("discovery.weights.predictability", 0.2)
	v.SetDefault("discovery.weights.growth_impact", 0.2)
	v.SetDefault("discovery.weights.data_quality", 0.1)
	v.SetDefault("discovery.correlation_threshold", 0.7)
	v.SetDefault("discovery.predictability_threshold", 0.8)
	v.SetDefault("discovery.stable_variability", 0.2)
	v.SetDefault("discovery.volatile_variability", 0.5)

	// Expense behavior classification
	v.SetDefault("categorizer.variable_correlation", 0.7)
	v.SetDefault("categorizer.fixed_variability", 0.15)
	v.SetDefault("categorizer.step_change_ratio", 0.5)
	v.SetDefault("categorizer.step_min_occurrences", 2)
	v.SetDefault("categorizer.seasonal_peak_ratio", 1.5)
	v.SetDefault("categorizer.seasonal_flag_ratio", 1.3)
	v.SetDefault("categorizer.categories_file", "expense-categories.yaml")

	// Scenario construction
	v.SetDefault("scenario.growth_multiplier", 1.5)
	v.SetDefault("scenario.growth_seasonal_boost", 1.2)
	v.SetDefault("scenario.growth_expense_improve", 0.05)
	v.SetDefault("scenario.downturn_multiplier", 0.3)
	v.SetDefault("scenario.downturn_growth_floor", -0.02)
	v.SetDefault("scenario.downturn_seasonal_damp", 0.8)
	v.SetDefault("scenario.baseline_inflation", 0.03)

	// Driver projection
	v.SetDefault("projection.horizon_months", 12)
	v.SetDefault("projection.recent_window", 3)
	v.SetDefault("projection.outlier_std_devs", 2.0)
	v.SetDefault("projection.catch_all_keywords",
		[]string{"misc", "miscellaneous", "other", "general", "sundry", "uncategorized"})
	v.SetDefault("projection.band_base", 0.1)
	v.SetDefault("projection.band_slope", 0.02)
	v.SetDefault("projection.low_confidence_band", 1.5)
	v.SetDefault("projection.max_adjustments", 3)

	// Working capital estimation
	v.SetDefault("working_capital.days_sales_outstanding", 45)
	v.SetDefault("working_capital.days_payables_outstanding", 30)
	v.SetDefault("working_capital.days_inventory_outstanding", 30)
	v.SetDefault("working_capital.collect_immediate", 0.6)
	v.SetDefault("working_capital.collect_next30", 0.3)
	v.SetDefault("working_capital.collect_next60", 0.1)
	v.SetDefault("working_capital.pay_immediate", 0.7)
	v.SetDefault("working_capital.pay_next30", 0.25)
	v.SetDefault("working_capital.pay_next60", 0.05)

	// Fixed assets and capex
	v.SetDefault("assets.depreciation_pct_of_revenue", 0.02)
	v.SetDefault("assets.default_useful_life_years", 7)
	v.SetDefault("assets.base_capex_pct_of_revenue", 0.015)
	v.SetDefault("assets.growth_capex_factor", 0.5)

	// Cash flow assembly
	v.SetDefault("cash_flow.opening_balance_months", 2)
	v.SetDefault("cash_flow.debt_service_pct", 0.01)
	v.SetDefault("cash_flow.owner_draw_pct", 0.25)

	// Insight engine
	v.SetDefault("insights.max_insights", 15)
	v.SetDefault("insights.anomaly_z_score", 2.0)
	v.SetDefault("insights.extreme_z_score", 3.0)
	v.SetDefault("insights.healthy_margin", 0.20)
	v.SetDefault("insights.strong_margin", 0.50)
	v.SetDefault("insights.concentration_threshold", 0.80)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Output.Format != "json" && config.Output.Format != "csv" {
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'csv')", config.Output.Format)
	}

	if len(config.Output.Delimiter) != 1 {
		return fmt.Errorf("output delimiter must be a single character, got: %s", config.Output.Delimiter)
	}

	w := config.Discovery.Weights
	weightSum := w.Materiality + w.Variability + w.Predictability + w.GrowthImpact + w.DataQuality
	if weightSum < 0.99 || weightSum > 1.01 {
		return fmt.Errorf("discovery score weights must sum to 1.0, got: %.3f", weightSum)
	}

	if config.Discovery.MinCompositeScore < 0 || config.Discovery.MinCompositeScore > 1 {
		return fmt.Errorf("discovery.min_composite_score must be in [0,1], got: %f", config.Discovery.MinCompositeScore)
	}

	if config.Projection.HorizonMonths < 1 || config.Projection.HorizonMonths > 60 {
		return fmt.Errorf("projection.horizon_months must be between 1 and 60, got: %d", config.Projection.HorizonMonths)
	}

	cw := config.WorkingCapital
	collectSum := cw.CollectImmediate + cw.CollectNext30 + cw.CollectNext60
	if collectSum < 0.99 || collectSum > 1.01 {
		return fmt.Errorf("working_capital collection pattern must sum to 1.0, got: %.3f", collectSum)
	}
	paySum := cw.PayImmediate + cw.PayNext30 + cw.PayNext60
	if paySum < 0.99 || paySum > 1.01 {
		return fmt.Errorf("working_capital payment pattern must sum to 1.0, got: %.3f", paySum)
	}

	if config.Insights.MaxInsights < 1 {
		return fmt.Errorf("insights.max_insights must be positive, got: %d", config.Insights.MaxInsights)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
