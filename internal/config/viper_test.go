package config_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/pnl-forecast/internal/config"
)

func TestInitializeConfigDefaults(t *testing.T) {
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, ",", cfg.Output.Delimiter)

	// Scoring weights must form a convex combination.
	w := cfg.Discovery.Weights
	assert.InDelta(t, 1.0, w.Materiality+w.Variability+w.Predictability+w.GrowthImpact+w.DataQuality, 1e-9)
	assert.InDelta(t, 0.3, w.Materiality, 1e-9)

	assert.Equal(t, 12, cfg.Projection.HorizonMonths)
	assert.Contains(t, cfg.Projection.CatchAllKeywords, "miscellaneous")

	assert.InDelta(t, 45.0, cfg.WorkingCapital.DaysSalesOutstanding, 1e-9)
	assert.InDelta(t, 0.6, cfg.WorkingCapital.CollectImmediate, 1e-9)

	assert.InDelta(t, 1.5, cfg.Scenario.GrowthMultiplier, 1e-9)
	assert.InDelta(t, -0.02, cfg.Scenario.DownturnGrowthFloor, 1e-9)

	assert.Equal(t, 15, cfg.Insights.MaxInsights)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	t.Setenv("PNLF_LOG_LEVEL", "debug")
	t.Setenv("PNLF_OUTPUT_FORMAT", "csv")
	t.Setenv("PNLF_PROJECTION_HORIZON_MONTHS", "24")

	cfg, err := config.InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, 24, cfg.Projection.HorizonMonths)
}

func TestInitializeConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		match string
	}{
		{
			name:  "Bad log level",
			env:   map[string]string{"PNLF_LOG_LEVEL": "verbose"},
			match: "invalid log level",
		},
		{
			name:  "Bad output format",
			env:   map[string]string{"PNLF_OUTPUT_FORMAT": "xml"},
			match: "invalid output format",
		},
		{
			name:  "Horizon out of range",
			env:   map[string]string{"PNLF_PROJECTION_HORIZON_MONTHS": "120"},
			match: "horizon_months",
		},
		{
			name:  "Multi-character delimiter",
			env:   map[string]string{"PNLF_OUTPUT_DELIMITER": ";;"},
			match: "delimiter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.InitializeConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.match)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)

	logger := config.ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	logger = config.ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	// An unknown level degrades to info instead of failing.
	cfg.Log.Level = "chatty"
	logger = config.ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
