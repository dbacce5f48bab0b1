package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fjacquet/pnl-forecast/cmd/batch"
	"fjacquet/pnl-forecast/cmd/cashflow"
	"fjacquet/pnl-forecast/cmd/configure"
	"fjacquet/pnl-forecast/cmd/discover"
	"fjacquet/pnl-forecast/cmd/forecast"
	"fjacquet/pnl-forecast/cmd/insights"
	"fjacquet/pnl-forecast/cmd/normalize"
	"fjacquet/pnl-forecast/cmd/root"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure the global log level before any command logging happens
	configureLogLevelDirectly()

	// 3. Initialize root command flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(discover.Cmd)
	root.Cmd.AddCommand(forecast.Cmd)
	root.Cmd.AddCommand(cashflow.Cmd)
	root.Cmd.AddCommand(insights.Cmd)
	root.Cmd.AddCommand(configure.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global logrus level from PNLF_LOG_LEVEL
// so it applies to every logger created afterwards.
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("PNLF_LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
