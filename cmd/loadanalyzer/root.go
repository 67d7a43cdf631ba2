package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jgoulah/loadanalyzer/internal/config"
	"github.com/jgoulah/loadanalyzer/internal/database"
	"github.com/jgoulah/loadanalyzer/internal/render"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "loadanalyzer",
	Short: "Analyze the daily energy load of home appliances",
	Long: `LoadAnalyzer tallies the daily energy use of your home appliances.
Enter each appliance's power rating, quantity and daily usage hours to get the
total and average kWh/day, the largest and smallest consumers, and a bar chart.
Analyses can be archived to a local SQLite database and published to Home Assistant.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "report archive file (default is ./reports.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the report archive, preferring --db over the config value
func openDB(cfg *config.Config) (*database.DB, error) {
	path := dbPath
	if path == "" {
		path = cfg.GetDBPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// summaryOptions builds the cost estimate settings from config
func summaryOptions(cfg *config.Config) render.SummaryOptions {
	return render.SummaryOptions{
		TariffRate: cfg.GetTariffRate(),
		Currency:   cfg.GetCurrency(),
	}
}
