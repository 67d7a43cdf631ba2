package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jgoulah/loadanalyzer/internal/inventory"
	"github.com/jgoulah/loadanalyzer/internal/ledger"
	"github.com/jgoulah/loadanalyzer/internal/render"
	"github.com/jgoulah/loadanalyzer/pkg/models"
	"github.com/spf13/cobra"
)

var (
	analyzeFile    string
	analyzeSave    bool
	analyzeNoChart bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze appliances listed in an inventory file",
	Long: `Reads appliances from a YAML inventory file, validates each one, and prints
the inventory table, the analysis summary and an energy chart.

Inventory format:
  appliances:
    - name: Fridge
      power: 150      # watts
      quantity: 1
      hours: 24       # per day`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "inventory file (required)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Archive the analysis to the report database")
	analyzeCmd.Flags().BoolVar(&analyzeNoChart, "no-chart", false, "Skip the bar chart")
	analyzeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	entries, err := inventory.Load(analyzeFile)
	if err != nil {
		return err
	}

	l := ledger.New()
	added, rejected := inventory.Apply(l, entries)
	for _, r := range rejected {
		fmt.Printf("⚠ Skipping entry %d (%q): %v\n", r.Index+1, r.Name, r.Err)
	}
	fmt.Printf("✓ Loaded %d of %d appliances from %s\n\n", added, len(entries), analyzeFile)

	render.Table(os.Stdout, l.Records())
	fmt.Println()

	summary, series, err := l.Analysis()
	if err != nil {
		return err
	}

	render.Summary(os.Stdout, summary, summaryOptions(cfg))

	if !analyzeNoChart {
		fmt.Println()
		render.Chart(os.Stdout, series, render.ChartOptions{Color: render.ColorEnabled(os.Stdout)})
	}

	if analyzeSave {
		db, err := openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		report := models.NewReport(summary, time.Now())
		if err := db.InsertReport(report); err != nil {
			return err
		}
		fmt.Printf("\n✓ Report #%d archived\n", report.ID)
	}

	return nil
}
