package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/loadanalyzer/internal/render"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived analysis reports",
	Long:  `Displays analysis reports saved by "analyze --save", "interactive --save" or "serve --archive", newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of reports to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	reports, err := db.ListReports(historyLimit)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	if len(reports) == 0 {
		fmt.Println("No reports archived yet")
		return nil
	}

	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("%-5s  %-18s  %5s  %10s  %-16s  %-16s\n", "#", "When", "Items", "kWh/day", "Max", "Min")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, r := range reports {
		fmt.Printf("%-5d  %-18s  %5d  %10s  %-16s  %-16s\n",
			r.ID,
			humanize.Time(r.CreatedAt),
			r.ApplianceCount,
			render.FormatKWh(r.TotalEnergyKWh),
			render.Truncate(r.MaxName, 16),
			render.Truncate(r.MinName, 16),
		)
	}
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("%d reports\n", len(reports))

	return nil
}
