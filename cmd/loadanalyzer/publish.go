package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jgoulah/loadanalyzer/internal/publisher"
	"github.com/jgoulah/loadanalyzer/internal/render"
	"github.com/jgoulah/loadanalyzer/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish archived reports to Home Assistant and/or MQTT",
	Long:  `Reads archived analysis reports from the database and publishes the daily load to Home Assistant via HTTP API and/or an MQTT broker.`,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all reports (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of reports to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var reports []models.Report
	if publishAll {
		reports, err = db.ListReports(0)
	} else {
		reports, err = db.ListUnpublishedReports()
	}
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	if len(reports) == 0 {
		fmt.Println("No reports to publish")
		return nil
	}

	if publishLimit > 0 && len(reports) > publishLimit {
		reports = reports[:publishLimit]
		fmt.Printf("Limiting to %d reports (--limit flag)\n", publishLimit)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	published := 0
	for i, r := range reports {
		fmt.Printf("[%d/%d] Publishing report #%d (%s kWh/day)... ", i+1, len(reports), r.ID, render.FormatKWh(r.TotalEnergyKWh))
		if err := pub.Publish(ctx, r); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		if err := db.MarkPublished(r.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d reports\n", published, len(reports))
	return nil
}
