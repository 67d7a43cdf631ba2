package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgoulah/loadanalyzer/internal/database"
	"github.com/jgoulah/loadanalyzer/internal/ledger"
	"github.com/jgoulah/loadanalyzer/internal/logger"
	"github.com/jgoulah/loadanalyzer/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr    string
	serveArchive bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the appliance ledger over a JSON HTTP API",
	Long: `Runs an HTTP server holding one in-memory appliance ledger.

Endpoints:
  GET    /healthz
  GET    /api/appliances
  POST   /api/appliances          {"name","power","quantity","hours"}
  DELETE /api/appliances/:id
  DELETE /api/appliances
  GET    /api/analysis
  GET    /api/chart`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, or :3000)")
	serveCmd.Flags().BoolVar(&serveArchive, "archive", false, "Archive every analysis to the report database")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	appliances := &server.ApplianceHandler{
		Ledger:        ledger.New(),
		AnalysisDelay: cfg.Server.AnalysisDelay,
		Logger:        log,
	}

	if serveArchive {
		var db *database.DB
		db, err = openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		appliances.Archive = db
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.GetServerAddr()
	}

	engine := server.NewEngine(cfg.Server.Debug, log, &server.HealthHandler{}, appliances)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("home load analyzer starting",
		zap.String("addr", addr),
		zap.Bool("archive", serveArchive),
		zap.Duration("analysis_delay", cfg.Server.AnalysisDelay),
	)
	return server.Run(ctx, addr, engine, log)
}
