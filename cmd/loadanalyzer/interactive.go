package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chzyer/readline"
	"github.com/jgoulah/loadanalyzer/internal/database"
	"github.com/jgoulah/loadanalyzer/internal/ledger"
	"github.com/jgoulah/loadanalyzer/internal/render"
	"github.com/jgoulah/loadanalyzer/internal/session"
	"github.com/jgoulah/loadanalyzer/pkg/models"
	"github.com/spf13/cobra"
)

var interactiveSave bool

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl"},
	Short:   "Enter appliances at an interactive prompt",
	Long: `Starts a prompt where you add appliances one at a time, review the list,
delete entries, and run the analysis. Nothing is kept after you quit.`,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().BoolVar(&interactiveSave, "save", false, "Archive every analysis to the report database")
	rootCmd.AddCommand(interactiveCmd)
}

// lineReader adapts readline to the session's LineReader
type lineReader struct {
	rl *readline.Instance
}

func (r lineReader) SetPrompt(p string) { r.rl.SetPrompt(p) }

func (r lineReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", session.ErrInterrupt
	}
	return line, err
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "loadanalyzer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("starting prompt: %w", err)
	}
	defer rl.Close()

	s := &session.Session{
		Ledger:  ledger.New(),
		In:      lineReader{rl: rl},
		Out:     rl.Stdout(),
		Summary: summaryOptions(cfg),
		Chart:   render.ChartOptions{Color: render.ColorEnabled(os.Stdout)},
	}

	if interactiveSave {
		var db *database.DB
		db, err = openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		s.OnAnalyze = func(summary models.Summary) error {
			report := models.NewReport(summary, time.Now())
			if err := db.InsertReport(report); err != nil {
				return err
			}
			fmt.Fprintf(rl.Stdout(), "✓ Report #%d archived\n", report.ID)
			return nil
		}
	}

	return s.Run()
}
