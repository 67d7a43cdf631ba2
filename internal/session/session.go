// Package session runs the interactive appliance prompt.
package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jgoulah/loadanalyzer/internal/ledger"
	"github.com/jgoulah/loadanalyzer/internal/render"
	"github.com/jgoulah/loadanalyzer/pkg/models"
)

// ErrInterrupt is returned by a LineReader when the user presses Ctrl+C
var ErrInterrupt = errors.New("interrupted")

// LineReader reads one line of input after showing a prompt
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// Session drives a ledger from typed commands
type Session struct {
	Ledger  *ledger.Ledger
	In      LineReader
	Out     io.Writer
	Summary render.SummaryOptions
	Chart   render.ChartOptions

	// OnAnalyze is called after every successful analysis, e.g. to archive it
	OnAnalyze func(models.Summary) error
}

const helpText = `Commands:
  add              enter a new appliance
  list             show the appliances entered so far
  delete <n|id>    remove an appliance by row number or id
  clear            remove every appliance
  analyze          show totals, largest and smallest consumers and the chart
  help             show this help
  quit             leave (also Ctrl+D)`

const mainPrompt = "loadanalyzer> "

// Run reads commands until quit or end of input
func (s *Session) Run() error {
	fmt.Fprintln(s.Out, "-------------------- Home Load Analyzer --------------------")
	fmt.Fprintln(s.Out, "Enter appliance details to calculate power consumption.")
	fmt.Fprintln(s.Out, "Type 'help' for commands.")

	for {
		s.In.SetPrompt(mainPrompt)
		line, err := s.In.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupt) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "add", "a":
			if err := s.addLoop(); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupt) {
					return nil
				}
				return err
			}
		case "list", "ls", "l":
			render.Table(s.Out, s.Ledger.Records())
		case "delete", "del", "rm":
			if len(fields) < 2 {
				fmt.Fprintln(s.Out, "Usage: delete <n|id>")
				continue
			}
			s.delete(fields[1])
		case "clear":
			s.Ledger.Clear()
			fmt.Fprintln(s.Out, "✓ All appliances cleared")
		case "analyze", "finish":
			if err := s.analyze(); err != nil {
				return err
			}
		case "help", "?":
			fmt.Fprintln(s.Out, helpText)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(s.Out, "Unknown command %q. Type 'help' for commands.\n", fields[0])
		}
	}
}

// addLoop asks for appliances until the user declines another
func (s *Session) addLoop() error {
	for {
		name, err := s.ask("Enter appliance name: ")
		if err != nil {
			return err
		}
		power, err := s.ask("Enter power rating in watts: ")
		if err != nil {
			return err
		}
		quantity, err := s.ask("Enter appliance quantity: ")
		if err != nil {
			return err
		}
		hours, err := s.ask("Enter hours the appliance works daily: ")
		if err != nil {
			return err
		}

		a, err := s.Ledger.Add(name, power, quantity, hours)
		var verr *ledger.ValidationError
		switch {
		case errors.As(err, &verr):
			fmt.Fprintln(s.Out, "Input error:")
			for _, issue := range verr.Issues {
				fmt.Fprintf(s.Out, "  • %s\n", issue.Message())
			}
		case err != nil:
			return err
		default:
			fmt.Fprintf(s.Out, "✓ %q added (%s kWh/day)\n", a.Name, render.FormatKWh(a.EnergyKWhPerDay))
		}

		again, err := s.ask("Add another appliance? (yes/no) ")
		if err != nil {
			return err
		}
		if !isYes(again) {
			return nil
		}
	}
}

func (s *Session) ask(prompt string) (string, error) {
	s.In.SetPrompt(prompt)
	return s.In.Readline()
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// delete removes by 1-based row number first, then by id
func (s *Session) delete(ref string) {
	id := ref
	if n, err := strconv.Atoi(ref); err == nil {
		records := s.Ledger.Records()
		if n >= 1 && n <= len(records) {
			id = records[n-1].ID
		}
	}

	a, ok := s.Ledger.Get(id)
	if !ok || !s.Ledger.Remove(id) {
		fmt.Fprintf(s.Out, "No appliance matches %q\n", ref)
		return
	}
	fmt.Fprintf(s.Out, "✓ %q deleted\n", a.Name)
}

func (s *Session) analyze() error {
	summary, series, err := s.Ledger.Analysis()
	if errors.Is(err, ledger.ErrEmptyLedger) {
		fmt.Fprintln(s.Out, "Please add at least one appliance before analyzing.")
		return nil
	}
	if err != nil {
		return err
	}

	render.Summary(s.Out, summary, s.Summary)
	fmt.Fprintln(s.Out)
	render.Chart(s.Out, series, s.Chart)

	if s.OnAnalyze != nil {
		if err := s.OnAnalyze(summary); err != nil {
			fmt.Fprintf(s.Out, "Warning: %v\n", err)
		}
	}
	return nil
}
