// Package render draws the appliance inventory, analysis summary and energy
// chart for a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/jgoulah/loadanalyzer/pkg/models"
)

const rule = "----------------------------------------------------------------------"

// FormatKWh formats an energy figure with thousands separators and two decimals
func FormatKWh(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// FormatNumber formats a raw input figure, dropping needless trailing zeros
func FormatNumber(v float64) string {
	return humanize.Commaf(v)
}

// ColorEnabled reports whether f is a terminal that should get ANSI colours.
// Setting NO_COLOR disables colour.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Table writes the inventory table with a totals line
func Table(w io.Writer, appliances []models.Appliance) {
	if len(appliances) == 0 {
		fmt.Fprintln(w, "No appliances added yet")
		return
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-4s %-24s %10s %6s %6s %14s\n", "#", "Name", "Power (W)", "Qty", "Hours", "kWh/day")
	fmt.Fprintln(w, rule)

	var total float64
	for i, a := range appliances {
		fmt.Fprintf(w, "%-4d %-24s %10s %6s %6s %14s\n",
			i+1,
			Truncate(a.Name, 24),
			FormatNumber(a.PowerWatts),
			FormatNumber(a.Quantity),
			FormatNumber(a.HoursPerDay),
			FormatKWh(a.EnergyKWhPerDay),
		)
		total += a.EnergyKWhPerDay
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total: %s kWh/day (%d appliances)\n", FormatKWh(total), len(appliances))
}

// SummaryOptions controls the optional cost line of the summary
type SummaryOptions struct {
	TariffRate float64 // cost per kWh, 0 hides the cost line
	Currency   string
}

// daysPerMonth is used for the monthly cost estimate
const daysPerMonth = 30

// Summary writes the analysis results card
func Summary(w io.Writer, s models.Summary, opts SummaryOptions) {
	fmt.Fprintln(w, "📊 ANALYSIS RESULTS")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Energy Consumed: %s kWh/day\n", FormatKWh(s.TotalEnergyKWh))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Most Energy-Consuming Appliance:")
	fmt.Fprintf(w, "  • %s (%s kWh/day)\n", s.MaxConsumer.Name, FormatKWh(s.MaxConsumer.EnergyKWhPerDay))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Least Energy-Consuming Appliance:")
	fmt.Fprintf(w, "  • %s (%s kWh/day)\n", s.MinConsumer.Name, FormatKWh(s.MinConsumer.EnergyKWhPerDay))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Average Energy per Appliance: %s kWh/day\n", FormatKWh(s.AverageEnergyKWh))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Number of Appliances: %d\n", s.Count)

	if opts.TariffRate > 0 {
		daily := s.TotalEnergyKWh * opts.TariffRate
		fmt.Fprintf(w, "Estimated Cost: %s%s/day (%s%s/month at %s%s per kWh)\n",
			opts.Currency, FormatKWh(daily),
			opts.Currency, FormatKWh(daily*daysPerMonth),
			opts.Currency, humanize.FormatFloat("#,###.####", opts.TariffRate),
		)
	}
}

// Truncate shortens s to at most n characters, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// padRight pads s with spaces to n characters, counting runes rather than bytes
func padRight(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}
