package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jgoulah/loadanalyzer/pkg/models"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiBlue  = "\033[34m"
)

// ChartOptions controls the bar chart layout
type ChartOptions struct {
	Width      int  // bar width in characters for the largest value (default 40)
	LabelWidth int  // label column width (default 14)
	Color      bool // emit ANSI colours per role
}

// Chart writes a horizontal bar chart of daily energy per appliance.
// Max bars are red, min bars green, everything else blue.
func Chart(w io.Writer, series []models.ChartPoint, opts ChartOptions) {
	if len(series) == 0 {
		fmt.Fprintln(w, "No data to display")
		return
	}
	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = 14
	}

	var peak float64
	for _, p := range series {
		if p.Value > peak {
			peak = p.Value
		}
	}

	fmt.Fprintln(w, "📈 Energy Consumption by Appliance (kWh/day)")
	for _, p := range series {
		n := 0
		switch {
		case math.IsInf(p.Value, 1):
			n = opts.Width
		case peak > 0 && !math.IsInf(peak, 1):
			n = int(p.Value / peak * float64(opts.Width))
		}
		if n == 0 && p.Value > 0 {
			n = 1
		}
		bar := strings.Repeat("█", n)
		if opts.Color {
			bar = roleColor(p.Role) + bar + ansiReset
		}

		marker := ""
		switch p.Role {
		case models.RoleMax:
			marker = " ▲"
		case models.RoleMin:
			marker = " ▼"
		}

		fmt.Fprintf(w, "%s │%s %s%s\n", padRight(Truncate(p.Label, opts.LabelWidth), opts.LabelWidth), bar, FormatKWh(p.Value), marker)
	}
}

func roleColor(r models.ColorRole) string {
	switch r {
	case models.RoleMax:
		return ansiRed
	case models.RoleMin:
		return ansiGreen
	default:
		return ansiBlue
	}
}
