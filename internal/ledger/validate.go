package ledger

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest appliance name accepted, in characters
const MaxNameLength = 50

// MaxHoursPerDay bounds the daily usage of an appliance
const MaxHoursPerDay = 24

// Validate checks raw form input and returns every rule it breaks.
// An empty result means the entry can be added.
func Validate(rawName, rawPower, rawQuantity, rawHours string) []Issue {
	var issues []Issue

	name := strings.TrimSpace(rawName)
	if name == "" {
		issues = append(issues, EmptyName)
	} else if utf8.RuneCountInString(name) > MaxNameLength {
		issues = append(issues, NameTooLong)
	}

	if v, ok := parseNumber(rawPower); !ok || v <= 0 {
		issues = append(issues, InvalidPower)
	}

	if v, ok := parseNumber(rawQuantity); !ok || v <= 0 {
		issues = append(issues, InvalidQuantity)
	}

	if v, ok := parseNumber(rawHours); !ok || v <= 0 {
		issues = append(issues, InvalidHours)
	} else if v > MaxHoursPerDay {
		issues = append(issues, HoursExceedsDay)
	}

	return issues
}

// parseNumber parses a trimmed decimal string. NaN and infinities are
// rejected along with anything strconv cannot read.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
