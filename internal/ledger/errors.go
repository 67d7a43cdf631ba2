package ledger

import (
	"errors"
	"strings"
)

// Issue identifies a single validation failure for an appliance entry
type Issue string

const (
	EmptyName       Issue = "empty_name"
	NameTooLong     Issue = "name_too_long"
	InvalidPower    Issue = "invalid_power"
	InvalidQuantity Issue = "invalid_quantity"
	InvalidHours    Issue = "invalid_hours"
	HoursExceedsDay Issue = "hours_exceeds_day"
)

// Message returns the user-facing text for the issue
func (i Issue) Message() string {
	switch i {
	case EmptyName:
		return "Appliance name cannot be empty"
	case NameTooLong:
		return "Appliance name is too long (max 50 characters)"
	case InvalidPower:
		return "Power rating must be a positive number"
	case InvalidQuantity:
		return "Quantity must be a positive number"
	case InvalidHours:
		return "Daily usage must be a positive number"
	case HoursExceedsDay:
		return "Daily usage cannot exceed 24 hours"
	default:
		return string(i)
	}
}

// ValidationError is returned by Add when an entry breaks one or more rules.
// Issues holds every failure found, in field order.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether the error contains the given issue
func (e *ValidationError) Has(issue Issue) bool {
	for _, i := range e.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

// ErrEmptyLedger is returned by Analyze when no appliances have been added
var ErrEmptyLedger = errors.New("please add at least one appliance before analyzing")
