package models

import (
	"fmt"
	"time"
)

// Appliance represents a single entry in the home load inventory
type Appliance struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PowerWatts      float64   `json:"power_watts"`
	Quantity        float64   `json:"quantity"`
	HoursPerDay     float64   `json:"hours_per_day"`
	EnergyKWhPerDay float64   `json:"energy_kwh_per_day"` // (power / 1000) * hours * quantity
	CreatedAt       time.Time `json:"created_at"`
}

// Summary holds the aggregate statistics over all appliances
type Summary struct {
	TotalEnergyKWh   float64   `json:"total_energy_kwh"`
	AverageEnergyKWh float64   `json:"average_energy_kwh"`
	MaxConsumer      Appliance `json:"max_consumer"`
	MinConsumer      Appliance `json:"min_consumer"`
	Count            int       `json:"count"`
}

// ColorRole tells the chart how to highlight a bar
type ColorRole int

const (
	RoleDefault ColorRole = iota
	RoleMax
	RoleMin
)

func (r ColorRole) String() string {
	switch r {
	case RoleMax:
		return "max"
	case RoleMin:
		return "min"
	default:
		return "default"
	}
}

// MarshalText lets the role serialize as its name in JSON
func (r ColorRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a role name
func (r *ColorRole) UnmarshalText(text []byte) error {
	switch string(text) {
	case "default":
		*r = RoleDefault
	case "max":
		*r = RoleMax
	case "min":
		*r = RoleMin
	default:
		return fmt.Errorf("unknown color role: %q", text)
	}
	return nil
}

// ChartPoint is one bar of the energy consumption chart
type ChartPoint struct {
	Label string    `json:"label"`
	Value float64   `json:"value"`
	Role  ColorRole `json:"role"`
}
