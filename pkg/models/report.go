package models

import "time"

// Report is an archived analysis result
type Report struct {
	ID               int       `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	ApplianceCount   int       `json:"appliance_count"`
	TotalEnergyKWh   float64   `json:"total_energy_kwh"`
	AverageEnergyKWh float64   `json:"average_energy_kwh"`
	MaxName          string    `json:"max_name"`
	MaxEnergyKWh     float64   `json:"max_energy_kwh"`
	MinName          string    `json:"min_name"`
	MinEnergyKWh     float64   `json:"min_energy_kwh"`
}

// NewReport builds a report from a summary, stamped with the given time
func NewReport(s Summary, at time.Time) *Report {
	return &Report{
		CreatedAt:        at,
		ApplianceCount:   s.Count,
		TotalEnergyKWh:   s.TotalEnergyKWh,
		AverageEnergyKWh: s.AverageEnergyKWh,
		MaxName:          s.MaxConsumer.Name,
		MaxEnergyKWh:     s.MaxConsumer.EnergyKWhPerDay,
		MinName:          s.MinConsumer.Name,
		MinEnergyKWh:     s.MinConsumer.EnergyKWhPerDay,
	}
}
