package service

import "soil_monitor/internal/models"

// Canonical status thresholds. The moisture guide shown to users documents the
// same bands: 0–19 Sangat Kering, 20–39 Kering, 40–59 Baik, 60+ Lembab.
const (
	statusVeryDryBelow = 20.0
	statusDryBelow     = 40.0
	statusGoodBelow    = 60.0
)

const (
	StatusVeryDry = "Sangat Kering"
	StatusDry     = "Kering"
	StatusGood    = "Baik"
	StatusMoist   = "Lembab"
)

// statusFor classifies an average moisture value.
func statusFor(average float64) models.MoistureStatus {
	switch {
	case average < statusVeryDryBelow:
		return models.MoistureStatus{Status: StatusVeryDry, Color: "#ef4444"}
	case average < statusDryBelow:
		return models.MoistureStatus{Status: StatusDry, Color: "#f97316"}
	case average < statusGoodBelow:
		return models.MoistureStatus{Status: StatusGood, Color: "#22c55e"}
	default:
		return models.MoistureStatus{Status: StatusMoist, Color: "#3b82f6"}
	}
}
