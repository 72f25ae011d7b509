package booking

import (
	"math"

	"handyhub/models"
)

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculatePricing prices a booking by the hour. surchargeRate applies to
// emergency bookings, e.g. 0.5 for +50%.
func CalculatePricing(hourlyRate float64, durationMinutes int, surchargeRate float64) models.Pricing {
	hours := float64(durationMinutes) / 60
	return models.Pricing{
		HourlyRate:    hourlyRate,
		Hours:         math.Round(hours*10000) / 10000,
		SurchargeRate: surchargeRate,
		Total:         roundCents(hourlyRate * hours * (1 + surchargeRate)),
	}
}
