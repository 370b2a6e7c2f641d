package booking

import (
	"fmt"

	"venuebook/models"
)

// ComputeTotal prices a booking: base hourly rate prorated over the slot
// duration plus the sum of the selected service price snapshots. Pure and
// idempotent; identical inputs always produce the identical amount.
func ComputeTotal(basePricePerHour models.Money, start, end models.TimeOfDay, servicePrices []models.Money) (models.Money, error) {
	minutes := end.Minutes() - start.Minutes()
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}
	if basePricePerHour < 0 {
		return 0, fmt.Errorf("%w: base price %d", ErrInvalidPrice, basePricePerHour)
	}

	scaled, err := models.MulMoney(basePricePerHour, int64(minutes))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	// Prorate to the minute, rounding half-up to the minor unit so fractional
	// hours (e.g. 1.5h) price exactly.
	total := (scaled + 30) / 60

	for _, p := range servicePrices {
		if p < 0 {
			return 0, fmt.Errorf("%w: service price %d", ErrInvalidPrice, p)
		}
		total, err = models.AddMoney(total, p)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
		}
	}
	return total, nil
}

// DurationHours is a display helper; pricing itself stays in minute/integer
// arithmetic.
func DurationHours(start, end models.TimeOfDay) float64 {
	return float64(end.Minutes()-start.Minutes()) / 60.0
}
