package booking_test

import (
	"errors"
	"testing"

	"venuebook/models"
	"venuebook/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tod(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestComputeTotal_BaseRatePlusFixedService(t *testing.T) {
	// 1000.00/hr for two hours plus a 500.00 fixed service = 2500.00.
	total, err := booking.ComputeTotal(
		models.Money(100000),
		tod(t, "14:00"), tod(t, "16:00"),
		[]models.Money{50000},
	)
	require.NoError(t, err)
	assert.Equal(t, models.Money(250000), total)
}

func TestComputeTotal_FractionalHours(t *testing.T) {
	// 1.5 hours at 1000.00/hr = 1500.00.
	total, err := booking.ComputeTotal(
		models.Money(100000),
		tod(t, "10:00"), tod(t, "11:30"),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, models.Money(150000), total)
}

func TestComputeTotal_MultipleServices(t *testing.T) {
	total, err := booking.ComputeTotal(
		models.Money(80000),
		tod(t, "09:00"), tod(t, "10:00"),
		[]models.Money{25000, 10000, 5000},
	)
	require.NoError(t, err)
	assert.Equal(t, models.Money(120000), total)
}

func TestComputeTotal_EndBeforeStart(t *testing.T) {
	_, err := booking.ComputeTotal(
		models.Money(100000),
		tod(t, "16:00"), tod(t, "14:00"),
		nil,
	)
	assert.True(t, errors.Is(err, booking.ErrInvalidTimeRange))
}

func TestComputeTotal_ZeroDuration(t *testing.T) {
	_, err := booking.ComputeTotal(
		models.Money(100000),
		tod(t, "14:00"), tod(t, "14:00"),
		nil,
	)
	assert.True(t, errors.Is(err, booking.ErrInvalidTimeRange))
}

func TestComputeTotal_NegativePricesRejected(t *testing.T) {
	_, err := booking.ComputeTotal(
		models.Money(-1),
		tod(t, "14:00"), tod(t, "16:00"),
		nil,
	)
	assert.True(t, errors.Is(err, booking.ErrInvalidPrice))

	_, err = booking.ComputeTotal(
		models.Money(100000),
		tod(t, "14:00"), tod(t, "16:00"),
		[]models.Money{-50000},
	)
	assert.True(t, errors.Is(err, booking.ErrInvalidPrice))
}

func TestComputeTotal_Idempotent(t *testing.T) {
	a, err := booking.ComputeTotal(models.Money(123456), tod(t, "08:15"), tod(t, "11:45"), []models.Money{999})
	require.NoError(t, err)
	b, err := booking.ComputeTotal(models.Money(123456), tod(t, "08:15"), tod(t, "11:45"), []models.Money{999})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
