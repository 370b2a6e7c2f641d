package models_test

import (
	"math"
	"testing"

	"venuebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "2500.00", models.Money(250000).String())
	assert.Equal(t, "0.05", models.Money(5).String())
	assert.Equal(t, "0.00", models.Money(0).String())
	assert.Equal(t, "-12.34", models.Money(-1234).String())
}

func TestAddMoney_Overflow(t *testing.T) {
	sum, err := models.AddMoney(100, 250)
	require.NoError(t, err)
	assert.Equal(t, models.Money(350), sum)

	_, err = models.AddMoney(models.Money(math.MaxInt64), 1)
	assert.Error(t, err)
	_, err = models.AddMoney(models.Money(math.MinInt64), -1)
	assert.Error(t, err)
}

func TestMulMoney_Overflow(t *testing.T) {
	prod, err := models.MulMoney(100000, 90)
	require.NoError(t, err)
	assert.Equal(t, models.Money(9000000), prod)

	zero, err := models.MulMoney(100000, 0)
	require.NoError(t, err)
	assert.Equal(t, models.Money(0), zero)

	_, err = models.MulMoney(models.Money(math.MaxInt64), 2)
	assert.Error(t, err)
}
