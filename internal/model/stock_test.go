package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockUnlimited(t *testing.T) {
	assert.True(t, NewStock(6000, 0).Unlimited())
	assert.False(t, NewStock(6000, 3).Unlimited())
}

func TestStockInstanceEffectiveCapacity(t *testing.T) {
	si := &StockInstance{Length: 6000}
	assert.Equal(t, 5980.0, si.EffectiveCapacity(10, 10, 3))

	si.UsedLength = 1000
	assert.Equal(t, 4977.0, si.EffectiveCapacity(10, 10, 3))
}

func TestStockInstanceUtilization(t *testing.T) {
	si := &StockInstance{Length: 6000, PlacedLength: 4000, SavingsCredit: 110.2}
	got := si.Utilization(10, 10)
	assert.InDelta(t, 0.6516, got, 0.001)
}

func TestStockInstanceUtilizationNeverNegative(t *testing.T) {
	si := &StockInstance{Length: 6000, PlacedLength: 100, SavingsCredit: 1000}
	assert.Equal(t, 0.0, si.Utilization(0, 0))
}
