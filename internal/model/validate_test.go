package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePartRejectsNonPositiveLength(t *testing.T) {
	p := NewPart(0, CornerAngles{}, 1)
	err := ValidatePart(p)
	assert.ErrorIs(t, err, ErrInvalidPart)
}

func TestValidatePartRejectsZeroQuantity(t *testing.T) {
	p := NewPart(100, CornerAngles{}, 1)
	p.Quantity = 0
	assert.ErrorIs(t, ValidatePart(p), ErrInvalidPart)
}

func TestValidatePartRejectsOutOfRangeAngle(t *testing.T) {
	p := NewPart(100, CornerAngles{TL: 90}, 1)
	assert.ErrorIs(t, ValidatePart(p), ErrInvalidPart)

	p2 := NewPart(100, CornerAngles{TR: -1}, 1)
	assert.ErrorIs(t, ValidatePart(p2), ErrInvalidPart)
}

func TestValidatePartRejectsDoubleVerticalMitreSameSide(t *testing.T) {
	left := NewPart(100, CornerAngles{TL: 30, BL: 30}, 1)
	assert.ErrorIs(t, ValidatePart(left), ErrInvalidPart)

	right := NewPart(100, CornerAngles{TR: 30, BR: 30}, 1)
	assert.ErrorIs(t, ValidatePart(right), ErrInvalidPart)
}

func TestValidatePartAcceptsValidPart(t *testing.T) {
	p := NewPart(1000, CornerAngles{TL: 33, BR: 45}, 2)
	assert.NoError(t, ValidatePart(p))
}

func TestValidateStockRejectsNonPositiveLength(t *testing.T) {
	assert.ErrorIs(t, ValidateStock(NewStock(0, 1)), ErrInvalidStock)
}

func TestValidateStockRejectsNegativeQuantity(t *testing.T) {
	s := NewStock(100, 1)
	s.Quantity = -1
	assert.ErrorIs(t, ValidateStock(s), ErrInvalidStock)
}

func TestValidateStockAllowsZeroQuantityForUnlimited(t *testing.T) {
	assert.NoError(t, ValidateStock(NewStock(100, 0)))
}

func TestValidateConstraintsRejectsNegativeValues(t *testing.T) {
	base := Constraints{CuttingLoss: 1, FrontEndLoss: 1, BackEndLoss: 1, AngleTolerance: 1}

	neg := base
	neg.CuttingLoss = -1
	assert.True(t, errors.Is(ValidateConstraints(neg), ErrInvalidConfig))

	neg = base
	neg.AngleTolerance = -1
	assert.True(t, errors.Is(ValidateConstraints(neg), ErrInvalidConfig))
}
