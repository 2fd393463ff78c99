package model

import "github.com/google/uuid"

// Stock represents an available bar type to cut parts from.
// Quantity of 0 means unlimited supply (allocated on demand by the Placer).
type Stock struct {
	ID       string `json:"id"`
	Length   int    `json:"length"` // mm
	Quantity int    `json:"quantity"`
}

// NewStock creates a Stock with a generated ID.
func NewStock(length, qty int) Stock {
	return Stock{
		ID:       uuid.New().String()[:8],
		Length:   length,
		Quantity: qty,
	}
}

// Unlimited reports whether this stock type has unlimited supply.
func (s Stock) Unlimited() bool {
	return s.Quantity == 0
}

// UsableLength returns the length available for parts after end losses.
func (s Stock) UsableLength(frontLoss, backLoss float64) float64 {
	return float64(s.Length) - frontLoss - backLoss
}

// StockInstance is one physical bar: either drawn from a finite-supply
// Stock type or allocated on demand from an unlimited one.
//
// UsedLength tracks the physically occupied span (sum of placed part
// lengths plus the realized, kerf-clamped gaps between them) and governs
// fit checks. PlacedLength and SavingsCredit are tracked separately so
// Utilization can report the idealized material-saved figure (using the
// uncapped per-connection savings) independent of what was physically
// realizable once a shared cut's savings exceed the kerf.
type StockInstance struct {
	StockID       string      `json:"stockId"`
	InstanceIndex int         `json:"instanceIndex"`
	Length        int         `json:"length"`
	UsedLength    float64     `json:"usedLength"`
	PlacedLength  float64     `json:"-"`
	SavingsCredit float64     `json:"-"`
	Placements    []Placement `json:"placements"`
	Virtual       bool        `json:"virtual"`
}

// EffectiveCapacity returns the remaining usable length for the next item,
// accounting for end losses already consumed and the kerf before the next cut.
func (si *StockInstance) EffectiveCapacity(frontLoss, backLoss, kerf float64) float64 {
	capacity := float64(si.Length) - frontLoss - backLoss - si.UsedLength
	if si.UsedLength > 0 {
		capacity -= kerf
	}
	return capacity
}

// Utilization returns the idealized fraction of the bar consumed: the sum
// of placed part lengths, minus the raw (uncapped) shared-cut savings
// credited within this instance, plus both end losses, over the bar length.
func (si *StockInstance) Utilization(frontLoss, backLoss float64) float64 {
	if si.Length == 0 {
		return 0
	}
	used := si.PlacedLength - si.SavingsCredit + frontLoss + backLoss
	if used < 0 {
		used = 0
	}
	return used / float64(si.Length)
}
