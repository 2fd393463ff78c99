package model

// Constraints holds the fixed physical parameters for a single optimization run.
type Constraints struct {
	CuttingLoss    float64 `json:"cuttingLoss"`    // kerf, mm
	FrontEndLoss   float64 `json:"frontEndLoss"`   // mm
	BackEndLoss    float64 `json:"backEndLoss"`    // mm
	AngleTolerance float64 `json:"angleTolerance"` // degrees
}

// Algorithm tuning knobs, all first-class configuration per run (§9 design
// note: "make Constraints a per-run parameter so a single engine can handle
// many requests").
type Config struct {
	// Constraints.AngleTolerance is the canonical tolerance used by the
	// matcher; it is grouped here rather than duplicated at the top level
	// since spec.md's Constraints entity owns it.
	PrioritizeMixedChains bool        `json:"prioritizeMixedChains"`
	Constraints           Constraints `json:"constraints"`

	MaxChainLength       int `json:"maxChainLength"`
	UnlimitedBatchSize   int `json:"unlimitedBatchSize"`
	UnlimitedBatchCap    int `json:"unlimitedBatchCap"`
	SampleCapForMatching int `json:"sampleCapForMatching"`

	SavingsCap float64 `json:"savingsCap"` // mm

	// MaxFallbackSwaps bounds the cross-instance repacking fallback
	// (§4.3 step 6) so placement stays near-linear.
	MaxFallbackSwaps int `json:"maxFallbackSwaps"`

	// RemnantThreshold: trailing free length above which a StockInstance's
	// leftover is surfaced as a reusable Remnant in the result.
	RemnantThreshold float64 `json:"remnantThreshold"`

	// RandomSeed seeds the matcher's bucket sampler (§5: "must be seedable
	// and default to a fixed seed for reproducibility").
	RandomSeed int64 `json:"randomSeed"`
}

// DefaultConfig returns the engine's default tuning, matching spec.md §4.4.
func DefaultConfig() Config {
	return Config{
		PrioritizeMixedChains: true,
		Constraints: Constraints{
			CuttingLoss:    3.0,
			FrontEndLoss:   10.0,
			BackEndLoss:    10.0,
			AngleTolerance: 5.0,
		},
		MaxChainLength:       20,
		UnlimitedBatchSize:   5,
		UnlimitedBatchCap:    10,
		SampleCapForMatching: 500,
		SavingsCap:           50.0,
		MaxFallbackSwaps:     32,
		RemnantThreshold:     200.0,
		RandomSeed:           42,
	}
}
