package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/barchain/internal/model"
)

// ComparisonScenario names a Config variant to run side by side with others.
type ComparisonScenario struct {
	Name   string
	Config model.Config
}

// ComparisonResult holds one scenario's PlacementResult plus the derived
// statistics useful for a side-by-side comparison view.
type ComparisonResult struct {
	Scenario        ComparisonScenario
	Result          model.PlacementResult
	StockBarsUsed   int
	AverageUtil     float64
	UnplacedCount   int
	TotalSavingsMm  float64
}

// CompareConfigs runs Optimize once per scenario and returns the results in
// scenario order, so a caller can present them side by side.
func CompareConfigs(ctx context.Context, scenarios []ComparisonScenario, parts []model.Part, stocks []model.Stock) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := New(scenario.Config).Optimize(ctx, parts, stocks, nil)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		var utilSum float64
		for _, u := range result.UsedStock {
			utilSum += u.Utilization
		}
		avgUtil := 0.0
		if len(result.UsedStock) > 0 {
			avgUtil = utilSum / float64(len(result.UsedStock))
		}

		results = append(results, ComparisonResult{
			Scenario:       scenario,
			Result:         result,
			StockBarsUsed:  len(result.UsedStock),
			AverageUtil:    avgUtil,
			UnplacedCount:  len(result.UnplacedParts),
			TotalSavingsMm: result.TotalSavings,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a small set of what-if variants around a
// base Config: mixed-chain building toggled off, a tighter angle
// tolerance, and a halved kerf (simulating a thinner blade).
func BuildDefaultScenarios(base model.Config) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Config: base},
	}

	if base.PrioritizeMixedChains {
		noMixed := base
		noMixed.PrioritizeMixedChains = false
		scenarios = append(scenarios, ComparisonScenario{Name: "Same-Part Chains Only", Config: noMixed})
	}

	if base.Constraints.AngleTolerance > 0 {
		tighter := base
		tighter.Constraints.AngleTolerance = base.Constraints.AngleTolerance / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Tolerance %.1f° (tighter)", tighter.Constraints.AngleTolerance),
			Config: tighter,
		})
	}

	if base.Constraints.CuttingLoss > 0.5 {
		halfKerf := base
		halfKerf.Constraints.CuttingLoss = base.Constraints.CuttingLoss / 2
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Kerf %.1fmm (half)", halfKerf.Constraints.CuttingLoss),
			Config: halfKerf,
		})
	}

	return scenarios
}
