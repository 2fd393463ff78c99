package placer

import "github.com/piwi3910/barchain/internal/model"

// finalize walks the final pool state and assembles the canonical
// PlacementResult: flattened placements, per-instance utilization,
// remnants above threshold, and the realized savings tally.
func finalize(result model.PlacementResult, pools *poolSet, partsByID map[string]model.Part, c model.Constraints, remnantThreshold float64, totalChains, mixedChains int, elapsedMs int64) model.PlacementResult {
	for _, pool := range pools.list {
		for _, si := range pool.instances {
			if len(si.Placements) == 0 {
				continue
			}
			result.PlacedParts = append(result.PlacedParts, si.Placements...)
			result.UsedStock = append(result.UsedStock, model.UsedStockEntry{
				StockID:       si.StockID,
				InstanceIndex: si.InstanceIndex,
				Utilization:   si.Utilization(c.FrontEndLoss, c.BackEndLoss),
				Virtual:       si.Virtual,
			})
			result.TotalSavings += si.SavingsCredit

			remnant := si.EffectiveCapacity(c.FrontEndLoss, c.BackEndLoss, 0)
			if remnant >= remnantThreshold {
				result.Remnants = append(result.Remnants, model.Remnant{
					StockID: si.StockID, InstanceIndex: si.InstanceIndex, Length: remnant,
				})
			}
		}
	}

	result.ChainsBuilt = totalChains
	result.MixedChains = mixedChains
	result.ElapsedMs = elapsedMs
	result.InstanceCount = len(result.PlacedParts) + len(result.UnplacedParts)

	for _, p := range result.PlacedParts {
		if hasAngle(partsByID[p.PartID]) {
			result.AngledInstanceCount++
		}
	}
	for _, u := range result.UnplacedParts {
		if hasAngle(partsByID[u.PartID]) {
			result.AngledInstanceCount++
		}
	}

	return result
}

func hasAngle(p model.Part) bool {
	return len(p.Angles.NonZero()) > 0
}
