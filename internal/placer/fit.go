package placer

import (
	"fmt"
	"sort"

	"github.com/piwi3910/barchain/internal/model"
)

// placeItem attempts, in order: fitting the item onto an existing
// StockInstance, growing an unlimited stock type and retrying, splitting a
// chain at its weakest connection (spec.md §4.3 step 6), evicting a
// smaller placed item to make room, and finally virtual stock as a last
// resort. It returns whether the item (or, for a split chain, all of its
// pieces) ended up placed.
func (pl *Placer) placeItem(it item, pools *poolSet, partsByID map[string]model.Part, c model.Constraints, maxUsableLength float64, swapsUsed *int, result *model.PlacementResult) bool {
	if fitAndPlace(it, pools, partsByID, c) {
		return true
	}

	if growUnlimited(it, pools, partsByID, c, pl.opt.UnlimitedBatchSize, pl.opt.UnlimitedBatchCap) {
		if fitAndPlace(it, pools, partsByID, c) {
			return true
		}
	}

	if it.kind == kindChain {
		return pl.splitAndPlace(it, pools, partsByID, c, maxUsableLength, swapsUsed, result)
	}

	if it.requiredLength > maxUsableLength {
		result.UnplacedParts = append(result.UnplacedParts, model.UnplacedPart{
			PartID: it.loose.PartID, InstanceID: it.loose.InstanceID,
			Reason: fmt.Sprintf("part length %.1f mm exceeds every stock type's usable length (%.1f mm)", it.requiredLength, maxUsableLength),
		})
		result.Success = false
		return false
	}

	if *swapsUsed < pl.opt.MaxFallbackSwaps && pl.evictAndPlace(it, pools, partsByID, c, swapsUsed, result) {
		return true
	}

	placeOnVirtual(it, pools, partsByID, c)
	result.Warnings = append(result.Warnings, fmt.Sprintf(
		"part %s instance %d placed on virtual stock: finite supply exhausted", it.loose.PartID, it.loose.InstanceID))
	return true
}

// fitAndPlace scans pools in their fixed (length-descending) order and,
// within a pool, its instances in allocation order, placing the item on
// the first StockInstance with enough remaining capacity.
func fitAndPlace(it item, pools *poolSet, partsByID map[string]model.Part, c model.Constraints) bool {
	for _, pool := range pools.list {
		for _, si := range pool.instances {
			if si.EffectiveCapacity(c.FrontEndLoss, c.BackEndLoss, c.CuttingLoss) >= it.requiredLength {
				commitItem(it, si, partsByID, c)
				return true
			}
		}
	}
	return false
}

// commitItem writes the item's Placements onto si and updates its
// bookkeeping fields (UsedLength, PlacedLength, SavingsCredit).
func commitItem(it item, si *model.StockInstance, partsByID map[string]model.Part, c model.Constraints) {
	start := c.FrontEndLoss + si.UsedLength
	if si.UsedLength > 0 {
		start += c.CuttingLoss
	}

	switch it.kind {
	case kindLoose:
		p := partsByID[it.loose.PartID]
		si.Placements = append(si.Placements, model.Placement{
			PartID: it.loose.PartID, InstanceID: it.loose.InstanceID,
			StockID: si.StockID, StockInstanceIndex: si.InstanceIndex,
			StartPosition: start, Length: float64(p.Length),
		})
		si.PlacedLength += float64(p.Length)
		// UsedLength is the full physical span from the front loss to this
		// placement's end, not a running sum of part lengths: start already
		// folds in every kerf gap charged so far, so deriving it this way
		// (rather than accumulating +=p.Length) keeps it correct past the
		// 2nd placement, where a kerf gap would otherwise go uncounted.
		si.UsedLength = start + float64(p.Length) - c.FrontEndLoss

	case kindChain:
		pos := start
		for idx, ref := range it.chain.Instances {
			p := partsByID[ref.PartID]
			placement := model.Placement{
				PartID: ref.PartID, InstanceID: ref.InstanceID,
				StockID: si.StockID, StockInstanceIndex: si.InstanceIndex,
				StartPosition: pos, Length: float64(p.Length),
				ChainID: it.chain.ID, Flipped: it.chain.Flips[ref],
			}
			if idx > 0 {
				prev := it.chain.Instances[idx-1]
				conn := it.chain.Connections[idx-1]
				placement.SharedCutInfo = &model.SharedCutInfo{
					PairedPartID: prev.PartID, PairedInstanceID: prev.InstanceID, Savings: conn.Savings,
				}
			}
			si.Placements = append(si.Placements, placement)
			si.PlacedLength += float64(p.Length)
			pos += float64(p.Length)

			if idx < len(it.chain.Connections) {
				conn := it.chain.Connections[idx]
				si.SavingsCredit += conn.Savings
				pos += model.ConnectionGap(conn.Savings, c.CuttingLoss)
			}
		}
		si.UsedLength = pos - c.FrontEndLoss
	}
}

// growUnlimited allocates a fresh batch of instances on the shortest
// unlimited-supply stock type whose usable length (after front and back
// end losses) can hold the item, per spec.md §4.3 step 5. Each miss adds
// one batch of batchSize instances, capped at batchCap.
func growUnlimited(it item, pools *poolSet, partsByID map[string]model.Part, c model.Constraints, batchSize, batchCap int) bool {
	var best *typePool
	for _, pool := range pools.list {
		if !pool.stock.Unlimited() {
			continue
		}
		if float64(pool.stock.Length)-c.FrontEndLoss-c.BackEndLoss < it.requiredLength {
			continue
		}
		if best == nil || pool.stock.Length < best.stock.Length {
			best = pool
		}
	}
	if best == nil {
		return false
	}

	n := batchSize
	if n <= 0 {
		n = 1
	}
	if batchCap > 0 && n > batchCap {
		n = batchCap
	}
	startIdx := len(best.instances)
	for i := 0; i < n; i++ {
		best.instances = append(best.instances, newInstance(best.stock, startIdx+i))
	}
	return true
}

// splitAndPlace implements the chain half of the cross-instance repacking
// fallback: split the chain at its lowest-savings connection and place
// each half independently, recursing if a half is itself still too big.
func (pl *Placer) splitAndPlace(it item, pools *poolSet, partsByID map[string]model.Part, c model.Constraints, maxUsableLength float64, swapsUsed *int, result *model.PlacementResult) bool {
	if it.chain.Len() < 2 {
		loose := toLooseItem(it.chain.Instances[0], partsByID)
		return pl.placeItem(loose, pools, partsByID, c, maxUsableLength, swapsUsed, result)
	}

	idx := it.chain.LowestSavingsConnection()
	left, right := it.chain.SplitAt(idx)
	result.Warnings = append(result.Warnings, fmt.Sprintf(
		"chain %s split at connection %d (lowest savings) to fit available stock", it.chain.ID, idx))
	leftItem := toChainItem(left, partsByID, c)
	rightItem := toChainItem(right, partsByID, c)

	okLeft := pl.placeItem(leftItem, pools, partsByID, c, maxUsableLength, swapsUsed, result)
	okRight := pl.placeItem(rightItem, pools, partsByID, c, maxUsableLength, swapsUsed, result)
	return okLeft && okRight
}

func toLooseItem(ref model.PartInstanceRef, partsByID map[string]model.Part) item {
	return item{kind: kindLoose, loose: ref, requiredLength: float64(partsByID[ref.PartID].Length)}
}

// toChainItem converts a freshly split Chain into a packing item,
// recomputing TotalLength since Chain.SplitAt only recomputes TotalSavings.
func toChainItem(chain *model.Chain, partsByID map[string]model.Part, c model.Constraints) item {
	if chain.Len() == 1 {
		return toLooseItem(chain.Instances[0], partsByID)
	}
	total := 0.0
	for _, ref := range chain.Instances {
		total += float64(partsByID[ref.PartID].Length)
	}
	for _, conn := range chain.Connections {
		total += model.ConnectionGap(conn.Savings, c.CuttingLoss)
	}
	chain.TotalLength = total
	return item{kind: kindChain, chain: chain, requiredLength: total, savings: chain.TotalSavings}
}

// evictAndPlace implements the loose-item half of the cross-instance
// repacking fallback: find the smallest already-placed loose Placement
// whose removal frees enough capacity for it, evict it, place it in its
// stead, then try to re-place the evictee from scratch (recursing through
// the same fit/grow/fallback chain, bounded by MaxFallbackSwaps).
//
// Only the tail placement (the most recently committed one) of a
// StockInstance is eligible: UsedLength is a running total derived from
// the position it was committed at, so removing anything but the tail
// would leave earlier placements' StartPosition inconsistent with the
// rolled-back UsedLength and the next commitItem would overlap them.
// ChainID (set for every member of a chain, including the first) keeps
// whole chains atomic regardless of where SharedCutInfo is set.
func (pl *Placer) evictAndPlace(it item, pools *poolSet, partsByID map[string]model.Part, c model.Constraints, swapsUsed *int, result *model.PlacementResult) bool {
	type candidate struct {
		si   *model.StockInstance
		pIdx int
	}
	var candidates []candidate
	for _, pool := range pools.list {
		for _, si := range pool.instances {
			n := len(si.Placements)
			if n == 0 {
				continue
			}
			pIdx := n - 1
			placement := si.Placements[pIdx]
			if placement.ChainID != "" {
				continue // chain members are never evicted individually
			}
			freed := si.EffectiveCapacity(c.FrontEndLoss, c.BackEndLoss, c.CuttingLoss) + placement.Length
			if freed >= it.requiredLength {
				candidates = append(candidates, candidate{si: si, pIdx: pIdx})
			}
		}
	}
	if len(candidates) == 0 {
		return false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].si.Placements[candidates[i].pIdx].Length < candidates[j].si.Placements[candidates[j].pIdx].Length
	})

	chosen := candidates[0]
	evictee := chosen.si.Placements[chosen.pIdx].Ref()
	removePlacement(chosen.si, chosen.pIdx, c.FrontEndLoss)

	commitItem(it, chosen.si, partsByID, c)
	*swapsUsed++
	result.Warnings = append(result.Warnings, fmt.Sprintf(
		"evicted part %s instance %d to make room for part %s instance %d",
		evictee.PartID, evictee.InstanceID, it.loose.PartID, it.loose.InstanceID))

	evicteeItem := toLooseItem(evictee, partsByID)
	if fitAndPlace(evicteeItem, pools, partsByID, c) {
		return true
	}
	if growUnlimited(evicteeItem, pools, partsByID, c, pl.opt.UnlimitedBatchSize, pl.opt.UnlimitedBatchCap) &&
		fitAndPlace(evicteeItem, pools, partsByID, c) {
		return true
	}
	placeOnVirtual(evicteeItem, pools, partsByID, c)
	result.Warnings = append(result.Warnings, fmt.Sprintf(
		"evicted part %s instance %d placed on virtual stock", evictee.PartID, evictee.InstanceID))
	return true
}

// removePlacement deletes the tail Placement from a StockInstance (idx must
// be its last index — see evictAndPlace) and recomputes UsedLength from
// whatever placement is now last, so the next commitItem's start position
// lands exactly at the remaining placements' true physical end rather than
// drifting from a running total.
func removePlacement(si *model.StockInstance, idx int, frontLoss float64) {
	p := si.Placements[idx]
	si.Placements = append(si.Placements[:idx], si.Placements[idx+1:]...)
	si.PlacedLength -= p.Length

	if len(si.Placements) == 0 {
		si.UsedLength = 0
		return
	}
	si.UsedLength = si.Placements[len(si.Placements)-1].End() - frontLoss
}

// placeOnVirtual allocates a dedicated virtual StockInstance sized to the
// item (or the smallest real stock length, whichever is larger) and
// places the item there. This always succeeds (spec.md §4.3 step 7: the
// placer never drops a part).
func placeOnVirtual(it item, pools *poolSet, partsByID map[string]model.Part, c model.Constraints) {
	smallest := 0
	for _, pool := range pools.list {
		if pool.stock.ID == "virtual" {
			continue
		}
		if smallest == 0 || pool.stock.Length < smallest {
			smallest = pool.stock.Length
		}
	}
	need := it.requiredLength + c.FrontEndLoss + c.BackEndLoss
	length := need
	if float64(smallest) > length {
		length = float64(smallest)
	}

	stockLength := int(length) + 1
	pool := findOrCreateVirtualPool(pools, stockLength)
	si := &model.StockInstance{StockID: "virtual", InstanceIndex: len(pool.instances), Length: stockLength, Virtual: true}
	pool.instances = append(pool.instances, si)
	commitItem(it, si, partsByID, c)
}

func findOrCreateVirtualPool(pools *poolSet, length int) *typePool {
	for _, pool := range pools.list {
		if pool.stock.ID == "virtual" && pool.stock.Length == length {
			return pool
		}
	}
	pool := &typePool{stock: model.Stock{ID: "virtual", Length: length, Quantity: 0}}
	pools.add(pool)
	return pool
}
