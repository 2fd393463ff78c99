// Package placer implements the Placer (spec.md §4.3): it packs Chains and
// loose PartInstances onto StockInstances using a First-Fit-Decreasing,
// chain-aware heuristic, growing unlimited-supply stock on demand and
// falling back to cross-instance repacking or virtual stock as a last
// resort so that every PartInstance is placed.
package placer

import (
	"context"
	"sort"
	"time"

	"github.com/piwi3910/barchain/internal/model"
)

// Options bundles the placer's tuning knobs, sourced from model.Config.
type Options struct {
	Constraints        model.Constraints
	UnlimitedBatchSize int
	UnlimitedBatchCap  int
	MaxFallbackSwaps   int
	RemnantThreshold   float64
}

// ProgressFunc reports placement progress, per spec.md §6's optional
// progress callback: a percent in [0,100] and a short stage label.
type ProgressFunc func(percent int, stage string)

// Placer packs Chains and loose PartInstances onto StockInstances.
type Placer struct {
	opt Options
}

// New creates a Placer with the given tuning options.
func New(opt Options) *Placer {
	return &Placer{opt: opt}
}

type itemKind int

const (
	kindChain itemKind = iota
	kindLoose
)

// item is the Placer's internal PackingItem: a tagged variant over a Chain
// or a single loose PartInstance (spec.md §9: tagged variants, not a union
// dispatch table).
type item struct {
	kind           itemKind
	chain          *model.Chain
	loose          model.PartInstanceRef
	requiredLength float64
	savings        float64
}

// typePool is one Stock type's pool of materialized StockInstances.
type typePool struct {
	stock     model.Stock
	instances []*model.StockInstance
}

// poolSet holds every typePool the Placer is scanning, including virtual
// pools created on demand. It is always passed by pointer so fallback
// helpers can append newly grown or virtual pools back into the set.
type poolSet struct {
	list []*typePool
}

func (ps *poolSet) add(p *typePool) {
	ps.list = append(ps.list, p)
}

// Place runs the full First-Fit-Decreasing placement pass and returns the
// canonical PlacementResult. ctx cancellation is checked cooperatively
// between outer-loop iterations (spec.md §5).
func (pl *Placer) Place(ctx context.Context, parts []model.Part, stocks []model.Stock, chains []*model.Chain, loose []model.PartInstanceRef, progress ProgressFunc) model.PlacementResult {
	startedAt := time.Now()
	partsByID := model.PartByID(parts)
	c := pl.opt.Constraints

	items := buildItems(chains, loose, partsByID)
	sortItemsDescending(items)

	pools := initPools(stocks)
	maxUsableLength := 0.0
	for _, s := range stocks {
		if u := s.UsableLength(c.FrontEndLoss, c.BackEndLoss); u > maxUsableLength {
			maxUsableLength = u
		}
	}

	var result model.PlacementResult
	result.Success = true

	swapsUsed := 0
	totalChains := len(chains)
	mixedChains := 0
	for _, ch := range chains {
		if ch.Structure == model.StructureMixed {
			mixedChains++
		}
	}

	total := len(items)
	for i, it := range items {
		select {
		case <-ctx.Done():
			result.Success = false
			result.Warnings = append(result.Warnings, "cancelled")
			reportProgress(progress, 100, "cancelled")
			return finalize(result, pools, partsByID, c, pl.opt.RemnantThreshold, totalChains, mixedChains, elapsedMs(startedAt))
		default:
		}

		pl.placeItem(it, pools, partsByID, c, maxUsableLength, &swapsUsed, &result)

		reportProgress(progress, (i+1)*100/max(total, 1), "placing")
	}

	return finalize(result, pools, partsByID, c, pl.opt.RemnantThreshold, totalChains, mixedChains, elapsedMs(startedAt))
}

func elapsedMs(since time.Time) int64 {
	return time.Since(since).Milliseconds()
}

func reportProgress(progress ProgressFunc, percent int, stage string) {
	if progress != nil {
		progress(percent, stage)
	}
}

// buildItems materializes one PackingItem per Chain and per loose PartInstance.
func buildItems(chains []*model.Chain, loose []model.PartInstanceRef, partsByID map[string]model.Part) []item {
	items := make([]item, 0, len(chains)+len(loose))
	for _, ch := range chains {
		items = append(items, item{kind: kindChain, chain: ch, requiredLength: ch.TotalLength, savings: ch.TotalSavings})
	}
	for _, ref := range loose {
		length := float64(partsByID[ref.PartID].Length)
		items = append(items, item{kind: kindLoose, loose: ref, requiredLength: length})
	}
	return items
}

// sortItemsDescending orders items by requiredLength descending, chains
// before loose items of equal length, then higher savings first.
func sortItemsDescending(items []item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.requiredLength != b.requiredLength {
			return a.requiredLength > b.requiredLength
		}
		if a.kind != b.kind {
			return a.kind == kindChain
		}
		return a.savings > b.savings
	})
}

// initPools allocates the starting StockInstance pools: finite-supply
// types get all `quantity` instances up front, sorted by length
// descending; unlimited types start with a single instance.
func initPools(stocks []model.Stock) *poolSet {
	sorted := append([]model.Stock(nil), stocks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Length > sorted[j].Length })

	ps := &poolSet{}
	for _, s := range sorted {
		pool := &typePool{stock: s}
		if s.Unlimited() {
			pool.instances = append(pool.instances, newInstance(s, 0))
		} else {
			for idx := 0; idx < s.Quantity; idx++ {
				pool.instances = append(pool.instances, newInstance(s, idx))
			}
		}
		ps.add(pool)
	}
	return ps
}

func newInstance(s model.Stock, idx int) *model.StockInstance {
	return &model.StockInstance{StockID: s.ID, InstanceIndex: idx, Length: s.Length}
}
