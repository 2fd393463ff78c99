// Package matcher implements the Angle Matcher (spec.md §4.1): it
// enumerates candidate shared-cut pairings across a population of
// PartInstances in near-linear time using angle-tolerance bucketing.
package matcher

import (
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/barchain/internal/model"
)

// Options bundles the matcher's tuning knobs, sourced from model.Config.
type Options struct {
	Tolerance float64
	SavingsCap float64
	SampleCap  int
	Seed       int64
}

// slot is one non-zero corner-angle entry contributed by a PartInstance.
type slot struct {
	ref   model.PartInstanceRef
	part  model.Part
	corner model.Corner
	angle float64
}

// CanShare reports whether two angles may be joined by a shared cut: they
// must be within tolerance of each other and neither may be 0 (a 0° slot
// has no mitre).
func CanShare(a, b, tolerance float64) bool {
	if a == 0 || b == 0 {
		return false
	}
	return math.Abs(a-b) <= tolerance
}

// collectSlots enumerates up to 4 non-zero corner slots per PartInstance.
func collectSlots(instances []model.PartInstance, partsByID map[string]model.Part) []slot {
	var slots []slot
	for _, inst := range instances {
		p, ok := partsByID[inst.PartID]
		if !ok {
			continue
		}
		for _, nz := range p.Angles.NonZero() {
			slots = append(slots, slot{ref: inst.Ref(), part: p, corner: nz.Corner, angle: nz.Angle})
		}
	}
	return slots
}

// sampleSlots deterministically samples at most cap slots using a seeded
// RNG, per spec.md §4.1 step 3 (caps worst-case cost for 10^5-scale
// populations). Returns the sampled slots and the scale factor
// (n/len(sample)) to apply to aggregate savings estimates.
func sampleSlots(slots []slot, cap int, seed int64) ([]slot, float64) {
	n := len(slots)
	if cap <= 0 || n <= cap {
		return slots, 1.0
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)
	sampled := make([]slot, cap)
	for i := 0; i < cap; i++ {
		sampled[i] = slots[perm[i]]
	}
	return sampled, float64(n) / float64(cap)
}

func bucketKey(angle, tolerance float64) int {
	if tolerance <= 0 {
		return int(math.Round(angle * 1e6))
	}
	return int(math.Floor(angle / tolerance))
}

// FindMatches enumerates candidate AngleMatches across the given
// PartInstance population, ordered by descending score (spec.md §4.1).
func FindMatches(instances []model.PartInstance, partsByID map[string]model.Part, opt Options) []model.AngleMatch {
	slots := collectSlots(instances, partsByID)
	sampled, _ := sampleSlots(slots, opt.SampleCap, opt.Seed)

	buckets := make(map[int][]slot)
	for _, s := range sampled {
		k := bucketKey(s.angle, opt.Tolerance)
		buckets[k] = append(buckets[k], s)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var matches []model.AngleMatch
	useAdjacent := opt.Tolerance > 0
	for _, k := range keys {
		list := buckets[k]
		matches = append(matches, pairWithin(list, opt)...)
		if useAdjacent {
			if next, ok := buckets[k+1]; ok {
				matches = append(matches, pairAcross(list, next, opt)...)
			}
		}
	}

	matchCountByRef := make(map[model.PartInstanceRef]int)
	for _, m := range matches {
		matchCountByRef[m.Part1Ref]++
		matchCountByRef[m.Part2Ref]++
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Exact != b.Exact {
			return a.Exact
		}
		if a.AngleDiff != b.AngleDiff {
			return a.AngleDiff < b.AngleDiff
		}
		ra := min(matchCountByRef[a.Part1Ref], matchCountByRef[a.Part2Ref])
		rb := min(matchCountByRef[b.Part1Ref], matchCountByRef[b.Part2Ref])
		return ra < rb
	})

	return matches
}

func pairWithin(list []slot, opt Options) []model.AngleMatch {
	var out []model.AngleMatch
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if m, ok := buildMatch(list[i], list[j], opt); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func pairAcross(a, b []slot, opt Options) []model.AngleMatch {
	var out []model.AngleMatch
	for _, s1 := range a {
		for _, s2 := range b {
			if m, ok := buildMatch(s1, s2, opt); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func buildMatch(s1, s2 slot, opt Options) (model.AngleMatch, bool) {
	if s1.ref == s2.ref {
		return model.AngleMatch{}, false
	}
	if !CanShare(s1.angle, s2.angle, opt.Tolerance) {
		return model.AngleMatch{}, false
	}
	rep := (s1.angle + s2.angle) / 2
	diff := math.Abs(s1.angle - s2.angle)
	thickness := math.Min(model.EffectiveThickness(s1.part, s1.angle), model.EffectiveThickness(s2.part, s2.angle))
	savings := SavingsFor(rep, thickness, opt.SavingsCap)
	score := savings - anglePenalty(diff)

	return model.AngleMatch{
		Part1Ref:            s1.ref,
		Slot1:                s1.corner,
		Part2Ref:             s2.ref,
		Slot2:                s2.corner,
		RepresentativeAngle: rep,
		Exact:                diff == 0,
		AngleDiff:            diff,
		Savings:              savings,
		Score:                score,
	}, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Potential is the cheap, side-effect-free probe used by the facade to
// decide whether Chain Builder Phase B is worthwhile (spec.md §4.1).
type Potential struct {
	MatchCount             int
	TotalPotentialSavings  float64
	AverageSavingsPerMatch float64
}

// EvaluatePotential estimates match volume and aggregate savings without
// building full AngleMatch records for a huge population. It pairs the
// same seeded sample as FindMatches, then scales the match count and
// savings up by n/len(sample) (FindMatches itself applies no scale-up).
func EvaluatePotential(instances []model.PartInstance, partsByID map[string]model.Part, opt Options) Potential {
	slots := collectSlots(instances, partsByID)
	sampled, scale := sampleSlots(slots, opt.SampleCap, opt.Seed)

	buckets := make(map[int][]slot)
	for _, s := range sampled {
		k := bucketKey(s.angle, opt.Tolerance)
		buckets[k] = append(buckets[k], s)
	}

	var count int
	var totalSavings float64
	useAdjacent := opt.Tolerance > 0
	for k, list := range buckets {
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if m, ok := buildMatch(list[i], list[j], opt); ok {
					count++
					totalSavings += m.Savings
				}
			}
		}
		if useAdjacent {
			if next, ok := buckets[k+1]; ok {
				for _, s1 := range list {
					for _, s2 := range next {
						if m, ok := buildMatch(s1, s2, opt); ok {
							count++
							totalSavings += m.Savings
						}
					}
				}
			}
		}
	}

	totalSavings *= scale
	count = int(float64(count) * scale)

	avg := 0.0
	if count > 0 {
		avg = totalSavings / float64(count)
	}

	return Potential{
		MatchCount:             count,
		TotalPotentialSavings:  totalSavings,
		AverageSavingsPerMatch: avg,
	}
}
