// Package chainbuilder implements the Chain Builder (spec.md §4.2): it
// converts an unordered set of candidate AngleMatches into a set of
// Chains, preferring same-part chains before mixing part types, while
// guaranteeing every PartInstance appears in at most one chain.
package chainbuilder

import (
	"sort"

	"github.com/piwi3910/barchain/internal/matcher"
	"github.com/piwi3910/barchain/internal/model"
)

// Options bundles the chain builder's tuning knobs, sourced from model.Config.
type Options struct {
	Tolerance       float64
	SavingsCap      float64
	CuttingLoss     float64
	MaxChainLength  int
	PrioritizeMixed bool
}

// Result is the output of a chain-build pass.
type Result struct {
	Chains []*model.Chain
	Loose  []model.PartInstanceRef
}

// Build runs Phase A (same-part chains) and, if opt.PrioritizeMixed,
// Phase B (greedy mixed-chain extension) over the given matches.
func Build(parts []model.Part, partsByID map[string]model.Part, instances []model.PartInstance, matches []model.AngleMatch, opt Options) Result {
	used := make(map[model.PartInstanceRef]bool, len(instances))
	var chains []*model.Chain

	chains = append(chains, buildSamePartChains(parts, partsByID, instances, used, opt)...)

	if opt.PrioritizeMixed {
		chains = append(chains, buildMixedChains(matches, partsByID, used, opt)...)
	}

	var loose []model.PartInstanceRef
	for _, inst := range instances {
		ref := inst.Ref()
		if !used[ref] {
			loose = append(loose, ref)
		}
	}

	return Result{Chains: chains, Loose: loose}
}

// buildSamePartChains implements Phase A: for every part type with
// quantity >= 2 and at least one non-square corner angle, chain its
// instances together at the part's modal shared angle.
func buildSamePartChains(parts []model.Part, partsByID map[string]model.Part, instances []model.PartInstance, used map[model.PartInstanceRef]bool, opt Options) []*model.Chain {
	instancesByPart := make(map[string][]model.PartInstanceRef)
	for _, inst := range instances {
		ref := inst.Ref()
		instancesByPart[ref.PartID] = append(instancesByPart[ref.PartID], ref)
	}

	var chains []*model.Chain
	for _, p := range parts {
		if p.Quantity < 2 {
			continue
		}
		angle, corner, ok := modalSharedAngle(p, opt)
		if !ok {
			continue
		}
		thickness := model.EffectiveThickness(p, angle)
		savings := matcher.SavingsFor(angle, thickness, opt.SavingsCap)
		if savings <= 0 {
			continue
		}

		// Joining two instances at the same physical corner always needs
		// one of them flipped to present the opposite side (see
		// model.ResolveOrientation); since every instance of this part
		// shares the same corner, that flip alternates member to member.
		_, altFlip := model.ResolveOrientation(corner.Side(), corner.Row(), corner)

		refs := instancesByPart[p.ID]
		maxLen := opt.MaxChainLength
		if maxLen < 2 {
			maxLen = 2
		}

		for start := 0; start < len(refs); start += maxLen {
			end := start + maxLen
			if end > len(refs) {
				end = len(refs)
			}
			group := refs[start:end]
			if len(group) < 2 {
				// A lone leftover instance stays loose rather than forming
				// a degenerate one-member chain.
				continue
			}

			chain := model.NewChain(model.StructureLinear)
			chain.Instances = append(chain.Instances, group...)

			flipAt := func(i int) model.FlipState {
				if i%2 == 1 {
					return altFlip
				}
				return model.FlipNone
			}
			sideAt := func(i int) model.Side {
				return model.EffectiveSide(corner, flipAt(i))
			}

			for i := 0; i < len(group)-1; i++ {
				a, b := group[i], group[i+1]
				conn := model.Connection{SharedAngle: angle, Savings: savings}
				if sideAt(i) == model.SideR {
					conn.FromRef, conn.FromSide = a, model.SideR
					conn.ToRef, conn.ToSide = b, model.SideL
				} else {
					conn.FromRef, conn.FromSide = b, model.SideR
					conn.ToRef, conn.ToSide = a, model.SideL
				}
				chain.Connections = append(chain.Connections, conn)
				chain.TotalLength += model.ConnectionGap(savings, opt.CuttingLoss)
				chain.TotalSavings += savings
			}
			for i, ref := range group {
				chain.TotalLength += float64(p.Length)
				used[ref] = true
				if f := flipAt(i); f != model.FlipNone {
					chain.Flips[ref] = f
				}
			}
			chains = append(chains, chain)
		}
	}
	return chains
}

// modalSharedAngle picks the most frequent non-square corner angle on the
// part's 4 corner slots, breaking ties by the larger resulting savings, and
// reports which corner carries it (a part has at most one non-zero corner
// per side, per model.CornerAngles, so this also fixes the connection's
// orientation for buildSamePartChains).
func modalSharedAngle(p model.Part, opt Options) (float64, model.Corner, bool) {
	nz := p.Angles.NonZero()
	if len(nz) == 0 {
		return 0, 0, false
	}

	counts := make(map[float64]int)
	for _, c := range nz {
		if c.Angle > 0 && c.Angle < 90 {
			counts[c.Angle]++
		}
	}
	if len(counts) == 0 {
		return 0, 0, false
	}

	type candidate struct {
		angle   float64
		corner  model.Corner
		count   int
		savings float64
	}
	var candidates []candidate
	seen := make(map[float64]bool)
	for _, c := range nz {
		if c.Angle <= 0 || c.Angle >= 90 || seen[c.Angle] {
			continue
		}
		seen[c.Angle] = true
		thickness := model.EffectiveThickness(p, c.Angle)
		candidates = append(candidates, candidate{
			angle:   c.Angle,
			corner:  c.Corner,
			count:   counts[c.Angle],
			savings: matcher.SavingsFor(c.Angle, thickness, opt.SavingsCap),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].savings > candidates[j].savings
	})
	return candidates[0].angle, candidates[0].corner, true
}

// chainEnd tracks one open endpoint of a still-growable Phase B chain.
type chainEnd struct {
	chain *model.Chain
	side  model.Side
}

// buildMixedChains implements Phase B: greedy chain extension over
// PartInstances not consumed by Phase A, seeding a new chain from the
// highest-score unused match and extending existing chains at their open
// endpoints. matches is assumed pre-sorted by descending score
// (matcher.FindMatches's contract).
func buildMixedChains(matches []model.AngleMatch, partsByID map[string]model.Part, used map[model.PartInstanceRef]bool, opt Options) []*model.Chain {
	endpoints := make(map[model.PartInstanceRef]chainEnd)
	var chains []*model.Chain

	maxLen := opt.MaxChainLength
	if maxLen < 2 {
		maxLen = 2
	}

	for _, m := range matches {
		if used[m.Part1Ref] && used[m.Part2Ref] {
			continue // both already committed: no room to extend without branching
		}

		switch {
		case !used[m.Part1Ref] && !used[m.Part2Ref]:
			chain := model.NewChain(model.StructureMixed)
			otherRef, otherCorner, _ := m.Other(m.Part1Ref)
			conn, otherSide, otherFlip := buildOrientedConnection(
				m.Part1Ref, m.Slot1.Side(), m.Slot1.Row(),
				otherRef, otherCorner, m.RepresentativeAngle, m.Savings)

			chain.Instances = append(chain.Instances, m.Part1Ref, otherRef)
			chain.Connections = append(chain.Connections, conn)
			chain.TotalSavings += m.Savings
			chain.TotalLength += float64(partLength(partsByID, m.Part1Ref)) +
				float64(partLength(partsByID, otherRef)) +
				model.ConnectionGap(m.Savings, opt.CuttingLoss)
			used[m.Part1Ref] = true
			used[otherRef] = true
			if otherFlip != model.FlipNone {
				chain.Flips[otherRef] = otherFlip
			}
			endpoints[m.Part1Ref] = chainEnd{chain: chain, side: model.OppositeSide(m.Slot1.Side())}
			endpoints[otherRef] = chainEnd{chain: chain, side: model.OppositeSide(otherSide)}
			chains = append(chains, chain)

		case used[m.Part1Ref] && !used[m.Part2Ref]:
			extendChainAt(endpoints, m.Part1Ref, m.Part2Ref, m, partsByID, opt, maxLen, used)

		case used[m.Part2Ref] && !used[m.Part1Ref]:
			extendChainAt(endpoints, m.Part2Ref, m.Part1Ref, m, partsByID, opt, maxLen, used)
		}
	}

	return chains
}

func partLength(partsByID map[string]model.Part, ref model.PartInstanceRef) int {
	return partsByID[ref.PartID].Length
}

// buildOrientedConnection joins refRef (whose matched corner already sits at
// refSide/refRow) to otherRef (whose matched corner is otherCorner, still in
// its nominal orientation), returning the Connection and the side/flip
// otherRef's instance must present to mate cleanly.
func buildOrientedConnection(refRef model.PartInstanceRef, refSide model.Side, refRow model.Row, otherRef model.PartInstanceRef, otherCorner model.Corner, angle, savings float64) (model.Connection, model.Side, model.FlipState) {
	otherSide, otherFlip := model.ResolveOrientation(refSide, refRow, otherCorner)
	conn := model.Connection{SharedAngle: angle, Savings: savings}
	if refSide == model.SideR {
		conn.FromRef, conn.FromSide = refRef, model.SideR
		conn.ToRef, conn.ToSide = otherRef, otherSide
	} else {
		conn.FromRef, conn.FromSide = otherRef, otherSide
		conn.ToRef, conn.ToSide = refRef, model.SideL
	}
	return conn, otherSide, otherFlip
}

// extendChainAt extends the chain open at anchor (if it still has room) by
// appending newRef at that endpoint, provided anchor is genuinely a live
// endpoint and newRef is not already committed elsewhere. The connection's
// orientation is resolved against anchor's already-fixed side/row (which
// accounts for any flip anchor itself carries), so a newly attached instance
// is flipped only if its nominal corner doesn't already present the
// required side and row.
func extendChainAt(endpoints map[model.PartInstanceRef]chainEnd, anchor, newRef model.PartInstanceRef, m model.AngleMatch, partsByID map[string]model.Part, opt Options, maxLen int, used map[model.PartInstanceRef]bool) {
	end, ok := endpoints[anchor]
	if !ok || used[newRef] {
		return
	}
	chain := end.chain
	if chain.Len() >= maxLen {
		return
	}

	otherRef, otherCorner, ok2 := m.Other(anchor)
	if !ok2 || otherRef != newRef {
		return
	}
	var anchorCorner model.Corner
	if anchor == m.Part1Ref {
		anchorCorner = m.Slot1
	} else {
		anchorCorner = m.Slot2
	}
	refRow := model.EffectiveRow(anchorCorner, chain.Flips[anchor])

	conn, otherSide, otherFlip := buildOrientedConnection(anchor, end.side, refRow, newRef, otherCorner, m.RepresentativeAngle, m.Savings)

	// Connections is kept in the same order as Instances (Connections[i]
	// always joins Instances[i] and Instances[i+1]), so a left extension
	// must prepend its connection, not append it.
	if end.side == model.SideR {
		chain.Instances = append(chain.Instances, newRef)
		chain.Connections = append(chain.Connections, conn)
	} else {
		chain.Instances = append([]model.PartInstanceRef{newRef}, chain.Instances...)
		chain.Connections = append([]model.Connection{conn}, chain.Connections...)
	}
	if otherFlip != model.FlipNone {
		chain.Flips[newRef] = otherFlip
	}
	endpoints[newRef] = chainEnd{chain: chain, side: model.OppositeSide(otherSide)}
	delete(endpoints, anchor)

	chain.TotalSavings += conn.Savings
	chain.TotalLength += float64(partLength(partsByID, newRef)) + model.ConnectionGap(conn.Savings, opt.CuttingLoss)
	used[newRef] = true
}
