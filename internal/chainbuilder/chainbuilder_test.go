package chainbuilder

import (
	"testing"

	"github.com/piwi3910/barchain/internal/matcher"
	"github.com/piwi3910/barchain/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOpts() Options {
	return Options{Tolerance: 5, SavingsCap: 50, CuttingLoss: 3, MaxChainLength: 20, PrioritizeMixed: true}
}

func TestBuildSamePartChainsConsumesAllInstances(t *testing.T) {
	p := model.NewPart(1000, model.CornerAngles{TL: 33, TR: 33}, 4)
	parts := []model.Part{p}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	res := Build(parts, partsByID, instances, nil, defaultOpts())

	require.Len(t, res.Chains, 1)
	assert.Equal(t, model.StructureLinear, res.Chains[0].Structure)
	assert.Equal(t, 4, res.Chains[0].Len())
	assert.Empty(t, res.Loose)
	assert.Greater(t, res.Chains[0].TotalSavings, 0.0)
}

func TestBuildSamePartChainsSplitsOnMaxChainLength(t *testing.T) {
	p := model.NewPart(1000, model.CornerAngles{TL: 45}, 7)
	parts := []model.Part{p}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	opt := defaultOpts()
	opt.MaxChainLength = 3

	res := Build(parts, partsByID, instances, nil, opt)

	// ceil(7/3) = 3 chains: sizes 3,3,1 -> the trailing singleton stays loose.
	require.Len(t, res.Chains, 2)
	total := 0
	for _, c := range res.Chains {
		total += c.Len()
	}
	assert.Equal(t, 6, total)
	assert.Len(t, res.Loose, 1)
}

func TestBuildSquarePartsProduceNoChains(t *testing.T) {
	p := model.NewPart(1000, model.CornerAngles{}, 4)
	parts := []model.Part{p}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	res := Build(parts, partsByID, instances, nil, defaultOpts())

	assert.Empty(t, res.Chains)
	assert.Len(t, res.Loose, 4)
}

func TestBuildMixedChainsJoinsDifferentParts(t *testing.T) {
	a := model.NewPart(1000, model.CornerAngles{TL: 33}, 1)
	b := model.NewPart(1200, model.CornerAngles{TR: 33}, 1)
	a.ID, b.ID = "A", "B"
	parts := []model.Part{a, b}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	matches := matcher.FindMatches(instances, partsByID, matcher.Options{Tolerance: 5, SavingsCap: 50, SampleCap: 500, Seed: 42})
	require.NotEmpty(t, matches)

	res := Build(parts, partsByID, instances, matches, defaultOpts())

	require.Len(t, res.Chains, 1)
	assert.Equal(t, model.StructureMixed, res.Chains[0].Structure)
	assert.Equal(t, 2, res.Chains[0].Len())
	assert.Empty(t, res.Loose)
}

func TestBuildMixedChainsDisabledLeavesInstancesLoose(t *testing.T) {
	a := model.NewPart(1000, model.CornerAngles{TL: 33}, 1)
	b := model.NewPart(1200, model.CornerAngles{TR: 33}, 1)
	a.ID, b.ID = "A", "B"
	parts := []model.Part{a, b}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	matches := matcher.FindMatches(instances, partsByID, matcher.Options{Tolerance: 5, SavingsCap: 50, SampleCap: 500, Seed: 42})

	opt := defaultOpts()
	opt.PrioritizeMixed = false
	res := Build(parts, partsByID, instances, matches, opt)

	assert.Empty(t, res.Chains)
	assert.Len(t, res.Loose, 2)
}

func TestBuildMixedChainExtendsAtEitherEnd(t *testing.T) {
	a := model.NewPart(1000, model.CornerAngles{TR: 33}, 1)
	b := model.NewPart(1100, model.CornerAngles{TL: 33, TR: 33}, 1)
	c := model.NewPart(1200, model.CornerAngles{TL: 33}, 1)
	a.ID, b.ID, c.ID = "A", "B", "C"
	parts := []model.Part{a, b, c}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	matches := matcher.FindMatches(instances, partsByID, matcher.Options{Tolerance: 5, SavingsCap: 50, SampleCap: 500, Seed: 42})
	res := Build(parts, partsByID, instances, matches, defaultOpts())

	require.Len(t, res.Chains, 1)
	assert.Equal(t, 3, res.Chains[0].Len())
	assert.Empty(t, res.Loose)
}

func TestBuildSamePartChainsAlternatesFlips(t *testing.T) {
	// Every instance shares the same TL corner, so joining two of them
	// always needs one flipped to present the opposite side: flips must
	// alternate member to member, never all-none and never all-flipped.
	p := model.NewPart(1000, model.CornerAngles{TL: 33}, 4)
	parts := []model.Part{p}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	res := Build(parts, partsByID, instances, nil, defaultOpts())

	require.Len(t, res.Chains, 1)
	chain := res.Chains[0]
	require.Len(t, chain.Instances, 4)
	for i, ref := range chain.Instances {
		want := model.FlipNone
		if i%2 == 1 {
			want = model.FlipHorizontal
		}
		assert.Equal(t, want, chain.Flips[ref], "instance %d flip state", i)
	}
}

func TestBuildMixedChainConnectionSidesMatchCorners(t *testing.T) {
	// a's TR corner sits on SideR; b's TL corner sits on SideL, already
	// opposite with a matching row, so this pairing needs no flip at all.
	a := model.NewPart(1000, model.CornerAngles{TR: 33}, 1)
	b := model.NewPart(1200, model.CornerAngles{TL: 33}, 1)
	a.ID, b.ID = "A", "B"
	parts := []model.Part{a, b}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	matches := matcher.FindMatches(instances, partsByID, matcher.Options{Tolerance: 5, SavingsCap: 50, SampleCap: 500, Seed: 42})
	require.NotEmpty(t, matches)

	res := Build(parts, partsByID, instances, matches, defaultOpts())

	require.Len(t, res.Chains, 1)
	chain := res.Chains[0]
	require.Len(t, chain.Connections, 1)
	conn := chain.Connections[0]
	assert.NotEqual(t, conn.FromSide, conn.ToSide)
	assert.Empty(t, chain.Flips)
}

func TestBuildUniquenessAcrossPhases(t *testing.T) {
	a := model.NewPart(1000, model.CornerAngles{TL: 33, TR: 33}, 3)
	b := model.NewPart(1200, model.CornerAngles{TR: 33}, 1)
	a.ID, b.ID = "A", "B"
	parts := []model.Part{a, b}
	partsByID := model.PartByID(parts)
	instances := model.ExpandInstances(parts)

	matches := matcher.FindMatches(instances, partsByID, matcher.Options{Tolerance: 5, SavingsCap: 50, SampleCap: 500, Seed: 42})
	res := Build(parts, partsByID, instances, matches, defaultOpts())

	seen := make(map[model.PartInstanceRef]int)
	for _, c := range res.Chains {
		for _, ref := range c.Instances {
			seen[ref]++
		}
	}
	for _, ref := range res.Loose {
		seen[ref]++
	}
	for ref, n := range seen {
		assert.Equal(t, 1, n, "instance %v appeared %d times", ref, n)
	}
	assert.Len(t, seen, 4)
}
