// Package engine is the facade that orchestrates the Angle Matcher, Chain
// Builder and Placer into a single Optimize call (spec.md §6): validate
// inputs, decide whether mixed-chain building is worthwhile, build chains, pack
// them, and return the canonical PlacementResult.
package engine

import (
	"context"

	"github.com/piwi3910/barchain/internal/chainbuilder"
	"github.com/piwi3910/barchain/internal/matcher"
	"github.com/piwi3910/barchain/internal/model"
	"github.com/piwi3910/barchain/internal/placer"
)

// Engine runs the full optimization pipeline for a given Config.
type Engine struct {
	cfg model.Config
}

// New creates an Engine bound to the given configuration.
func New(cfg model.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Optimize validates parts/stocks/constraints, matches candidate shared
// cuts, builds chains, and packs everything onto stock, reporting progress
// through the optional callback and honoring ctx cancellation.
func (e *Engine) Optimize(ctx context.Context, parts []model.Part, stocks []model.Stock, progress placer.ProgressFunc) (model.PlacementResult, error) {
	if err := model.ValidateAll(parts, stocks, e.cfg); err != nil {
		return model.PlacementResult{}, err
	}

	reportProgress(progress, 0, "validating")

	instances := model.ExpandInstances(parts)
	partsByID := model.PartByID(parts)

	matcherOpt := matcher.Options{
		Tolerance:  e.cfg.Constraints.AngleTolerance,
		SavingsCap: e.cfg.SavingsCap,
		SampleCap:  e.cfg.SampleCapForMatching,
		Seed:       e.cfg.RandomSeed,
	}

	reportProgress(progress, 5, "evaluating")
	potential := matcher.EvaluatePotential(instances, partsByID, matcherOpt)

	var matches []model.AngleMatch
	runPhaseB := e.cfg.PrioritizeMixedChains && potential.MatchCount > 0
	if runPhaseB {
		reportProgress(progress, 10, "matching")
		matches = matcher.FindMatches(instances, partsByID, matcherOpt)
	}

	reportProgress(progress, 20, "chaining")
	built := chainbuilder.Build(parts, partsByID, instances, matches, chainbuilder.Options{
		Tolerance:       e.cfg.Constraints.AngleTolerance,
		SavingsCap:      e.cfg.SavingsCap,
		CuttingLoss:     e.cfg.Constraints.CuttingLoss,
		MaxChainLength:  e.cfg.MaxChainLength,
		PrioritizeMixed: runPhaseB,
	})

	pl := placer.New(placer.Options{
		Constraints:        e.cfg.Constraints,
		UnlimitedBatchSize: e.cfg.UnlimitedBatchSize,
		UnlimitedBatchCap:  e.cfg.UnlimitedBatchCap,
		MaxFallbackSwaps:   e.cfg.MaxFallbackSwaps,
		RemnantThreshold:   e.cfg.RemnantThreshold,
	})

	result := pl.Place(ctx, parts, stocks, built.Chains, built.Loose, func(percent int, stage string) {
		// Placement spans the remaining 80% of the reported range.
		reportProgress(progress, 20+percent*80/100, stage)
	})

	return result, nil
}

func reportProgress(progress placer.ProgressFunc, percent int, stage string) {
	if progress != nil {
		progress(percent, stage)
	}
}
