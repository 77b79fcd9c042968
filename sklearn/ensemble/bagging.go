package ensemble

import (
	"context"

	"github.com/YuminosukeSato/scitree/core/parallel"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// trainBagged trains independent members on per-round resamples.
// Rounds run on s.workers goroutines and are committed in round order, so the
// result does not depend on the worker count.
func trainBagged(ctx context.Context, d *tree.Dataset, rounds int, s settings, p Params, logger log.Logger) (*Ensemble, error) {
	var classes []float64
	if !s.regression {
		classes = d.Classes()
	}
	ens := newEnsemble(s, classes, d.Features(), p)

	cfg := s.tree
	cfg.Classes = classes
	size := bootstrapSize(d.Rows(), s.bootstrapFraction)
	coef := 1 / float64(rounds)

	members := make([]*Member, rounds)
	errs := make([]error, rounds)
	parallel.ParallelizeWorkers(rounds, s.workers, func(start, end int) {
		for r := start; r < end; r++ {
			if ctx.Err() != nil {
				return
			}
			members[r], errs[r] = baggedRound(d, r, size, coef, cfg, s)
		}
	})

	for r := 0; r < rounds; r++ {
		if errs[r] != nil {
			return ens, errs[r]
		}
		if members[r] == nil {
			break
		}
		if err := ens.commit(*members[r]); err != nil {
			return ens, err
		}
		logger.Debug("Round completed",
			log.RoundKey, r,
			log.TreeDepthKey, members[r].Tree.Depth(),
			log.TreeLeavesKey, members[r].Tree.NLeaves(),
		)
	}
	if ens.NMembers() < rounds {
		return ens, cancelled(ctx, ens, rounds)
	}
	return ens, nil
}

func baggedRound(d *tree.Dataset, round, size int, coef float64, cfg tree.Config, s settings) (*Member, error) {
	m := &Member{
		Coefficient: coef,
		Round:       round,
		Seed:        RoundSeed(s.seed, round),
		NRows:       d.Rows(),
		NFeatures:   d.Features(),
	}
	var err error
	if s.bootstrap {
		if m.Rows, err = Bootstrap(d.Rows(), size, m.Seed); err != nil {
			return nil, err
		}
	}
	if s.mode == RandomForest {
		if m.Features, err = FeatureSubset(d.Features(), s.subsetSize, m.Seed); err != nil {
			return nil, err
		}
		cfg.FeatureSubset = m.Features
	}
	if m.Tree, err = tree.Grow(d, m.Rows, nil, cfg); err != nil {
		return nil, err
	}
	return m, nil
}
