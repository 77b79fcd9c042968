package ensemble

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/sklearn/tree"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// TrainEnsemble trains rounds members on X and y in the given mode.
//
// InputError and ConfigError are returned before any tree is grown. Under the
// StopEarly policy a degenerate boosting round ends training: the ensemble
// built so far is returned together with a *DegenerateRoundError.
func TrainEnsemble(X, y mat.Matrix, mode Mode, rounds int, params Params) (*Ensemble, error) {
	return TrainEnsembleContext(context.Background(), X, y, mode, rounds, params)
}

// TrainEnsembleContext is TrainEnsemble with cancellation. The context is
// checked between rounds; on cancellation the members committed so far are
// returned together with the context error.
func TrainEnsembleContext(ctx context.Context, X, y mat.Matrix, mode Mode, rounds int, params Params) (ens *Ensemble, err error) {
	defer scierrors.Recover(&err, "TrainEnsemble")

	if rounds <= 0 {
		return nil, scierrors.NewConfigError("rounds", "must be > 0", rounds)
	}
	if X == nil {
		return nil, scierrors.NewInputError("TrainEnsemble", scierrors.ErrEmptyData, "X must not be nil")
	}
	_, cols := X.Dims()
	s, err := params.resolve(mode, cols)
	if err != nil {
		return nil, err
	}
	d, err := tree.NewDataset(X, y)
	if err != nil {
		return nil, err
	}
	if mode == ReweightBoost && len(d.Classes()) != 2 {
		return nil, scierrors.NewInputError("TrainEnsemble", scierrors.ErrClassCount,
			"reweight boosting needs exactly 2 classes, got %d", len(d.Classes()))
	}

	logger := log.GetLoggerWithName("ensemble.trainer").With(
		log.ModeKey, mode.String(),
		log.RoundsKey, rounds,
	)
	logger.Debug("Ensemble training started",
		log.SamplesKey, d.Rows(),
		log.FeaturesKey, d.Features(),
		log.AggregationKey, s.aggregation.String(),
		log.CriterionKey, s.tree.Criterion.String(),
		log.MaxDepthKey, s.tree.MaxDepth,
		log.RandomSeedKey, s.seed,
	)
	start := time.Now()

	switch mode {
	case ResidualBoost:
		ens, err = trainResidual(ctx, d, rounds, s, params, logger)
	case ReweightBoost:
		ens, err = trainReweight(ctx, d, rounds, s, params, logger)
	default:
		ens, err = trainBagged(ctx, d, rounds, s, params, logger)
	}
	ens.freeze()
	if err == nil && ens.NMembers() == 0 && len(ens.Degenerate) > 0 {
		// every round was skipped
		last := ens.Degenerate[len(ens.Degenerate)-1]
		err = scierrors.WithStack(&last)
	}

	logger.Info("Ensemble training finished",
		log.MembersKey, ens.NMembers(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return ens, err
}

// degenerate records a degenerate round and applies the policy.
// It reports whether training must stop.
func (e *Ensemble) degenerate(err error, policy DegeneratePolicy, logger log.Logger) bool {
	e.recordDegenerate(err)
	if policy == StopEarly {
		logger.Warn("Degenerate round, stopping early", err, log.MembersKey, e.NMembers())
		return true
	}
	scierrors.Warn(err)
	return false
}

func cancelled(ctx context.Context, ens *Ensemble, rounds int) error {
	if err := ctx.Err(); err != nil {
		return scierrors.Wrapf(err, "training cancelled after %d of %d rounds", ens.NMembers(), rounds)
	}
	return nil
}
