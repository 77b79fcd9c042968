package ensemble

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/scitree/sklearn/tree"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// degenerateTolerance bounds the scaled member output treated as zero.
const degenerateTolerance = 1e-12

// residualState is carried from one residual-boosting round to the next.
// Round r fits residuals[i] = y[i] - Σ_{j<r} rate·member_j(x_i).
type residualState struct {
	residuals []float64
	// rss is the residual sum of squares.
	rss float64
}

func newResidualState(y []float64) residualState {
	return residualState{residuals: y, rss: floats.Dot(y, y)}
}

// advance returns the state after adding a member with the given in-sample predictions.
func (st residualState) advance(pred []float64, rate float64) residualState {
	next := make([]float64, len(st.residuals))
	copy(next, st.residuals)
	floats.AddScaled(next, -rate, pred)
	return residualState{residuals: next, rss: floats.Dot(next, next)}
}

func trainResidual(ctx context.Context, d *tree.Dataset, rounds int, s settings, p Params, logger log.Logger) (*Ensemble, error) {
	ens := newEnsemble(s, nil, d.Features(), p)
	logger = logger.With(log.LearningRateKey, s.learningRate)

	st := newResidualState(d.Labels())
	for r := 0; r < rounds; r++ {
		if err := cancelled(ctx, ens, rounds); err != nil {
			return ens, err
		}

		rd, err := d.WithLabels(st.residuals)
		if err != nil {
			return ens, err
		}
		t, err := tree.Grow(rd, nil, nil, s.tree)
		if err != nil {
			return ens, err
		}
		pred := t.PredictDataset(rd)

		if s.learningRate*maxAbs(pred) <= degenerateTolerance {
			derr := scierrors.NewDegenerateRoundError(s.mode.String(), r,
				"member predicts zero on every row", 0)
			if ens.degenerate(derr, s.policy, logger) {
				return ens, derr
			}
			continue
		}

		next := st.advance(pred, s.learningRate)
		if err := scierrors.CheckScalar("residual sum of squares", next.rss, r); err != nil {
			return ens, err
		}
		if err := ens.commit(Member{
			Tree:        t,
			Coefficient: s.learningRate,
			Round:       r,
			NRows:       d.Rows(),
			NFeatures:   d.Features(),
		}); err != nil {
			return ens, err
		}
		st = next

		logger.Debug("Round completed",
			log.RoundKey, r,
			log.LossKey, st.rss/float64(d.Rows()),
			log.TreeDepthKey, t.Depth(),
		)
	}
	return ens, nil
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
