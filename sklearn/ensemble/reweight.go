package ensemble

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/scitree/sklearn/tree"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

const (
	// errorRateFloor keeps clamped error rates inside (0, 0.5).
	errorRateFloor = 1e-10
	// minSampleWeight keeps weights positive after repeated exp(-alpha) shrinking.
	minSampleWeight = 1e-300
	// chanceTolerance absorbs rounding in weighted errors that are 0.5 in exact arithmetic.
	chanceTolerance = 1e-12
)

// weightState is carried from one reweight-boosting round to the next.
// The weights always sum to 1.
type weightState struct {
	weights []float64
}

func uniformWeights(n int) weightState {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return weightState{weights: w}
}

// errorRate is the total weight of rows where h disagrees with y.
func (st weightState) errorRate(y, h []float64) float64 {
	eps := 0.0
	for i, w := range st.weights {
		if h[i] != y[i] {
			eps += w
		}
	}
	return eps
}

// reweight returns w_i·exp(-alpha·y_i·h_i) renormalised to sum to 1.
func (st weightState) reweight(y, h []float64, alpha float64, round int) (weightState, error) {
	next := make([]float64, len(st.weights))
	for i, w := range st.weights {
		next[i] = math.Max(w*math.Exp(-alpha*y[i]*h[i]), minSampleWeight)
	}
	sum := floats.Sum(next)
	if err := scierrors.CheckScalar("sample weight normaliser", sum, round); err != nil {
		return st, err
	}
	floats.Scale(1/sum, next)
	return weightState{weights: next}, nil
}

// encodeBinary maps the lower class to -1 and the higher class to +1.
func encodeBinary(y, classes []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		if v == classes[1] {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

func trainReweight(ctx context.Context, d *tree.Dataset, rounds int, s settings, p Params, logger log.Logger) (*Ensemble, error) {
	classes := d.Classes()
	ens := newEnsemble(s, classes, d.Features(), p)

	y := encodeBinary(d.Labels(), classes)
	ed, err := d.WithLabels(y)
	if err != nil {
		return ens, err
	}
	cfg := s.tree
	cfg.Classes = []float64{-1, 1}

	st := uniformWeights(d.Rows())
	for r := 0; r < rounds; r++ {
		if err := cancelled(ctx, ens, rounds); err != nil {
			return ens, err
		}

		t, err := tree.Grow(ed, nil, st.weights, cfg)
		if err != nil {
			return ens, err
		}
		h := t.PredictDataset(ed)
		eps := st.errorRate(y, h)

		if eps <= 0 || eps >= 0.5-chanceTolerance {
			reason := "weak learner is no better than chance"
			if eps <= 0 {
				reason = "weak learner has zero weighted error"
			}
			derr := scierrors.NewDegenerateRoundError(s.mode.String(), r, reason, eps)
			if ens.degenerate(derr, s.policy, logger) {
				return ens, derr
			}
			if s.policy == SkipRound {
				continue
			}
			eps = scierrors.ClipValue(eps, errorRateFloor, 0.5-errorRateFloor)
		}

		alpha := 0.5 * math.Log((1-eps)/eps)
		if err := scierrors.CheckScalar("member coefficient", alpha, r); err != nil {
			return ens, err
		}
		next, err := st.reweight(y, h, alpha, r)
		if err != nil {
			return ens, err
		}
		if err := ens.commit(Member{
			Tree:        t,
			Coefficient: alpha,
			Round:       r,
			NRows:       d.Rows(),
			NFeatures:   d.Features(),
			ErrorRate:   eps,
		}); err != nil {
			return ens, err
		}
		st = next

		logger.Debug("Round completed",
			log.RoundKey, r,
			log.ErrorRateKey, eps,
			log.CoefficientKey, alpha,
		)
	}
	return ens, nil
}
