package ensemble

import (
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/parallel"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// parallelPredictThreshold is the row count above which prediction fans out.
const parallelPredictThreshold = 512

// accumulator folds member outputs for one row in commit order.
type accumulator struct {
	e       *Ensemble
	votes   []float64
	sum     float64
	coefSum float64
}

func newAccumulator(e *Ensemble) *accumulator {
	a := &accumulator{e: e}
	if e.IsClassifier() {
		a.votes = make([]float64, len(e.Classes))
	}
	return a
}

func (a *accumulator) reset() {
	a.sum = 0
	a.coefSum = 0
	for i := range a.votes {
		a.votes[i] = 0
	}
}

func (a *accumulator) add(m *Member, row []float64) error {
	leaf, err := m.Tree.Leaf(row)
	if err != nil {
		return err
	}
	a.coefSum += m.Coefficient
	switch a.e.Aggregation {
	case HardVote:
		// the leaf arg max is the member's label, lowest code on ties
		a.votes[floats.MaxIdx(leaf.Distribution)] += m.Coefficient
	case SoftVote:
		floats.AddScaled(a.votes, m.Coefficient, leaf.Distribution)
	default:
		a.sum += m.Coefficient * leaf.Value
	}
	return nil
}

// value returns the aggregated prediction of the members added so far.
func (a *accumulator) value() float64 {
	switch a.e.Aggregation {
	case HardVote, SoftVote:
		return a.e.Classes[floats.MaxIdx(a.votes)]
	}
	if a.e.IsClassifier() {
		// sign decoding of ±1 members; an exact 0 goes to the lower code
		if a.sum > 0 {
			return a.e.Classes[1]
		}
		return a.e.Classes[0]
	}
	if a.e.Mode.bagged() {
		// mean of the prefix, equal to the weighted sum for the full ensemble
		return scierrors.SafeDivide(a.sum, a.coefSum)
	}
	return a.sum
}

// prefix clamps upTo to the committed member count. Values <= 0 select every member.
func (e *Ensemble) prefix(upTo int) int {
	if upTo <= 0 || upTo > len(e.Members) {
		return len(e.Members)
	}
	return upTo
}

func (e *Ensemble) checkInput(op string, X mat.Matrix) (int, error) {
	if len(e.Members) == 0 {
		return 0, scierrors.NewNotFittedError("Ensemble", op)
	}
	if X == nil {
		return 0, scierrors.NewInputError(op, scierrors.ErrEmptyData, "X must not be nil")
	}
	rows, cols := X.Dims()
	if cols != e.NFeatures {
		return 0, scierrors.NewDimensionError(op, e.NFeatures, cols, 1)
	}
	return rows, nil
}

// forEachRow runs fn over row ranges, in parallel for large inputs.
// A range stops at its first error; one of the errors is returned.
func (e *Ensemble) forEachRow(X mat.Matrix, rows int, fn func(i int, row []float64, acc *accumulator) error) error {
	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.ParallelizeWithThreshold(rows, parallelPredictThreshold, func(start, end int) {
		row := make([]float64, e.NFeatures)
		acc := newAccumulator(e)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			acc.reset()
			if err := fn(i, row, acc); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
		}
	})
	return firstErr
}

// PredictRow aggregates the first upTo members (all when upTo <= 0) for a
// single row of NFeatures values.
func (e *Ensemble) PredictRow(row []float64, upTo int) (float64, error) {
	if len(e.Members) == 0 {
		return 0, scierrors.NewNotFittedError("Ensemble", "PredictRow")
	}
	if len(row) != e.NFeatures {
		return 0, scierrors.NewDimensionError("PredictRow", e.NFeatures, len(row), 1)
	}
	acc := newAccumulator(e)
	for i := 0; i < e.prefix(upTo); i++ {
		if err := acc.add(&e.Members[i], row); err != nil {
			return 0, err
		}
	}
	return acc.value(), nil
}

// Predict aggregates the first upTo members (all when upTo <= 0) for every
// row of X and returns an n×1 matrix.
func (e *Ensemble) Predict(X mat.Matrix, upTo int) (*mat.Dense, error) {
	rows, err := e.checkInput("Predict", X)
	if err != nil {
		return nil, err
	}
	k := e.prefix(upTo)
	out := mat.NewDense(rows, 1, nil)
	err = e.forEachRow(X, rows, func(i int, row []float64, acc *accumulator) error {
		for j := 0; j < k; j++ {
			if err := acc.add(&e.Members[j], row); err != nil {
				return err
			}
		}
		out.Set(i, 0, acc.value())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PredictProba returns the coefficient-weighted mean of member leaf
// distributions, one column per class, whatever the aggregation.
func (e *Ensemble) PredictProba(X mat.Matrix, upTo int) (*mat.Dense, error) {
	if !e.IsClassifier() {
		return nil, scierrors.NewConfigError("aggregation", "class probabilities need a classification ensemble", e.Mode.String())
	}
	rows, err := e.checkInput("PredictProba", X)
	if err != nil {
		return nil, err
	}
	k := e.prefix(upTo)
	out := mat.NewDense(rows, len(e.Classes), nil)
	err = e.forEachRow(X, rows, func(i int, row []float64, acc *accumulator) error {
		for j := 0; j < k; j++ {
			m := &e.Members[j]
			dist, err := m.Tree.PredictProbaRow(row)
			if err != nil {
				return err
			}
			acc.coefSum += m.Coefficient
			floats.AddScaled(acc.votes, m.Coefficient, dist)
		}
		p := make([]float64, len(e.Classes))
		copy(p, acc.votes)
		if acc.coefSum > 0 {
			floats.Scale(1/acc.coefSum, p)
		}
		out.SetRow(i, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecisionFunction returns the raw weighted sum Σ coefficient·output of the
// first upTo members. For reweight boosting its sign is the predicted class.
func (e *Ensemble) DecisionFunction(X mat.Matrix, upTo int) (*mat.Dense, error) {
	rows, err := e.checkInput("DecisionFunction", X)
	if err != nil {
		return nil, err
	}
	k := e.prefix(upTo)
	out := mat.NewDense(rows, 1, nil)
	err = e.forEachRow(X, rows, func(i int, row []float64, _ *accumulator) error {
		s := 0.0
		for j := 0; j < k; j++ {
			v, err := e.Members[j].Predict(row)
			if err != nil {
				return err
			}
			s += e.Members[j].Coefficient * v
		}
		out.Set(i, 0, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StagedPredict returns one n×1 prediction matrix per member prefix:
// element j holds the prediction of the first j+1 members.
// Each row is folded once, so the cost is that of a single full Predict.
func (e *Ensemble) StagedPredict(X mat.Matrix) ([]*mat.Dense, error) {
	rows, err := e.checkInput("StagedPredict", X)
	if err != nil {
		return nil, err
	}
	staged := make([]*mat.Dense, len(e.Members))
	for j := range staged {
		staged[j] = mat.NewDense(rows, 1, nil)
	}
	err = e.forEachRow(X, rows, func(i int, row []float64, acc *accumulator) error {
		for j := range e.Members {
			if err := acc.add(&e.Members[j], row); err != nil {
				return err
			}
			staged[j].Set(i, 0, acc.value())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return staged, nil
}
