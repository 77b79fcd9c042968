package metrics

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/plotter"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// ScoreFunc scores a column of predictions against the targets.
type ScoreFunc func(yTrue, yPred mat.Matrix) (float64, error)

// Curve is a metric evaluated after each ensemble round.
// Values[i] is the score of the first i+1 members.
type Curve struct {
	Name   string
	Values []float64
}

// StagedCurve scores every staged prediction against yTrue.
func StagedCurve(name string, yTrue mat.Matrix, staged []mat.Matrix, score ScoreFunc) (*Curve, error) {
	if len(staged) == 0 {
		return nil, errors.NewInputError("StagedCurve", errors.ErrEmptyData, "no staged predictions")
	}
	c := &Curve{Name: name, Values: make([]float64, len(staged))}
	for i, pred := range staged {
		v, err := score(yTrue, pred)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %d", i+1)
		}
		c.Values[i] = v
	}
	return c, nil
}

// Len returns the number of rounds in the curve.
func (c *Curve) Len() int {
	return len(c.Values)
}

// Last returns the score of the full ensemble.
func (c *Curve) Last() float64 {
	return c.Values[len(c.Values)-1]
}

// NonIncreasing reports whether each value is at most the previous one plus tol.
func (c *Curve) NonIncreasing(tol float64) bool {
	for i := 1; i < len(c.Values); i++ {
		if c.Values[i] > c.Values[i-1]+tol {
			return false
		}
	}
	return true
}

// XYs converts the curve into plot points with 1-based round numbers on X.
func (c *Curve) XYs() plotter.XYs {
	pts := make(plotter.XYs, len(c.Values))
	for i, v := range c.Values {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	return pts
}
