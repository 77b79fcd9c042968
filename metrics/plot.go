package metrics

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// SaveCurves draws one line per curve and writes the image to path.
// The format follows the file extension (.png, .svg, .pdf).
func SaveCurves(path, title, yLabel string, curves ...*Curve) error {
	if len(curves) == 0 {
		return errors.NewInputError("SaveCurves", errors.ErrEmptyData, "no curves to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "round"
	p.Y.Label.Text = yLabel

	lines := make([]interface{}, 0, 2*len(curves))
	for _, c := range curves {
		lines = append(lines, c.Name, c.XYs())
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return errors.Wrap(err, "failed to add curves")
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}
