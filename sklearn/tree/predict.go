package tree

import (
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Leaf returns the leaf reached by row. Values other than 1 follow the 0 branch.
func (t *Tree) Leaf(row []float64) (*Node, error) {
	if err := t.checkRow("Tree.Leaf", row); err != nil {
		return nil, err
	}
	return t.route(row), nil
}

// PredictRow returns the leaf value for a single feature row.
func (t *Tree) PredictRow(row []float64) (float64, error) {
	if err := t.checkRow("Tree.PredictRow", row); err != nil {
		return 0, err
	}
	return t.route(row).Value, nil
}

// PredictProbaRow returns the class distribution of the leaf reached by row.
// The returned slice is owned by the tree and must not be modified.
func (t *Tree) PredictProbaRow(row []float64) ([]float64, error) {
	if err := t.checkRow("Tree.PredictProbaRow", row); err != nil {
		return nil, err
	}
	return t.route(row).Distribution, nil
}

// route walks from the root to a leaf. row must hold NFeatures values.
func (t *Tree) route(row []float64) *Node {
	n := &t.Nodes[0]
	for !n.IsLeaf() {
		if row[n.Feature] == 1 {
			n = &t.Nodes[n.Left]
		} else {
			n = &t.Nodes[n.Right]
		}
	}
	return n
}

func (t *Tree) checkRow(op string, row []float64) error {
	if t == nil || len(t.Nodes) == 0 {
		return scierrors.NewNotFittedError("Tree", op)
	}
	if len(row) != t.NFeatures {
		return scierrors.NewDimensionError(op, t.NFeatures, len(row), 1)
	}
	return nil
}

// Predict returns an n×1 matrix of predictions.
func (t *Tree) Predict(X mat.Matrix) (*mat.Dense, error) {
	rows, err := t.checkInput("Tree.Predict", X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, t.NFeatures)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		out.Set(i, 0, t.route(row).Value)
	}
	return out, nil
}

// PredictProba returns an n×len(Classes) matrix of leaf class distributions.
func (t *Tree) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if !t.IsClassifier() {
		return nil, scierrors.NewConfigError("criterion", "class probabilities need a classification criterion", t.Criterion.String())
	}
	rows, err := t.checkInput("Tree.PredictProba", X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(rows, len(t.Classes), nil)
	row := make([]float64, t.NFeatures)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		out.SetRow(i, t.route(row).Distribution)
	}
	return out, nil
}

func (t *Tree) checkInput(op string, X mat.Matrix) (int, error) {
	if t == nil || len(t.Nodes) == 0 {
		return 0, scierrors.NewNotFittedError("Tree", op)
	}
	if X == nil {
		return 0, scierrors.NewInputError(op, scierrors.ErrEmptyData, "X must not be nil")
	}
	rows, cols := X.Dims()
	if cols != t.NFeatures {
		return 0, scierrors.NewDimensionError(op, t.NFeatures, cols, 1)
	}
	return rows, nil
}

// PredictDataset returns the prediction for every row of d without copying rows.
func (t *Tree) PredictDataset(d *Dataset) []float64 {
	out := make([]float64, d.Rows())
	for i := range out {
		n := &t.Nodes[0]
		for !n.IsLeaf() {
			if d.Value(i, n.Feature) == 1 {
				n = &t.Nodes[n.Left]
			} else {
				n = &t.Nodes[n.Right]
			}
		}
		out[i] = n.Value
	}
	return out
}
