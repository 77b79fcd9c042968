package tree

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Dataset is a validated binary feature matrix with its labels.
// Feature values are stored row-major as bytes. A Dataset is immutable once
// built and may be shared by concurrent Grow calls.
type Dataset struct {
	x         []uint8
	y         []float64
	nRows     int
	nFeatures int
	classes   []float64
}

// NewDataset validates X and y and packs them into a Dataset.
// y may be an n×1 matrix or a 1×n row vector.
func NewDataset(X, y mat.Matrix) (*Dataset, error) {
	if X == nil || y == nil {
		return nil, scierrors.NewInputError("NewDataset", scierrors.ErrEmptyData, "X and y must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, scierrors.NewInputError("NewDataset", scierrors.ErrEmptyData, "X has shape (%d, %d)", rows, cols)
	}
	labels, err := labelsOf("NewDataset", y)
	if err != nil {
		return nil, err
	}
	if len(labels) != rows {
		return nil, scierrors.NewDimensionError("NewDataset", rows, len(labels), 0)
	}

	d := &Dataset{
		x:         make([]uint8, rows*cols),
		y:         labels,
		nRows:     rows,
		nFeatures: cols,
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := X.At(i, j)
			switch v {
			case 0:
			case 1:
				d.x[i*cols+j] = 1
			default:
				return nil, scierrors.NewInputError("NewDataset", scierrors.ErrNonBinaryFeature,
					"X[%d][%d] = %v", i, j, v)
			}
		}
	}
	d.classes = uniqueSorted(labels)
	return d, nil
}

// WithLabels returns a Dataset sharing the feature matrix of d with new labels.
func (d *Dataset) WithLabels(y []float64) (*Dataset, error) {
	if len(y) != d.nRows {
		return nil, scierrors.NewDimensionError("Dataset.WithLabels", d.nRows, len(y), 0)
	}
	labels := make([]float64, len(y))
	copy(labels, y)
	return &Dataset{
		x:         d.x,
		y:         labels,
		nRows:     d.nRows,
		nFeatures: d.nFeatures,
		classes:   uniqueSorted(labels),
	}, nil
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int { return d.nRows }

// Features returns the number of feature columns.
func (d *Dataset) Features() int { return d.nFeatures }

// Label returns the label of row i.
func (d *Dataset) Label(i int) float64 { return d.y[i] }

// Labels returns a copy of all labels.
func (d *Dataset) Labels() []float64 {
	out := make([]float64, len(d.y))
	copy(out, d.y)
	return out
}

// Classes returns the distinct labels in ascending order.
func (d *Dataset) Classes() []float64 {
	out := make([]float64, len(d.classes))
	copy(out, d.classes)
	return out
}

// Value returns feature j of row i.
func (d *Dataset) Value(i, j int) uint8 { return d.x[i*d.nFeatures+j] }

// Row returns row i as float64 values.
func (d *Dataset) Row(i int) []float64 {
	out := make([]float64, d.nFeatures)
	for j := range out {
		out[j] = float64(d.x[i*d.nFeatures+j])
	}
	return out
}

// labelsOf flattens a column or row vector into a slice.
func labelsOf(op string, y mat.Matrix) ([]float64, error) {
	r, c := y.Dims()
	switch {
	case r == 0 || c == 0:
		return nil, scierrors.NewInputError(op, scierrors.ErrEmptyData, "y has shape (%d, %d)", r, c)
	case c == 1:
		out := make([]float64, r)
		for i := range out {
			out[i] = y.At(i, 0)
		}
		return out, nil
	case r == 1:
		out := make([]float64, c)
		for i := range out {
			out[i] = y.At(0, i)
		}
		return out, nil
	default:
		return nil, scierrors.NewInputError(op, scierrors.ErrColumnMismatch, "y must be a vector, got shape (%d, %d)", r, c)
	}
}

func uniqueSorted(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// classIndex returns the position of y in the sorted class list, or -1.
func classIndex(classes []float64, y float64) int {
	i := sort.SearchFloat64s(classes, y)
	if i < len(classes) && classes[i] == y {
		return i
	}
	return -1
}
