package tree

import (
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// TrainTree grows a tree on every row of X with default node size limits.
// maxDepth 0 yields a single leaf; a negative depth is a ConfigError.
func TrainTree(X, y mat.Matrix, maxDepth int, criterion Criterion) (t *Tree, err error) {
	defer scierrors.Recover(&err, "TrainTree")

	d, err := NewDataset(X, y)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.MaxDepth = maxDepth
	cfg.Criterion = criterion
	return Grow(d, nil, nil, cfg)
}

// PredictTree follows row from the root to a leaf and returns its value.
// row must hold one value per feature of t.
func PredictTree(t *Tree, row []float64) (float64, error) {
	return t.PredictRow(row)
}

// BestSplit returns the feature with the strictly largest positive information
// gain over all rows of X. ok is false when no feature improves impurity.
func BestSplit(X, y mat.Matrix, criterion Criterion) (s Split, ok bool, err error) {
	d, err := NewDataset(X, y)
	if err != nil {
		return Split{}, false, err
	}
	sp, rows, err := newRootSplitter(d, criterion)
	if err != nil {
		return Split{}, false, err
	}
	s, ok = sp.best(rows, indices(d.nFeatures), sp.stats(rows))
	return s, ok, nil
}

// InformationGain returns the gain of splitting all rows of X on feature j.
// Splits leaving one side empty have gain 0.
func InformationGain(X, y mat.Matrix, j int, criterion Criterion) (float64, error) {
	d, err := NewDataset(X, y)
	if err != nil {
		return 0, err
	}
	if j < 0 || j >= d.nFeatures {
		return 0, scierrors.NewConfigError("feature", "feature index out of range", j)
	}
	sp, rows, err := newRootSplitter(d, criterion)
	if err != nil {
		return 0, err
	}
	parent := sp.stats(rows)
	left := newNodeStats(criterion, sp.nClasses)
	right := newNodeStats(criterion, sp.nClasses)
	return sp.gain(rows, j, parent.impurity(criterion), parent.weight, &left, &right), nil
}

func newRootSplitter(d *Dataset, criterion Criterion) (*splitter, []int, error) {
	if err := (Config{Criterion: criterion}).Validate(d.nFeatures); err != nil {
		return nil, nil, err
	}
	sp := &splitter{data: d, criterion: criterion, minLeaf: 1, workers: 1}
	if criterion.IsClassification() {
		sp.nClasses = len(d.classes)
		sp.classIdx = make([]int, d.nRows)
		for i, y := range d.y {
			sp.classIdx[i] = classIndex(d.classes, y)
		}
	}
	return sp, indices(d.nRows), nil
}

// indices returns 0..n-1.
func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
