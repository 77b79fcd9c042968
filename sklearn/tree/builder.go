package tree

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// DefaultMaxDepth is the depth limit used when none is given.
const DefaultMaxDepth = 10

// Config controls how Grow builds a tree.
type Config struct {
	MaxDepth  int
	Criterion Criterion

	// MinSamplesSplit is the smallest node size that may be split.
	MinSamplesSplit int
	// MinSamplesLeaf is the smallest allowed child size.
	MinSamplesLeaf int

	// FeatureSubset restricts split candidates to these columns. nil means all.
	FeatureSubset []int
	// Classes fixes the class list so that trees grown on resamples share
	// the same Distribution layout. nil means the distinct labels of the Dataset.
	Classes []float64

	// Workers bounds the goroutines used to score candidate features.
	Workers int
}

// DefaultConfig returns a Gini configuration with DefaultMaxDepth.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        DefaultMaxDepth,
		Criterion:       Gini,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Workers:         1,
	}
}

// Validate checks the configuration against a feature count.
func (c Config) Validate(nFeatures int) error {
	if c.MaxDepth < 0 {
		return scierrors.NewConfigError("max_depth", "must be >= 0", c.MaxDepth)
	}
	if c.Criterion < Gini || c.Criterion > Variance {
		return scierrors.NewConfigError("criterion", "unknown criterion", int(c.Criterion))
	}
	if c.MinSamplesSplit < 0 {
		return scierrors.NewConfigError("min_samples_split", "must be >= 0", c.MinSamplesSplit)
	}
	if c.MinSamplesLeaf < 0 {
		return scierrors.NewConfigError("min_samples_leaf", "must be >= 0", c.MinSamplesLeaf)
	}
	for _, j := range c.FeatureSubset {
		if j < 0 || j >= nFeatures {
			return scierrors.NewConfigError("feature_subset", "feature index out of range", j)
		}
	}
	return nil
}

// Grow builds a tree on the given rows of d.
// rows may contain duplicates (bootstrap samples); nil means every row.
// weights is indexed by Dataset row and must be positive; nil means unit weights.
func Grow(d *Dataset, rows []int, weights []float64, cfg Config) (*Tree, error) {
	if d == nil || d.nRows == 0 {
		return nil, scierrors.NewInputError("Grow", scierrors.ErrEmptyData, "dataset is empty")
	}
	if err := cfg.Validate(d.nFeatures); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = indices(d.nRows)
	}
	if len(rows) == 0 {
		return nil, scierrors.NewInputError("Grow", scierrors.ErrEmptyData, "no rows selected")
	}
	if weights != nil {
		if len(weights) != d.nRows {
			return nil, scierrors.NewDimensionError("Grow", d.nRows, len(weights), 0)
		}
		if floats.Min(weights) <= 0 {
			return nil, scierrors.NewInputError("Grow", nil, "sample weights must be positive")
		}
	}

	b := &builder{
		data: d,
		tree: &Tree{
			Criterion:       cfg.Criterion,
			MaxDepth:        cfg.MaxDepth,
			MinSamplesSplit: cfg.MinSamplesSplit,
			MinSamplesLeaf:  cfg.MinSamplesLeaf,
			NFeatures:       d.nFeatures,
		},
		cfg: cfg,
	}

	b.candidates = cfg.FeatureSubset
	if b.candidates == nil {
		b.candidates = indices(d.nFeatures)
	} else {
		b.candidates = append([]int(nil), cfg.FeatureSubset...)
		sort.Ints(b.candidates)
		b.tree.FeatureSubset = append([]int(nil), b.candidates...)
	}

	b.split = &splitter{
		data:      d,
		weights:   weights,
		criterion: cfg.Criterion,
		minLeaf:   cfg.MinSamplesLeaf,
		workers:   cfg.Workers,
	}
	if cfg.Criterion.IsClassification() {
		classes := cfg.Classes
		if classes == nil {
			classes = d.classes
		} else {
			classes = uniqueSorted(classes)
		}
		idx := make([]int, d.nRows)
		for i, y := range d.y {
			idx[i] = classIndex(classes, y)
			if idx[i] < 0 {
				return nil, scierrors.NewInputError("Grow", scierrors.ErrClassCount,
					"label %v of row %d is not among the configured classes", y, i)
			}
		}
		b.tree.Classes = append([]float64(nil), classes...)
		b.split.classIdx = idx
		b.split.nClasses = len(classes)
	}

	b.grow(rows, 0)
	return b.tree, nil
}

type builder struct {
	data       *Dataset
	tree       *Tree
	cfg        Config
	split      *splitter
	candidates []int
}

// grow appends the node for rows and its subtree to the arena and returns its index.
func (b *builder) grow(rows []int, depth int) int {
	idx := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{Feature: -1, Left: -1, Right: -1, Depth: depth})

	st := b.split.stats(rows)
	b.fillNode(&b.tree.Nodes[idx], rows, st)

	if b.pure(rows) || depth >= b.cfg.MaxDepth || len(rows) < b.cfg.MinSamplesSplit {
		b.keepLabels(&b.tree.Nodes[idx], rows)
		return idx
	}
	s, ok := b.split.best(rows, b.candidates, st)
	if !ok {
		b.keepLabels(&b.tree.Nodes[idx], rows)
		return idx
	}

	leftRows, rightRows := partition(b.data, rows, s.Feature)
	left := b.grow(leftRows, depth+1)
	right := b.grow(rightRows, depth+1)

	// the arena may have been reallocated by the recursive calls
	n := &b.tree.Nodes[idx]
	n.Feature = s.Feature
	n.Gain = s.Gain
	n.Left = left
	n.Right = right
	return idx
}

func (b *builder) pure(rows []int) bool {
	first := b.data.y[rows[0]]
	for _, r := range rows[1:] {
		if b.data.y[r] != first {
			return false
		}
	}
	return true
}

func (b *builder) fillNode(n *Node, rows []int, st nodeStats) {
	n.NSamples = len(rows)
	n.WeightedNSamples = st.weight
	n.Impurity = st.impurity(b.cfg.Criterion)

	if st.classWeights != nil {
		n.Distribution = make([]float64, len(st.classWeights))
		copy(n.Distribution, st.classWeights)
		floats.Scale(1/st.weight, n.Distribution)
		// floats.MaxIdx returns the first maximum, which is the lowest class code
		n.Value = b.tree.Classes[floats.MaxIdx(st.classWeights)]
		return
	}
	// weighted mean; st.weight > 0 because rows is non-empty and weights are positive
	n.Value = st.sum / st.weight
}

// keepLabels stores the label multiset on a leaf. Internal nodes keep none.
func (b *builder) keepLabels(n *Node, rows []int) {
	n.Labels = make([]float64, len(rows))
	for i, r := range rows {
		n.Labels[i] = b.data.y[r]
	}
}
