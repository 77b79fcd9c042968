package tree

import (
	"math"
	"strings"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Criterion selects the impurity function used to score splits.
type Criterion int

const (
	// Gini impurity, Σ p_c (1 - p_c).
	Gini Criterion = iota
	// Entropy is Shannon entropy in bits, -Σ p_c log2(p_c).
	Entropy
	// Variance is the weighted variance of real-valued targets (regression).
	Variance
)

// String returns the scikit-learn name of the criterion.
func (c Criterion) String() string {
	switch c {
	case Gini:
		return "gini"
	case Entropy:
		return "entropy"
	case Variance:
		return "variance"
	default:
		return "unknown"
	}
}

// IsClassification reports whether the criterion scores class labels.
func (c Criterion) IsClassification() bool {
	return c == Gini || c == Entropy
}

// ParseCriterion converts a criterion name into a Criterion.
// "squared_error" and "mse" are accepted as aliases of "variance".
func ParseCriterion(name string) (Criterion, error) {
	switch strings.ToLower(name) {
	case "gini":
		return Gini, nil
	case "entropy":
		return Entropy, nil
	case "variance", "squared_error", "mse":
		return Variance, nil
	default:
		return Gini, scierrors.NewConfigError("criterion", "must be one of gini, entropy, variance", name)
	}
}

// GiniImpurity computes Σ p_c (1 - p_c) from per-class weight totals.
// Classes with zero weight contribute nothing.
func GiniImpurity(classWeights []float64) float64 {
	total := 0.0
	for _, w := range classWeights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	g := 0.0
	for _, w := range classWeights {
		if w > 0 {
			p := w / total
			g += p * (1 - p)
		}
	}
	return g
}

// EntropyImpurity computes -Σ p_c log2(p_c) from per-class weight totals.
// Empty classes are skipped, so log2(0) is never evaluated.
func EntropyImpurity(classWeights []float64) float64 {
	total := 0.0
	for _, w := range classWeights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	e := 0.0
	for _, w := range classWeights {
		if w > 0 && w < total {
			p := w / total
			e -= p * math.Log2(p)
		}
	}
	return e
}

// varianceImpurity returns the weighted variance given Σw, Σw·y and Σw·y².
func varianceImpurity(weight, sum, sumSq float64) float64 {
	if weight <= 0 {
		return 0
	}
	mean := sum / weight
	v := sumSq/weight - mean*mean
	if v < 0 {
		return 0
	}
	return v
}

// Impurity computes the impurity of a non-empty label multiset with unit weights.
func Impurity(labels []float64, c Criterion) (float64, error) {
	if len(labels) == 0 {
		return 0, scierrors.NewInputError("Impurity", scierrors.ErrEmptyData, "label set is empty")
	}
	classes := uniqueSorted(labels)
	s := newNodeStats(c, len(classes))
	for _, y := range labels {
		s.add(y, classIndex(classes, y), 1)
	}
	return s.impurity(c), nil
}

// nodeStats accumulates the weighted label distribution of a set of rows.
type nodeStats struct {
	count  int
	weight float64

	// classification
	classWeights []float64

	// regression
	sum, sumSq float64
}

func newNodeStats(c Criterion, nClasses int) nodeStats {
	if c.IsClassification() {
		return nodeStats{classWeights: make([]float64, nClasses)}
	}
	return nodeStats{}
}

func (s *nodeStats) reset() {
	s.count = 0
	s.weight = 0
	s.sum = 0
	s.sumSq = 0
	for i := range s.classWeights {
		s.classWeights[i] = 0
	}
}

func (s *nodeStats) add(y float64, class int, w float64) {
	s.count++
	s.weight += w
	if s.classWeights != nil {
		s.classWeights[class] += w
		return
	}
	s.sum += w * y
	s.sumSq += w * y * y
}

func (s *nodeStats) impurity(c Criterion) float64 {
	switch c {
	case Gini:
		return GiniImpurity(s.classWeights)
	case Entropy:
		return EntropyImpurity(s.classWeights)
	default:
		return varianceImpurity(s.weight, s.sum, s.sumSq)
	}
}
