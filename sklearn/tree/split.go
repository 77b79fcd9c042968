package tree

import (
	"github.com/YuminosukeSato/scitree/core/parallel"
)

// minGain is the smallest improvement treated as a real split.
// Smaller values come from floating point noise in the impurity sums.
const minGain = 1e-12

// parallelSplitThreshold is the candidate count above which features are scored concurrently.
const parallelSplitThreshold = 64

// Split is the result of a split search.
type Split struct {
	Feature int
	Gain    float64
}

// splitter scores candidate features for a set of rows.
type splitter struct {
	data      *Dataset
	weights   []float64
	classIdx  []int
	nClasses  int
	criterion Criterion
	minLeaf   int
	workers   int
}

func (s *splitter) weight(row int) float64 {
	if s.weights == nil {
		return 1
	}
	return s.weights[row]
}

func (s *splitter) stats(rows []int) nodeStats {
	st := newNodeStats(s.criterion, s.nClasses)
	for _, r := range rows {
		st.add(s.data.y[r], s.class(r), s.weight(r))
	}
	return st
}

func (s *splitter) class(row int) int {
	if s.classIdx == nil {
		return 0
	}
	return s.classIdx[row]
}

// gain computes the information gain of splitting rows on feature j.
// left and right are scratch buffers reused across calls.
func (s *splitter) gain(rows []int, j int, parentImpurity, parentWeight float64, left, right *nodeStats) float64 {
	left.reset()
	right.reset()
	for _, r := range rows {
		if s.data.Value(r, j) == 1 {
			left.add(s.data.y[r], s.class(r), s.weight(r))
		} else {
			right.add(s.data.y[r], s.class(r), s.weight(r))
		}
	}
	if left.count == 0 || right.count == 0 {
		return 0
	}
	if left.count < s.minLeaf || right.count < s.minLeaf {
		return 0
	}
	children := (left.weight/parentWeight)*left.impurity(s.criterion) +
		(right.weight/parentWeight)*right.impurity(s.criterion)
	g := parentImpurity - children
	if g < minGain {
		return 0
	}
	return g
}

// best returns the candidate with the strictly largest positive gain.
// candidates must be in ascending order so ties resolve to the lowest index.
func (s *splitter) best(rows []int, candidates []int, parent nodeStats) (Split, bool) {
	parentImpurity := parent.impurity(s.criterion)
	gains := make([]float64, len(candidates))

	score := func(start, end int) {
		left := newNodeStats(s.criterion, s.nClasses)
		right := newNodeStats(s.criterion, s.nClasses)
		for k := start; k < end; k++ {
			gains[k] = s.gain(rows, candidates[k], parentImpurity, parent.weight, &left, &right)
		}
	}
	if s.workers > 1 && len(candidates) >= parallelSplitThreshold {
		parallel.ParallelizeWorkers(len(candidates), s.workers, score)
	} else {
		score(0, len(candidates))
	}

	best := Split{Feature: -1}
	for k, g := range gains {
		if g > best.Gain {
			best = Split{Feature: candidates[k], Gain: g}
		}
	}
	return best, best.Feature >= 0
}

// partition splits rows by the value of feature j, keeping relative order.
func partition(d *Dataset, rows []int, j int) (left, right []int) {
	left = make([]int, 0, len(rows))
	right = make([]int, 0, len(rows))
	for _, r := range rows {
		if d.Value(r, j) == 1 {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	return left, right
}
