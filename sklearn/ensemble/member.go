package ensemble

import (
	"slices"

	"github.com/YuminosukeSato/scitree/sklearn/tree"
)

// Member is one committed tree of an ensemble.
type Member struct {
	Tree *tree.Tree
	// Coefficient is the weight of the member in the aggregation:
	// 1/rounds for bagging, the learning rate for residual boosting and
	// alpha for reweight boosting.
	Coefficient float64
	// Round is the 0-based training round that produced the member.
	Round int

	// Seed is the round seed the resamples were drawn from.
	Seed uint64
	// Rows is the bootstrap sample, nil when the member saw every row.
	Rows []int
	// Features is the random-forest column subset, nil when every column was eligible.
	Features []int

	// NRows and NFeatures are the population sizes the resamples were drawn from.
	NRows     int
	NFeatures int

	// ErrorRate is the weighted training error of a reweight-boosting member.
	ErrorRate float64
}

// Predict returns the member tree's output for one row.
func (m *Member) Predict(row []float64) (float64, error) {
	return m.Tree.PredictRow(row)
}

// Reproduce re-draws the member's resamples from Seed and reports whether
// they equal the stored Rows and Features.
func (m *Member) Reproduce() (rows, features []int, ok bool) {
	if m.Rows != nil {
		var err error
		if rows, err = Bootstrap(m.NRows, len(m.Rows), m.Seed); err != nil {
			return nil, nil, false
		}
	}
	if m.Features != nil {
		var err error
		if features, err = FeatureSubset(m.NFeatures, len(m.Features), m.Seed); err != nil {
			return nil, nil, false
		}
	}
	return rows, features, slices.Equal(rows, m.Rows) && slices.Equal(features, m.Features)
}
