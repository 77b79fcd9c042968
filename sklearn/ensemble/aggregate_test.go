package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/metrics"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
)

// stump predicts class 1 when the feature is set and class 0 otherwise.
func stump(feature, nFeatures int) *tree.Tree {
	return &tree.Tree{
		Nodes: []tree.Node{
			{Feature: feature, Left: 1, Right: 2},
			{Feature: -1, Left: -1, Right: -1, Depth: 1, Value: 1, Distribution: []float64{0, 1}},
			{Feature: -1, Left: -1, Right: -1, Depth: 1, Value: 0, Distribution: []float64{1, 0}},
		},
		Criterion: tree.Gini,
		Classes:   []float64{0, 1},
		NFeatures: nFeatures,
	}
}

func predictRow(t *testing.T, ens *Ensemble, row []float64, upTo int) float64 {
	t.Helper()
	v, err := ens.PredictRow(row, upTo)
	require.NoError(t, err)
	return v
}

// leafTree is a single-leaf tree with a fixed distribution.
func leafTree(classes, dist []float64, value float64, nFeatures int) *tree.Tree {
	return &tree.Tree{
		Nodes:     []tree.Node{{Feature: -1, Left: -1, Right: -1, Value: value, Distribution: dist}},
		Criterion: tree.Gini,
		Classes:   classes,
		NFeatures: nFeatures,
	}
}

func TestHardVoteMatchesMajorityBound(t *testing.T) {
	const (
		voters = 11
		p      = 0.25
	)

	ens := &Ensemble{
		Mode:        Bagging,
		Aggregation: HardVote,
		Classes:     []float64{0, 1},
		NFeatures:   voters,
	}
	for j := 0; j < voters; j++ {
		ens.Members = append(ens.Members, Member{Tree: stump(j, voters), Coefficient: 1.0 / voters, Round: j})
	}

	// 全 2^11 通りの正誤パターンを列挙する。bit j が 1 なら voter j は正解 (ラベル 1)。
	n := 1 << voters
	X := mat.NewDense(n, voters, nil)
	prob := make([]float64, n)
	for mask := 0; mask < n; mask++ {
		prob[mask] = 1
		for j := 0; j < voters; j++ {
			if mask&(1<<j) != 0 {
				X.Set(mask, j, 1)
				prob[mask] *= 1 - p
			} else {
				prob[mask] *= p
			}
		}
	}

	pred, err := ens.Predict(X, 0)
	require.NoError(t, err)

	wrong := 0.0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) != 1 {
			wrong += prob[i]
		}
	}

	bound, err := metrics.MajorityVoteError(voters, p)
	require.NoError(t, err)
	assert.InDelta(t, bound, wrong, 1e-12)
	assert.InDelta(t, 0.0343275070190, wrong, 1e-10)
	assert.Less(t, wrong, p)
}

func TestHardVoteTieGoesToLowestClass(t *testing.T) {
	classes := []float64{2, 5}
	high := leafTree(classes, []float64{0, 1}, 5, 1)
	low := leafTree(classes, []float64{1, 0}, 2, 1)

	ens := &Ensemble{
		Mode:        Bagging,
		Aggregation: HardVote,
		Classes:     classes,
		NFeatures:   1,
		Members: []Member{
			{Tree: high, Coefficient: 0.5},
			{Tree: low, Coefficient: 0.5, Round: 1},
		},
	}

	row := []float64{0}
	assert.Equal(t, 5.0, predictRow(t, ens, row, 1))
	assert.Equal(t, 2.0, predictRow(t, ens, row, 2))
	assert.Equal(t, 2.0, predictRow(t, ens, row, 0))
}

func TestSoftVoteUsesDistributions(t *testing.T) {
	classes := []float64{0, 1}
	ens := &Ensemble{
		Mode:        Bagging,
		Aggregation: SoftVote,
		Classes:     classes,
		NFeatures:   1,
		Members: []Member{
			{Tree: leafTree(classes, []float64{0.4, 0.6}, 1, 1), Coefficient: 0.5},
			{Tree: leafTree(classes, []float64{0.4, 0.6}, 1, 1), Coefficient: 0.5},
			{Tree: leafTree(classes, []float64{1, 0}, 0, 1), Coefficient: 0.5},
		},
	}

	// hard vote: 2 対 1 でクラス 1、soft vote: 平均 [0.6, 0.4] でクラス 0
	assert.Equal(t, 0.0, predictRow(t, ens, []float64{1}, 0))
	ens.Aggregation = HardVote
	assert.Equal(t, 1.0, predictRow(t, ens, []float64{1}, 0))

	proba, err := ens.PredictProba(mat.NewDense(1, 1, []float64{1}), 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, proba.At(0, 0), 1e-12)
	assert.InDelta(t, 0.4, proba.At(0, 1), 1e-12)
}

func TestWeightedSumSignDecoding(t *testing.T) {
	classes := []float64{-1, 1}
	ens := &Ensemble{
		Mode:        ReweightBoost,
		Aggregation: WeightedSum,
		Classes:     []float64{3, 7},
		NFeatures:   1,
		Members: []Member{
			{Tree: leafTree(classes, []float64{0, 1}, 1, 1), Coefficient: 0.8},
			{Tree: leafTree(classes, []float64{1, 0}, -1, 1), Coefficient: 0.8, Round: 1},
			{Tree: leafTree(classes, []float64{1, 0}, -1, 1), Coefficient: 0.3, Round: 2},
		},
	}
	row := []float64{0}

	assert.Equal(t, 7.0, predictRow(t, ens, row, 1))
	// 和がちょうど 0 のときは下位クラス
	assert.Equal(t, 3.0, predictRow(t, ens, row, 2))
	assert.Equal(t, 3.0, predictRow(t, ens, row, 3))

	df, err := ens.DecisionFunction(mat.NewDense(1, 1, []float64{0}), 0)
	require.NoError(t, err)
	assert.InDelta(t, -0.3, df.At(0, 0), 1e-12)
}

func TestStagedPredictMatchesPrefixes(t *testing.T) {
	X := randomBinary(11, 60, 6)
	y := majorityLabels(X)

	p := DefaultParams()
	p.RandomSeed = 5
	p.MaxDepth = 2
	ens, err := TrainEnsemble(X, y, RandomForest, 8, p)
	require.NoError(t, err)

	staged, err := ens.StagedPredict(X)
	require.NoError(t, err)
	require.Len(t, staged, 8)
	for j, s := range staged {
		pred, err := ens.Predict(X, j+1)
		require.NoError(t, err)
		assert.True(t, mat.Equal(pred, s), "stage %d", j+1)
	}

	all, err := ens.Predict(X, 0)
	require.NoError(t, err)
	assert.True(t, mat.Equal(all, staged[len(staged)-1]))

	beyond, err := ens.Predict(X, 100)
	require.NoError(t, err)
	assert.True(t, mat.Equal(all, beyond))
}

func TestBaggedRegressionPrefixIsMean(t *testing.T) {
	ens := &Ensemble{
		Mode:        Bagging,
		Aggregation: WeightedSum,
		NFeatures:   1,
		Members: []Member{
			{Tree: leafTree(nil, nil, 2, 1), Coefficient: 0.25},
			{Tree: leafTree(nil, nil, 4, 1), Coefficient: 0.25, Round: 1},
			{Tree: leafTree(nil, nil, 6, 1), Coefficient: 0.25, Round: 2},
			{Tree: leafTree(nil, nil, 8, 1), Coefficient: 0.25, Round: 3},
		},
	}
	row := []float64{1}
	assert.InDelta(t, 2.0, predictRow(t, ens, row, 1), 1e-12)
	assert.InDelta(t, 3.0, predictRow(t, ens, row, 2), 1e-12)
	assert.InDelta(t, 5.0, predictRow(t, ens, row, 0), 1e-12)

	_, err := ens.PredictProba(mat.NewDense(1, 1, []float64{1}), 0)
	assert.True(t, scierrors.IsConfigError(err))
}

func TestResidualPrefixIsPlainSum(t *testing.T) {
	ens := &Ensemble{
		Mode:        ResidualBoost,
		Aggregation: WeightedSum,
		NFeatures:   1,
		Members: []Member{
			{Tree: leafTree(nil, nil, 10, 1), Coefficient: 0.5},
			{Tree: leafTree(nil, nil, 4, 1), Coefficient: 0.5, Round: 1},
		},
	}
	assert.InDelta(t, 5.0, predictRow(t, ens, []float64{0}, 1), 1e-12)
	assert.InDelta(t, 7.0, predictRow(t, ens, []float64{0}, 2), 1e-12)
}

func TestPredictInputErrors(t *testing.T) {
	empty := &Ensemble{Mode: Bagging, Aggregation: HardVote, Classes: []float64{0, 1}, NFeatures: 2}
	_, err := empty.Predict(mat.NewDense(1, 2, nil), 0)
	var nf *scierrors.NotFittedError
	assert.True(t, scierrors.As(err, &nf))

	ens := &Ensemble{
		Mode:        Bagging,
		Aggregation: HardVote,
		Classes:     []float64{0, 1},
		NFeatures:   2,
		Members:     []Member{{Tree: stump(0, 2), Coefficient: 1}},
	}
	_, err = ens.Predict(mat.NewDense(1, 3, nil), 0)
	assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))

	_, err = ens.Predict(nil, 0)
	assert.True(t, scierrors.IsInputError(err))
}

func TestPredictRowErrors(t *testing.T) {
	empty := &Ensemble{Mode: Bagging, Aggregation: HardVote, Classes: []float64{3, 7}, NFeatures: 1}
	_, err := empty.PredictRow([]float64{1}, 0)
	var nf *scierrors.NotFittedError
	require.True(t, scierrors.As(err, &nf))
	assert.Equal(t, "PredictRow", nf.Method)

	ens := &Ensemble{
		Mode:        Bagging,
		Aggregation: HardVote,
		Classes:     []float64{0, 1},
		NFeatures:   2,
		Members:     []Member{{Tree: stump(1, 2), Coefficient: 1}},
	}
	for _, row := range [][]float64{nil, {1}, {1, 1, 1}} {
		_, err := ens.PredictRow(row, 0)
		assert.True(t, scierrors.IsInputError(err), "row %v", row)
		assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))
	}
	assert.Equal(t, 1.0, predictRow(t, ens, []float64{0, 1}, 0))

	// a member tree narrower than the ensemble surfaces as an error, not a panic
	ens.Members = append(ens.Members, Member{Tree: stump(0, 1), Coefficient: 1, Round: 1})
	_, err = ens.PredictRow([]float64{0, 1}, 0)
	assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))
	_, err = ens.Predict(mat.NewDense(3, 2, nil), 0)
	assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))
	_, err = ens.StagedPredict(mat.NewDense(3, 2, nil))
	assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))
	_, err = ens.DecisionFunction(mat.NewDense(3, 2, nil), 0)
	assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))
}

func TestPredictLargeInputInParallel(t *testing.T) {
	X := randomBinary(3, 2000, 5)
	y := majorityLabels(X)

	p := DefaultParams()
	p.RandomSeed = 9
	ens, err := TrainEnsemble(X, y, Bagging, 5, p)
	require.NoError(t, err)

	pred, err := ens.Predict(X, 0)
	require.NoError(t, err)
	row := make([]float64, 5)
	for i := 0; i < 2000; i += 97 {
		mat.Row(row, i, X)
		assert.Equal(t, predictRow(t, ens, row, 0), pred.At(i, 0))
	}
	assert.False(t, math.IsNaN(pred.At(0, 0)))
}
