// Package preprocessing は実数値の特徴量を決定木が扱える {0,1} 特徴量へ変換します。
package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// Strategy は列ごとのしきい値の決め方です。
type Strategy string

const (
	// StrategyThreshold は全列に同じ固定しきい値を使う
	StrategyThreshold Strategy = "threshold"
	// StrategyMean は学習データの列平均をしきい値にする
	StrategyMean Strategy = "mean"
	// StrategyMedian は学習データの列中央値をしきい値にする
	StrategyMedian Strategy = "median"
)

// Binarizer は各列をしきい値で 0/1 に変換する
// しきい値より大きい値が 1、それ以外が 0 になる
type Binarizer struct {
	state *model.StateManager

	// Thresholds は各特徴量のしきい値
	Thresholds []float64

	// NFeatures は特徴量の数
	NFeatures int

	// Strategy はしきい値の決め方 (デフォルト: mean)
	Strategy Strategy

	// Threshold は StrategyThreshold のときに使う固定値
	Threshold float64
}

// NewBinarizer は新しいBinarizerを作成する
//
// パラメータ:
//   - strategy: しきい値の決め方 (threshold, mean, median)
//   - threshold: StrategyThreshold のときの固定しきい値
//
// 使用例:
//
//	b := preprocessing.NewBinarizer(preprocessing.StrategyMedian, 0)
//	XBin, err := b.FitTransform(X)
//	clf := ensemble.NewRandomForestClassifier()
//	err = clf.Fit(XBin, y)
func NewBinarizer(strategy Strategy, threshold float64) *Binarizer {
	return &Binarizer{
		state:     model.NewStateManager(),
		Strategy:  strategy,
		Threshold: threshold,
	}
}

// NewBinarizerDefault は列平均をしきい値にするBinarizerを作成する
func NewBinarizerDefault() *Binarizer {
	return NewBinarizer(StrategyMean, 0)
}

// Fit は訓練データから各列のしきい値を計算する
//
// パラメータ:
//   - X: 訓練データ (n_samples × n_features の行列)
//
// 戻り値:
//   - error: 空データ、NaN を含む列、未知の strategy の場合
func (b *Binarizer) Fit(X mat.Matrix) error {
	if X == nil {
		return errors.NewInputError("Binarizer.Fit", errors.ErrEmptyData, "X must not be nil")
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewInputError("Binarizer.Fit", errors.ErrEmptyData, "got %d×%d matrix", r, c)
	}
	switch b.Strategy {
	case StrategyThreshold, StrategyMean, StrategyMedian:
	default:
		return errors.NewConfigError("strategy", "must be one of threshold, mean, median", string(b.Strategy))
	}

	thresholds := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		switch b.Strategy {
		case StrategyThreshold:
			thresholds[j] = b.Threshold
		case StrategyMean:
			thresholds[j] = stat.Mean(col, nil)
		case StrategyMedian:
			// Quantile はソート済みの入力を要求する
			sort.Float64s(col)
			thresholds[j] = stat.Quantile(0.5, stat.Empirical, col, nil)
		}
		if math.IsNaN(thresholds[j]) {
			return errors.NewInputError("Binarizer.Fit", nil, "column %d contains NaN", j)
		}
	}

	b.Thresholds = thresholds
	b.NFeatures = c
	b.state.SetFitted(c, r)
	return nil
}

// Transform は学習済みのしきい値でデータを 0/1 に変換する
//
// パラメータ:
//   - X: 変換するデータ
//
// 戻り値:
//   - *mat.Dense: {0,1} だけを含む行列
//   - error: 未学習、または列数が異なる場合
func (b *Binarizer) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := b.state.RequireFitted("Binarizer", "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := b.state.RequireFeatures("Binarizer.Transform", c); err != nil {
		return nil, err
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if X.At(i, j) > b.Thresholds[j] {
				result.Set(i, j, 1)
			}
		}
	}
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (b *Binarizer) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := b.Fit(X); err != nil {
		return nil, err
	}
	return b.Transform(X)
}

// IsFitted は Fit が完了しているかを返す
func (b *Binarizer) IsFitted() bool {
	return b.state.IsFitted()
}

// GetParams はBinarizerのパラメータを取得する
func (b *Binarizer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":  string(b.Strategy),
		"threshold": b.Threshold,
	}
}

// String はBinarizerの文字列表現を返す
func (b *Binarizer) String() string {
	if !b.state.IsFitted() {
		return fmt.Sprintf("Binarizer(strategy=%s)", b.Strategy)
	}
	return fmt.Sprintf("Binarizer(strategy=%s, n_features=%d)", b.Strategy, b.NFeatures)
}
