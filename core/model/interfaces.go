// Package model provides the interfaces and fitted-state bookkeeping shared by
// every estimator in scitree.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is a model that can be fitted and then used for prediction.
type Estimator interface {
	Fitter
	Predictor
}

// Scorer is the interface for models that can compute a score.
// Classifiers report accuracy, regressors report R².
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Estimator
	Scorer
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	Scorer

	// Classes returns the sorted class labels seen during fitting.
	Classes() []float64
}

// ProbabilisticClassifier is a classifier that can report class proportions.
type ProbabilisticClassifier interface {
	Classifier

	// PredictProba returns one column per class, ordered as Classes().
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// StagedPredictor is implemented by ensembles that can predict with any
// prefix of their members.
type StagedPredictor interface {
	// StagedPredict returns predictions for member prefixes 1..NMembers().
	StagedPredict(X mat.Matrix) ([]mat.Matrix, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}
