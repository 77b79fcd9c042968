// Package scitree provides decision trees and tree ensembles over binary
// features for Go services that train and serve small models in-process.
//
// scitree offers a scikit-learn-like API on top of gonum matrices. Every
// feature value must be 0 or 1; real-valued inputs can be converted with
// preprocessing.Binarizer first.
//
// # Features
//
//   - Decision trees with Gini, entropy or variance splitting
//   - Bagging, random forests, residual boosting and AdaBoost-style reweighting
//   - Hard vote, soft vote and weighted-sum aggregation over any member prefix
//   - Reproducible resampling from a single uint64 seed
//   - Structured errors and zerolog-based logging
//
// # Installation
//
//	go get github.com/YuminosukeSato/scitree
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scitree/sklearn/ensemble"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{
//	        1, 0,
//	        1, 1,
//	        0, 1,
//	        0, 0,
//	    })
//	    y := mat.NewDense(4, 1, []float64{1, 1, 0, 0})
//
//	    rf := ensemble.NewRandomForestClassifier(
//	        ensemble.WithNEstimators(20),
//	        ensemble.WithRandomState(42),
//	    )
//	    if err := rf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := rf.Predict(mat.NewDense(1, 2, []float64{1, 0}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Prediction:", pred.At(0, 0))
//	}
//
// Lower-level entry points are available when the estimator wrappers are
// not needed:
//
//	tr, err := tree.TrainTree(X, y, 3, tree.Gini)
//	ens, err := ensemble.TrainEnsemble(X, y, ensemble.ResidualBoost, 50, ensemble.DefaultParams())
//	staged, err := ens.StagedPredict(X)
//
// # Packages
//
//   - sklearn/tree: Decision tree construction, prediction and estimators
//   - sklearn/ensemble: Ensemble training, aggregation and estimators
//   - metrics: Regression and classification metrics, majority-vote bound, staged curves
//   - preprocessing: Binarizer for real-valued features
//   - core/model: Core interfaces, fit state and gob persistence
//   - core/parallel: Parallel processing utilities
//   - pkg/errors: Error types (input, config, degenerate round, not fitted)
//   - pkg/log: Structured logging on zerolog
//
// # Errors
//
// Invalid data is reported as an InputError and invalid hyperparameters as a
// ConfigError, both before any tree is grown. A boosting round that cannot
// produce a useful member yields a DegenerateRoundError; under the default
// policy the ensemble trained so far is returned alongside it.
//
// # License
//
// scitree is released under the MIT License.
package scitree
