package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/metrics"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// DecisionTreeClassifier is a scikit-learn style classifier over binary features.
type DecisionTreeClassifier struct {
	state *model.StateManager
	treeParams

	tree_     *Tree
	classes_  []float64
	nClasses_ int
}

// NewDecisionTreeClassifier creates a classifier with the Gini criterion.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:      model.NewStateManager(),
		treeParams: defaultTreeParams("gini"),
	}
	for _, opt := range opts {
		opt(&dt.treeParams)
	}
	return dt
}

// Fit trains the classifier with unit sample weights.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	return dt.FitWeighted(X, y, nil)
}

// FitWeighted trains the classifier with per-row sample weights.
func (dt *DecisionTreeClassifier) FitWeighted(X, y mat.Matrix, sampleWeight []float64) (err error) {
	defer scierrors.Recover(&err, "DecisionTreeClassifier.Fit")

	cfg, err := dt.config(true)
	if err != nil {
		return err
	}
	d, err := NewDataset(X, y)
	if err != nil {
		return err
	}
	t, err := Grow(d, nil, sampleWeight, cfg)
	if err != nil {
		return err
	}

	dt.tree_ = t
	dt.classes_ = d.Classes()
	dt.nClasses_ = len(dt.classes_)
	dt.state.SetFitted(d.Features(), d.Rows())

	logger := log.GetLoggerWithName("tree.classifier")
	logger.Debug("Decision tree fitted",
		log.SamplesKey, d.Rows(),
		log.FeaturesKey, d.Features(),
		log.ClassesKey, dt.nClasses_,
		log.CriterionKey, cfg.Criterion.String(),
		log.TreeDepthKey, t.Depth(),
		log.TreeLeavesKey, t.NLeaves(),
	)
	return nil
}

// Predict returns the predicted class of each row as an n×1 matrix.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "Predict"); err != nil {
		return nil, err
	}
	return dt.tree_.Predict(X)
}

// PredictProba returns leaf class proportions, one column per class.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	return dt.tree_.PredictProba(X)
}

// Score returns the accuracy on X and y.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, pred)
}

// Classes returns the class labels in ascending order.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), dt.classes_...)
}

// Tree returns the fitted tree, nil before Fit.
func (dt *DecisionTreeClassifier) Tree() *Tree {
	return dt.tree_
}

// GetFeatureImportances returns normalised impurity-decrease importances.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	if dt.tree_ == nil {
		return nil
	}
	return dt.tree_.FeatureImportances()
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeClassifier) GetDepth() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.Depth()
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.NLeaves()
}

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeClassifier) IsFitted() bool {
	return dt.state.IsFitted()
}

// GetParams returns the hyperparameters keyed by their scikit-learn names.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return dt.getParams()
}

// SetParams updates hyperparameters. The model must be refitted afterwards.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	if err := dt.setParams(params); err != nil {
		return err
	}
	dt.state.Reset()
	return nil
}

var _ model.ProbabilisticClassifier = (*DecisionTreeClassifier)(nil)
