package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/metrics"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// DecisionTreeRegressor fits real-valued targets by variance reduction.
type DecisionTreeRegressor struct {
	state *model.StateManager
	treeParams

	tree_ *Tree
}

// NewDecisionTreeRegressor creates a regressor with the variance criterion.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	dt := &DecisionTreeRegressor{
		state:      model.NewStateManager(),
		treeParams: defaultTreeParams("variance"),
	}
	for _, opt := range opts {
		opt(&dt.treeParams)
	}
	return dt
}

// Fit trains the regressor.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	defer scierrors.Recover(&err, "DecisionTreeRegressor.Fit")

	cfg, err := dt.config(false)
	if err != nil {
		return err
	}
	d, err := NewDataset(X, y)
	if err != nil {
		return err
	}
	t, err := Grow(d, nil, nil, cfg)
	if err != nil {
		return err
	}
	dt.tree_ = t
	dt.state.SetFitted(d.Features(), d.Rows())

	log.GetLoggerWithName("tree.regressor").Debug("Decision tree fitted",
		log.SamplesKey, d.Rows(),
		log.FeaturesKey, d.Features(),
		log.TreeDepthKey, t.Depth(),
		log.TreeLeavesKey, t.NLeaves(),
	)
	return nil
}

// Predict returns the leaf mean for each row as an n×1 matrix.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.state.RequireFitted("DecisionTreeRegressor", "Predict"); err != nil {
		return nil, err
	}
	return dt.tree_.Predict(X)
}

// Score returns R² on X and y.
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Tree returns the fitted tree, nil before Fit.
func (dt *DecisionTreeRegressor) Tree() *Tree {
	return dt.tree_
}

// GetFeatureImportances returns normalised impurity-decrease importances.
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	if dt.tree_ == nil {
		return nil
	}
	return dt.tree_.FeatureImportances()
}

// GetDepth returns the depth of the fitted tree.
func (dt *DecisionTreeRegressor) GetDepth() int {
	if dt.tree_ == nil {
		return 0
	}
	return dt.tree_.Depth()
}

// GetParams returns the hyperparameters keyed by their scikit-learn names.
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return dt.getParams()
}

// SetParams updates hyperparameters. The model must be refitted afterwards.
func (dt *DecisionTreeRegressor) SetParams(params map[string]interface{}) error {
	if err := dt.setParams(params); err != nil {
		return err
	}
	dt.state.Reset()
	return nil
}

var _ model.Regressor = (*DecisionTreeRegressor)(nil)
