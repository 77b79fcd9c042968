package ensemble

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/metrics"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// baseEnsemble is the Fit/Predict plumbing shared by every ensemble estimator.
type baseEnsemble struct {
	state *model.StateManager
	name  string
	mode  Mode
	estimatorConfig

	ensemble_ *Ensemble
}

func newBase(name string, mode Mode, cfg estimatorConfig, opts []Option) baseEnsemble {
	for _, opt := range opts {
		opt(&cfg)
	}
	return baseEnsemble{
		state:           model.NewStateManager(),
		name:            name,
		mode:            mode,
		estimatorConfig: cfg,
	}
}

// Fit trains the ensemble.
func (b *baseEnsemble) Fit(X, y mat.Matrix) error {
	return b.FitContext(context.Background(), X, y)
}

// FitContext trains the ensemble and stops between rounds when ctx is done.
// A degenerate boosting round that leaves at least one member is not an
// error: the partial ensemble is kept and a warning is logged.
func (b *baseEnsemble) FitContext(ctx context.Context, X, y mat.Matrix) (err error) {
	defer scierrors.Recover(&err, b.name+".Fit")

	logger := log.GetLoggerWithName("ensemble.estimator").With(log.ModelNameKey, b.name)

	ens, err := TrainEnsembleContext(ctx, X, y, b.mode, b.nEstimators, b.params)
	if err != nil {
		if !scierrors.IsDegenerateRound(err) || ens == nil || ens.NMembers() == 0 {
			logger.Error("Fit failed", err, log.OperationKey, log.OperationFit)
			return err
		}
		logger.Warn("Training stopped early", err, log.MembersKey, ens.NMembers())
	}

	b.ensemble_ = ens
	rows, cols := X.Dims()
	b.state.SetFitted(cols, rows)

	logger.Info("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.MembersKey, ens.NMembers(),
	)
	return nil
}

// Predict returns the aggregated prediction of every member as an n×1 matrix.
func (b *baseEnsemble) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := b.state.RequireFitted(b.name, "Predict"); err != nil {
		return nil, err
	}
	return b.ensemble_.Predict(X, 0)
}

// StagedPredict returns the prediction of every member prefix.
func (b *baseEnsemble) StagedPredict(X mat.Matrix) ([]mat.Matrix, error) {
	if err := b.state.RequireFitted(b.name, "StagedPredict"); err != nil {
		return nil, err
	}
	staged, err := b.ensemble_.StagedPredict(X)
	if err != nil {
		return nil, err
	}
	out := make([]mat.Matrix, len(staged))
	for i, s := range staged {
		out[i] = s
	}
	return out, nil
}

func (b *baseEnsemble) stagedCurve(name string, X, y mat.Matrix, score metrics.ScoreFunc) (*metrics.Curve, error) {
	staged, err := b.StagedPredict(X)
	if err != nil {
		return nil, err
	}
	return metrics.StagedCurve(name, y, staged, score)
}

// Ensemble returns the fitted ensemble, nil before Fit.
func (b *baseEnsemble) Ensemble() *Ensemble {
	return b.ensemble_
}

// NMembers returns the number of committed members, which can be lower than
// n_estimators when boosting stopped early.
func (b *baseEnsemble) NMembers() int {
	if b.ensemble_ == nil {
		return 0
	}
	return b.ensemble_.NMembers()
}

// IsFitted reports whether Fit has completed.
func (b *baseEnsemble) IsFitted() bool {
	return b.state.IsFitted()
}

// GetParams returns the hyperparameters keyed by their JSON names plus n_estimators.
func (b *baseEnsemble) GetParams() map[string]interface{} {
	m := b.params.toMap()
	m["n_estimators"] = b.nEstimators
	return m
}

// SetParams updates hyperparameters. The model must be refitted afterwards.
func (b *baseEnsemble) SetParams(params map[string]interface{}) error {
	p := b.params
	n := b.nEstimators
	for key, value := range params {
		if key == "n_estimators" {
			v, err := toInt(key, value)
			if err != nil {
				return err
			}
			n = v
			continue
		}
		if err := p.set(key, value); err != nil {
			return err
		}
	}
	b.params = p
	b.nEstimators = n
	b.state.Reset()
	return nil
}

// ensembleClassifier adds the classifier surface to baseEnsemble.
type ensembleClassifier struct {
	baseEnsemble
}

// PredictProba returns the coefficient-weighted mean of member class
// distributions, one column per class in Classes order.
func (c *ensembleClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := c.state.RequireFitted(c.name, "PredictProba"); err != nil {
		return nil, err
	}
	return c.ensemble_.PredictProba(X, 0)
}

// Score returns the accuracy on X and y.
func (c *ensembleClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, pred)
}

// StagedScore returns the classification error after every round.
func (c *ensembleClassifier) StagedScore(X, y mat.Matrix) (*metrics.Curve, error) {
	return c.stagedCurve(c.name+" error", X, y, metrics.ClassificationErrorMatrix)
}

// Classes returns the class labels in ascending order.
func (c *ensembleClassifier) Classes() []float64 {
	if c.ensemble_ == nil {
		return nil
	}
	return append([]float64(nil), c.ensemble_.Classes...)
}

// ensembleRegressor adds the regressor surface to baseEnsemble.
type ensembleRegressor struct {
	baseEnsemble
}

// Score returns R² on X and y.
func (r *ensembleRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// StagedScore returns the mean squared error after every round.
func (r *ensembleRegressor) StagedScore(X, y mat.Matrix) (*metrics.Curve, error) {
	return r.stagedCurve(r.name+" mse", X, y, metrics.MSEMatrix)
}

// BaggingClassifier averages the votes of trees trained on bootstrap resamples.
type BaggingClassifier struct {
	ensembleClassifier
}

// NewBaggingClassifier creates a bagging classifier with 10 members.
func NewBaggingClassifier(opts ...Option) *BaggingClassifier {
	cfg := estimatorConfig{nEstimators: 10, params: DefaultParams()}
	return &BaggingClassifier{ensembleClassifier{newBase("BaggingClassifier", Bagging, cfg, opts)}}
}

// RandomForestClassifier is bagging with a random column subset per tree.
type RandomForestClassifier struct {
	ensembleClassifier
}

// NewRandomForestClassifier creates a forest of 100 trees, each drawing
// floor(sqrt(d)) columns unless WithMaxFeatures says otherwise.
func NewRandomForestClassifier(opts ...Option) *RandomForestClassifier {
	cfg := estimatorConfig{nEstimators: 100, params: DefaultParams()}
	return &RandomForestClassifier{ensembleClassifier{newBase("RandomForestClassifier", RandomForest, cfg, opts)}}
}

// FeatureImportances returns the mean normalised importance over members.
func (rf *RandomForestClassifier) FeatureImportances() []float64 {
	if rf.ensemble_ == nil {
		return nil
	}
	return meanImportances(rf.ensemble_)
}

// AdaBoostClassifier is binary reweight boosting over decision stumps.
type AdaBoostClassifier struct {
	ensembleClassifier
}

// NewAdaBoostClassifier creates an AdaBoost classifier with 50 stumps.
// Degenerate rounds are clamped so that a perfect first stump still
// yields a usable model.
func NewAdaBoostClassifier(opts ...Option) *AdaBoostClassifier {
	p := DefaultParams()
	p.MaxDepth = 1
	p.DegeneratePolicy = Clamp
	cfg := estimatorConfig{nEstimators: 50, params: p}
	return &AdaBoostClassifier{ensembleClassifier{newBase("AdaBoostClassifier", ReweightBoost, cfg, opts)}}
}

// DecisionFunction returns Σ alpha·h(x); positive values predict the higher class.
func (a *AdaBoostClassifier) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := a.state.RequireFitted(a.name, "DecisionFunction"); err != nil {
		return nil, err
	}
	return a.ensemble_.DecisionFunction(X, 0)
}

// BaggingRegressor averages regression trees trained on bootstrap resamples.
type BaggingRegressor struct {
	ensembleRegressor
}

// NewBaggingRegressor creates a bagging regressor with 10 members.
func NewBaggingRegressor(opts ...Option) *BaggingRegressor {
	p := DefaultParams()
	p.Criterion = "variance"
	cfg := estimatorConfig{nEstimators: 10, params: p}
	return &BaggingRegressor{ensembleRegressor{newBase("BaggingRegressor", Bagging, cfg, opts)}}
}

// GradientBoostingRegressor is squared-error residual boosting.
type GradientBoostingRegressor struct {
	ensembleRegressor
}

// NewGradientBoostingRegressor creates 100 rounds of depth-3 trees with learning rate 0.1.
func NewGradientBoostingRegressor(opts ...Option) *GradientBoostingRegressor {
	p := DefaultParams()
	p.MaxDepth = 3
	cfg := estimatorConfig{nEstimators: 100, params: p}
	return &GradientBoostingRegressor{ensembleRegressor{newBase("GradientBoostingRegressor", ResidualBoost, cfg, opts)}}
}

func meanImportances(e *Ensemble) []float64 {
	imp := make([]float64, e.NFeatures)
	for i := range e.Members {
		for j, v := range e.Members[i].Tree.FeatureImportances() {
			imp[j] += v
		}
	}
	for j := range imp {
		imp[j] /= float64(len(e.Members))
	}
	return imp
}

var (
	_ model.ProbabilisticClassifier = (*BaggingClassifier)(nil)
	_ model.ProbabilisticClassifier = (*RandomForestClassifier)(nil)
	_ model.ProbabilisticClassifier = (*AdaBoostClassifier)(nil)
	_ model.Regressor               = (*BaggingRegressor)(nil)
	_ model.Regressor               = (*GradientBoostingRegressor)(nil)
	_ model.StagedPredictor         = (*GradientBoostingRegressor)(nil)
)
