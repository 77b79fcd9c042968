package ensemble

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/scitree/core/parallel"
	"github.com/YuminosukeSato/scitree/sklearn/tree"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Params holds the ensemble hyperparameters. Start from DefaultParams.
// Fields a mode does not use are ignored by that mode.
type Params struct {
	// Bootstrap resamples rows with replacement for every bagged member.
	// When false each member sees every row.
	Bootstrap bool `json:"bootstrap"`
	// BootstrapFraction is the resample size as a fraction of the row count
	// (bagging and random forest). Must be in (0, 1].
	BootstrapFraction float64 `json:"bootstrap_fraction"`
	// FeatureSubsetSize is the number of columns drawn per random-forest
	// member. 0 means floor(sqrt(d)), at least 1.
	FeatureSubsetSize int `json:"feature_subset_size"`
	// LearningRate scales residual-boosting members. Must be > 0.
	LearningRate float64 `json:"learning_rate"`

	MaxDepth        int `json:"max_depth"`
	MinSamplesSplit int `json:"min_samples_split"`
	MinSamplesLeaf  int `json:"min_samples_leaf"`

	RandomSeed uint64 `json:"random_seed"`

	// Criterion is "gini", "entropy" or "variance". Empty selects gini for
	// classification and variance for regression.
	Criterion        string           `json:"criterion"`
	Aggregation      Aggregation      `json:"aggregation"`
	DegeneratePolicy DegeneratePolicy `json:"degenerate_policy"`

	// NJobs bounds the goroutines used for bagging rounds. Values below 1 use every CPU.
	NJobs int `json:"n_jobs"`
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		Bootstrap:         true,
		BootstrapFraction: 1.0,
		LearningRate:      0.1,
		MaxDepth:          tree.DefaultMaxDepth,
		MinSamplesSplit:   2,
		MinSamplesLeaf:    1,
		Aggregation:       AggregationAuto,
		DegeneratePolicy:  StopEarly,
		NJobs:             -1,
	}
}

// Validate checks the parameters for a mode and feature count without training.
func (p Params) Validate(mode Mode, nFeatures int) error {
	_, err := p.resolve(mode, nFeatures)
	return err
}

// settings is the validated, mode-specific form of Params.
type settings struct {
	mode        Mode
	regression  bool
	aggregation Aggregation
	tree        tree.Config

	bootstrap         bool
	bootstrapFraction float64
	subsetSize        int
	learningRate      float64
	seed              uint64
	policy            DegeneratePolicy
	workers           int
}

func (p Params) resolve(mode Mode, nFeatures int) (settings, error) {
	s := settings{
		mode:              mode,
		bootstrap:         p.Bootstrap,
		bootstrapFraction: p.BootstrapFraction,
		learningRate:      p.LearningRate,
		seed:              p.RandomSeed,
		policy:            p.DegeneratePolicy,
		workers:           parallel.Workers(p.NJobs),
	}

	if _, ok := modeNames[mode]; !ok {
		return s, scierrors.NewConfigError("mode", "unknown mode", int(mode))
	}
	if _, ok := aggregationNames[p.Aggregation]; !ok {
		return s, scierrors.NewConfigError("aggregation", "unknown aggregation", int(p.Aggregation))
	}
	if _, ok := policyNames[p.DegeneratePolicy]; !ok {
		return s, scierrors.NewConfigError("degenerate_policy", "unknown policy", int(p.DegeneratePolicy))
	}
	if p.MaxDepth < 0 {
		return s, scierrors.NewConfigError("max_depth", "must be >= 0", p.MaxDepth)
	}
	if p.MinSamplesSplit < 2 {
		return s, scierrors.NewConfigError("min_samples_split", "must be >= 2", p.MinSamplesSplit)
	}
	if p.MinSamplesLeaf < 1 {
		return s, scierrors.NewConfigError("min_samples_leaf", "must be >= 1", p.MinSamplesLeaf)
	}
	if p.FeatureSubsetSize < 0 || p.FeatureSubsetSize > nFeatures {
		return s, scierrors.NewConfigError("feature_subset_size", fmt.Sprintf("must be in [0, %d]", nFeatures), p.FeatureSubsetSize)
	}
	if mode.bagged() && p.Bootstrap && !(p.BootstrapFraction > 0 && p.BootstrapFraction <= 1) {
		return s, scierrors.NewConfigError("bootstrap_fraction", "must be in (0, 1]", p.BootstrapFraction)
	}
	if mode == ResidualBoost && p.DegeneratePolicy == Clamp {
		return s, scierrors.NewConfigError("degenerate_policy", "residual boosting has no error rate to clamp", p.DegeneratePolicy.String())
	}
	if mode == ResidualBoost && (!(p.LearningRate > 0) || math.IsInf(p.LearningRate, 0)) {
		return s, scierrors.NewConfigError("learning_rate", "must be a finite value > 0", p.LearningRate)
	}

	criterion, explicit := tree.Gini, p.Criterion != ""
	if explicit {
		c, err := tree.ParseCriterion(p.Criterion)
		if err != nil {
			return s, err
		}
		criterion = c
	}

	switch mode {
	case ResidualBoost:
		s.regression = true
	case ReweightBoost:
		s.regression = false
	default:
		s.regression = criterion == tree.Variance ||
			(!explicit && p.Aggregation == WeightedSum)
	}

	if s.regression {
		if explicit && criterion != tree.Variance {
			return s, scierrors.NewConfigError("criterion", mode.String()+" on real-valued targets needs variance", p.Criterion)
		}
		criterion = tree.Variance
		if p.Aggregation != AggregationAuto && p.Aggregation != WeightedSum {
			return s, scierrors.NewConfigError("aggregation", "regression members can only be combined by weighted_sum", p.Aggregation.String())
		}
		s.aggregation = WeightedSum
	} else {
		if criterion == tree.Variance {
			return s, scierrors.NewConfigError("criterion", mode.String()+" needs a classification criterion", p.Criterion)
		}
		s.aggregation = p.Aggregation
		if s.aggregation == AggregationAuto {
			s.aggregation = HardVote
			if mode == ReweightBoost {
				s.aggregation = WeightedSum
			}
		}
		if mode.bagged() && s.aggregation == WeightedSum {
			return s, scierrors.NewConfigError("aggregation", "bagged classifiers combine by hard_vote or soft_vote", p.Aggregation.String())
		}
	}

	if mode == RandomForest {
		s.subsetSize = p.FeatureSubsetSize
		if s.subsetSize == 0 {
			s.subsetSize = int(math.Sqrt(float64(nFeatures)))
			if s.subsetSize < 1 {
				s.subsetSize = 1
			}
		}
	}

	s.tree = tree.Config{
		MaxDepth:        p.MaxDepth,
		Criterion:       criterion,
		MinSamplesSplit: p.MinSamplesSplit,
		MinSamplesLeaf:  p.MinSamplesLeaf,
		Workers:         1,
	}
	if err := s.tree.Validate(nFeatures); err != nil {
		return s, err
	}
	if !mode.bagged() {
		// boosting rounds are sequential, so the split scan gets the workers
		s.tree.Workers = s.workers
	}
	return s, nil
}

// ParamsFromMap builds Params from DefaultParams and a map keyed by the
// JSON names. Numbers may be given as int or float64.
func ParamsFromMap(m map[string]interface{}) (Params, error) {
	p := DefaultParams()
	for key, value := range m {
		if err := p.set(key, value); err != nil {
			return p, err
		}
	}
	return p, nil
}

// set assigns one parameter by its JSON name.
func (p *Params) set(key string, value interface{}) error {
	var err error
	switch key {
	case "bootstrap":
		b, ok := value.(bool)
		if !ok {
			return scierrors.NewConfigError(key, "must be a bool", value)
		}
		p.Bootstrap = b
	case "bootstrap_fraction":
		p.BootstrapFraction, err = toFloat(key, value)
	case "learning_rate":
		p.LearningRate, err = toFloat(key, value)
	case "feature_subset_size":
		p.FeatureSubsetSize, err = toInt(key, value)
	case "max_depth":
		p.MaxDepth, err = toInt(key, value)
	case "min_samples_split":
		p.MinSamplesSplit, err = toInt(key, value)
	case "min_samples_leaf":
		p.MinSamplesLeaf, err = toInt(key, value)
	case "n_jobs":
		p.NJobs, err = toInt(key, value)
	case "random_seed":
		var seed int
		if seed, err = toInt(key, value); err == nil {
			if seed < 0 {
				return scierrors.NewConfigError(key, "must be >= 0", value)
			}
			p.RandomSeed = uint64(seed)
		}
	case "criterion":
		p.Criterion, err = toString(key, value)
	case "aggregation":
		var s string
		if s, err = toString(key, value); err == nil {
			p.Aggregation, err = ParseAggregation(s)
		}
	case "degenerate_policy":
		var s string
		if s, err = toString(key, value); err == nil {
			p.DegeneratePolicy, err = ParseDegeneratePolicy(s)
		}
	default:
		return scierrors.NewConfigError(key, "unknown parameter", value)
	}
	return err
}

// toMap returns the parameters keyed by their JSON names.
func (p Params) toMap() map[string]interface{} {
	return map[string]interface{}{
		"bootstrap":           p.Bootstrap,
		"bootstrap_fraction":  p.BootstrapFraction,
		"feature_subset_size": p.FeatureSubsetSize,
		"learning_rate":       p.LearningRate,
		"max_depth":           p.MaxDepth,
		"min_samples_split":   p.MinSamplesSplit,
		"min_samples_leaf":    p.MinSamplesLeaf,
		"random_seed":         p.RandomSeed,
		"criterion":           p.Criterion,
		"aggregation":         p.Aggregation.String(),
		"degenerate_policy":   p.DegeneratePolicy.String(),
		"n_jobs":              p.NJobs,
	}
}

func toFloat(key string, v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	default:
		return 0, scierrors.NewConfigError(key, "must be a number", v)
	}
}

func toInt(key string, v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, scierrors.NewConfigError(key, "must be an integer", v)
		}
		return int(x), nil
	default:
		return 0, scierrors.NewConfigError(key, "must be an integer", v)
	}
}

func toString(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", scierrors.NewConfigError(key, "must be a string", v)
	}
	return s, nil
}
