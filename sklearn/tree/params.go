package tree

import (
	"fmt"

	"github.com/YuminosukeSato/scitree/core/parallel"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Option configures a DecisionTreeClassifier or DecisionTreeRegressor.
type Option func(*treeParams)

// treeParams holds the hyperparameters shared by both tree estimators.
type treeParams struct {
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	nJobs           int
}

func defaultTreeParams(criterion string) treeParams {
	return treeParams{
		criterion:       criterion,
		maxDepth:        DefaultMaxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		nJobs:           1,
	}
}

// WithCriterion sets the split criterion ("gini", "entropy" or "variance").
func WithCriterion(criterion string) Option {
	return func(p *treeParams) {
		p.criterion = criterion
	}
}

// WithMaxDepth sets the maximum depth. 0 gives a single leaf.
func WithMaxDepth(depth int) Option {
	return func(p *treeParams) {
		p.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum node size that may be split.
func WithMinSamplesSplit(n int) Option {
	return func(p *treeParams) {
		p.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of rows in each child.
func WithMinSamplesLeaf(n int) Option {
	return func(p *treeParams) {
		p.minSamplesLeaf = n
	}
}

// WithNJobs sets the number of goroutines scoring split candidates.
// Values below 1 use every CPU.
func WithNJobs(n int) Option {
	return func(p *treeParams) {
		p.nJobs = n
	}
}

// config converts the parameters into a builder configuration.
func (p *treeParams) config(classification bool) (Config, error) {
	c, err := ParseCriterion(p.criterion)
	if err != nil {
		return Config{}, err
	}
	if c.IsClassification() != classification {
		return Config{}, scierrors.NewConfigError("criterion", "criterion does not match the estimator task", p.criterion)
	}
	if p.minSamplesSplit < 2 {
		return Config{}, scierrors.NewConfigError("min_samples_split", "must be >= 2", p.minSamplesSplit)
	}
	if p.minSamplesLeaf < 1 {
		return Config{}, scierrors.NewConfigError("min_samples_leaf", "must be >= 1", p.minSamplesLeaf)
	}
	cfg := Config{
		MaxDepth:        p.maxDepth,
		Criterion:       c,
		MinSamplesSplit: p.minSamplesSplit,
		MinSamplesLeaf:  p.minSamplesLeaf,
		Workers:         parallel.Workers(p.nJobs),
	}
	return cfg, nil
}

func (p *treeParams) getParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         p.criterion,
		"max_depth":         p.maxDepth,
		"min_samples_split": p.minSamplesSplit,
		"min_samples_leaf":  p.minSamplesLeaf,
		"n_jobs":            p.nJobs,
	}
}

func (p *treeParams) setParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return scierrors.NewConfigError(key, "must be a string", value)
			}
			p.criterion = s
		case "max_depth", "min_samples_split", "min_samples_leaf", "n_jobs":
			n, ok := value.(int)
			if !ok {
				return scierrors.NewConfigError(key, "must be an int", value)
			}
			switch key {
			case "max_depth":
				p.maxDepth = n
			case "min_samples_split":
				p.minSamplesSplit = n
			case "min_samples_leaf":
				p.minSamplesLeaf = n
			default:
				p.nJobs = n
			}
		default:
			return scierrors.NewConfigError(key, "unknown parameter", fmt.Sprint(value))
		}
	}
	return nil
}
