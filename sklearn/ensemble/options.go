package ensemble

// Option configures an ensemble estimator.
type Option func(*estimatorConfig)

// estimatorConfig holds what an estimator passes to TrainEnsemble.
type estimatorConfig struct {
	nEstimators int
	params      Params
}

// WithNEstimators sets the number of training rounds.
func WithNEstimators(n int) Option {
	return func(c *estimatorConfig) {
		c.nEstimators = n
	}
}

// WithMaxDepth sets the depth limit of every member tree.
func WithMaxDepth(depth int) Option {
	return func(c *estimatorConfig) {
		c.params.MaxDepth = depth
	}
}

// WithMinSamplesLeaf sets the minimum number of rows in each child of a member tree.
func WithMinSamplesLeaf(n int) Option {
	return func(c *estimatorConfig) {
		c.params.MinSamplesLeaf = n
	}
}

// WithCriterion sets the split criterion of member trees.
func WithCriterion(criterion string) Option {
	return func(c *estimatorConfig) {
		c.params.Criterion = criterion
	}
}

// WithLearningRate sets the shrinkage of residual-boosting members.
func WithLearningRate(rate float64) Option {
	return func(c *estimatorConfig) {
		c.params.LearningRate = rate
	}
}

// WithRandomState sets the seed all resamples are derived from.
func WithRandomState(seed uint64) Option {
	return func(c *estimatorConfig) {
		c.params.RandomSeed = seed
	}
}

// WithMaxFeatures sets the number of columns drawn per random-forest member.
func WithMaxFeatures(k int) Option {
	return func(c *estimatorConfig) {
		c.params.FeatureSubsetSize = k
	}
}

// WithBootstrap enables or disables row resampling for bagged members.
func WithBootstrap(enabled bool) Option {
	return func(c *estimatorConfig) {
		c.params.Bootstrap = enabled
	}
}

// WithBootstrapFraction sets the resample size as a fraction of the rows.
func WithBootstrapFraction(fraction float64) Option {
	return func(c *estimatorConfig) {
		c.params.BootstrapFraction = fraction
	}
}

// WithAggregation sets how member predictions are combined.
func WithAggregation(a Aggregation) Option {
	return func(c *estimatorConfig) {
		c.params.Aggregation = a
	}
}

// WithDegeneratePolicy sets how degenerate boosting rounds are handled.
func WithDegeneratePolicy(p DegeneratePolicy) Option {
	return func(c *estimatorConfig) {
		c.params.DegeneratePolicy = p
	}
}

// WithNJobs sets the number of worker goroutines. Values below 1 use every CPU.
func WithNJobs(n int) Option {
	return func(c *estimatorConfig) {
		c.params.NJobs = n
	}
}
