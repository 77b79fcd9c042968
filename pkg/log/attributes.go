// Package log defines standard attribute keys for tree and ensemble operations.
//
// Using the same keys everywhere keeps training logs filterable: every round of
// every ensemble mode reports under "training.round", every fitted tree under
// "tree.depth" and "tree.leaves", and so on.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "DecisionTreeClassifier", "AdaBoostClassifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which component emitted the record.
	// Examples: "tree.builder", "ensemble.trainer"
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// SamplesKey indicates the number of rows in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct class labels.
	ClassesKey = "data.classes"
)

// Tree structure
const (
	// TreeDepthKey records the depth of a fitted tree.
	TreeDepthKey = "tree.depth"

	// TreeLeavesKey records the number of leaves of a fitted tree.
	TreeLeavesKey = "tree.leaves"

	// TreeNodesKey records the total number of nodes of a fitted tree.
	TreeNodesKey = "tree.nodes"

	// CriterionKey records the impurity function.
	CriterionKey = "tree.criterion"
)

// Ensemble training
const (
	// ModeKey records the ensemble training mode.
	ModeKey = "ensemble.mode"

	// AggregationKey records the aggregation strategy.
	AggregationKey = "ensemble.aggregation"

	// MembersKey records the number of committed ensemble members.
	MembersKey = "ensemble.members"

	// RoundKey records the current training round (0-based).
	RoundKey = "training.round"

	// RoundsKey records the requested number of rounds.
	RoundsKey = "training.rounds"

	// CoefficientKey records the combination coefficient of a member.
	CoefficientKey = "ensemble.coefficient"

	// ErrorRateKey records the weighted error of a boosting round.
	ErrorRateKey = "metrics.error_rate"

	// LossKey records a loss value such as the residual sum of squares.
	LossKey = "metrics.loss"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Hyperparameters
const (
	// LearningRateKey records the shrinkage applied to residual boosting members.
	LearningRateKey = "hyperparams.learning_rate"

	// MaxDepthKey records the depth limit of base trees.
	MaxDepthKey = "hyperparams.max_depth"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// WorkersKey records the number of workers used for parallel rounds.
	WorkersKey = "config.n_jobs"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
)
