package tree

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// TestDecisionTreeClassifier_FitPredict_Binary tests binary classification
func TestDecisionTreeClassifier_FitPredict_Binary(t *testing.T) {
	// Class is 1 exactly when feature 1 is set
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		0, 0, 1,
		1, 0, 1,
		0, 1, 0,
		1, 1, 0,
		0, 1, 1,
		1, 1, 1,
	})

	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 0,
		1, 1, 1, 1,
	})

	dt := NewDecisionTreeClassifier(
		WithCriterion("gini"),
		WithMaxDepth(5),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	predictions, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	for i := 0; i < 8; i++ {
		pred := predictions.At(i, 0)
		actual := y.At(i, 0)
		if pred != actual {
			t.Errorf("Sample %d: expected %v, got %v", i, actual, pred)
		}
	}

	if dt.GetDepth() != 1 {
		t.Errorf("A single informative feature should give a stump, got depth %d", dt.GetDepth())
	}
	if dt.Tree().Root().Feature != 1 {
		t.Errorf("Root should split on feature 1, got %d", dt.Tree().Root().Feature)
	}
}

// TestDecisionTreeClassifier_PredictProba tests probability predictions
func TestDecisionTreeClassifier_PredictProba(t *testing.T) {
	// Rows 0 and 3 share features but not labels, so one leaf stays mixed
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		0, 0,
		1, 1,
		1, 1,
	})

	y := mat.NewDense(6, 1, []float64{
		0, 0, 0,
		1, 1, 1,
	})

	dt := NewDecisionTreeClassifier(
		WithMaxDepth(3),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	probas, err := dt.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if rows != 6 || cols != 2 {
		t.Errorf("Expected probas shape (6, 2), got (%d, %d)", rows, cols)
	}

	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			prob := probas.At(i, j)
			if prob < 0 || prob > 1 {
				t.Errorf("Invalid probability at (%d, %d): %v", i, j, prob)
			}
			sum += prob
		}
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Probabilities for sample %d don't sum to 1: %v", i, sum)
		}
	}

	if p := probas.At(0, 0); math.Abs(p-0.5) > 1e-12 {
		t.Errorf("Mixed leaf should give 0.5 for class 0, got %v", p)
	}
}

// TestDecisionTreeClassifier_Score tests accuracy calculation
func TestDecisionTreeClassifier_Score(t *testing.T) {
	// AND of the first two features, third feature is noise
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 1, 0,
		1, 0, 0,
		1, 1, 0,
		0, 0, 1,
		0, 1, 1,
		1, 0, 1,
		1, 1, 1,
	})

	y := mat.NewDense(8, 1, []float64{0, 0, 0, 1, 0, 0, 0, 1})

	dt := NewDecisionTreeClassifier(
		WithMaxDepth(5),
		WithMinSamplesLeaf(1),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := dt.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score != 1.0 {
		t.Errorf("Decision tree should perfectly fit AND data, got score: %v", score)
	}

	// A stump cannot express AND
	stump := NewDecisionTreeClassifier(WithMaxDepth(1))
	if err := stump.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit stump: %v", err)
	}
	stumpScore, _ := stump.Score(X, y)
	if stumpScore >= 1.0 {
		t.Errorf("Stump should not fit AND data perfectly, got %v", stumpScore)
	}
}

// TestDecisionTreeClassifier_Multiclass tests multiclass classification
func TestDecisionTreeClassifier_Multiclass(t *testing.T) {
	// One-hot encoded classes
	X := mat.NewDense(9, 3, []float64{
		1, 0, 0,
		1, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 1, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 1,
		0, 0, 1,
	})

	y := mat.NewDense(9, 1, []float64{
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
	})

	dt := NewDecisionTreeClassifier(
		WithCriterion("gini"),
		WithMaxDepth(5),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit multiclass model: %v", err)
	}

	if dt.nClasses_ != 3 {
		t.Errorf("Expected 3 classes, got %d", dt.nClasses_)
	}

	predictions, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	correct := 0
	for i := 0; i < 9; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	accuracy := float64(correct) / 9.0
	if accuracy != 1.0 {
		t.Errorf("Expected perfect accuracy on training data, got: %v", accuracy)
	}

	probas, err := dt.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := probas.Dims()
	if cols != 3 {
		t.Errorf("Expected 3 probability columns, got %d", cols)
	}

	for i := 0; i < rows; i++ {
		sum := 0.0
		maxProb := 0.0
		maxClass := -1

		for j := 0; j < cols; j++ {
			prob := probas.At(i, j)
			sum += prob
			if prob > maxProb {
				maxProb = prob
				maxClass = j
			}
		}

		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("Probabilities for sample %d don't sum to 1: %v", i, sum)
		}

		expectedClass := int(y.At(i, 0))
		if maxClass != expectedClass {
			t.Errorf("Sample %d: max probability class %d doesn't match expected %d",
				i, maxClass, expectedClass)
		}
	}
}

// TestDecisionTreeClassifier_Entropy tests entropy criterion
func TestDecisionTreeClassifier_Entropy(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		0, 0,
		1, 0,
		1, 1,
		1, 0,
	})

	y := mat.NewDense(6, 1, []float64{
		0, 0, 0,
		1, 1, 1,
	})

	dt := NewDecisionTreeClassifier(
		WithCriterion("entropy"),
		WithMaxDepth(3),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit with entropy: %v", err)
	}

	score, err := dt.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score != 1.0 {
		t.Errorf("Expected perfect score on simple data, got %v", score)
	}
	if math.Abs(dt.Tree().Root().Gain-1.0) > 1e-12 {
		t.Errorf("Perfect split of a balanced set should gain 1 bit, got %v", dt.Tree().Root().Gain)
	}
}

// TestDecisionTreeClassifier_FeatureImportance tests feature importance calculation
func TestDecisionTreeClassifier_FeatureImportance(t *testing.T) {
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0, // Feature 0 determines class
		0, 1, 1,
		0, 0, 1,
		0, 1, 0,
		1, 0, 0, // When feature 0 = 1, always class 1
		1, 1, 1,
		1, 0, 1,
		1, 1, 0,
	})

	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 0,
		1, 1, 1, 1,
	})

	dt := NewDecisionTreeClassifier()
	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	importances := dt.GetFeatureImportances()
	if len(importances) != 3 {
		t.Fatalf("Expected 3 feature importances, got %d", len(importances))
	}

	if importances[0] <= importances[1] || importances[0] <= importances[2] {
		t.Errorf("Feature 0 should have highest importance: %v", importances)
	}

	sum := 0.0
	for _, imp := range importances {
		sum += imp
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("Feature importances should sum to 1, got %v", sum)
	}
}

// TestDecisionTreeClassifier_MaxDepth tests max depth constraint
func TestDecisionTreeClassifier_MaxDepth(t *testing.T) {
	// Four bits of i; the label needs all of them
	X := mat.NewDense(16, 4, nil)
	y := mat.NewDense(16, 1, nil)

	for i := 0; i < 16; i++ {
		for b := 0; b < 4; b++ {
			X.Set(i, b, float64((i>>b)&1))
		}
		if (i&1 == 1 && i&2 == 2) || (i&4 == 4 && i&8 == 8) {
			y.Set(i, 0, 1)
		}
	}

	dt := NewDecisionTreeClassifier(
		WithMaxDepth(2),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	depth := dt.GetDepth()
	if depth > 2 {
		t.Errorf("Tree depth %d exceeds max_depth=2", depth)
	}

	deep := NewDecisionTreeClassifier(WithMaxDepth(10))
	if err := deep.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if deep.GetDepth() <= 2 {
		t.Errorf("Unconstrained tree should be deeper than 2, got %d", deep.GetDepth())
	}
}

// TestDecisionTreeClassifier_ZeroDepth tests that max_depth=0 yields a single leaf
func TestDecisionTreeClassifier_ZeroDepth(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 0, 1})
	y := mat.NewDense(4, 1, []float64{0, 1, 1, 1})

	dt := NewDecisionTreeClassifier(WithMaxDepth(0))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if dt.GetNLeaves() != 1 {
		t.Errorf("Expected a single leaf, got %d leaves", dt.GetNLeaves())
	}
	pred, _ := dt.Predict(X)
	for i := 0; i < 4; i++ {
		if pred.At(i, 0) != 1 {
			t.Errorf("Sample %d: expected majority class 1, got %v", i, pred.At(i, 0))
		}
	}
}

// TestDecisionTreeClassifier_MinSamples tests minimum samples constraints
func TestDecisionTreeClassifier_MinSamples(t *testing.T) {
	X := mat.NewDense(10, 3, nil)
	y := mat.NewDense(10, 1, nil)

	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i%2))
		if i%3 == 0 {
			X.Set(i, 1, 1)
		}
		if i >= 5 {
			X.Set(i, 2, 1)
		}
		y.Set(i, 0, float64((i/3)%2))
	}

	dt := NewDecisionTreeClassifier(
		WithMinSamplesSplit(5),
		WithMinSamplesLeaf(2),
	)

	err := dt.Fit(X, y)
	if err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	nLeaves := dt.GetNLeaves()
	if nLeaves > 5 {
		t.Errorf("Too many leaves %d for min_samples constraints", nLeaves)
	}
	dt.Tree().Walk(func(_ int, n *Node) bool {
		if n.NSamples < 2 {
			t.Errorf("Node with %d samples violates min_samples_leaf=2", n.NSamples)
		}
		if !n.IsLeaf() && n.NSamples < 5 {
			t.Errorf("Split node with %d samples violates min_samples_split=5", n.NSamples)
		}
		return true
	})
}

// TestDecisionTreeClassifier_GetSetParams tests parameter management
func TestDecisionTreeClassifier_GetSetParams(t *testing.T) {
	dt := NewDecisionTreeClassifier()

	params := dt.GetParams()

	if params["criterion"].(string) != "gini" {
		t.Errorf("Default criterion should be 'gini', got %v", params["criterion"])
	}

	if params["min_samples_split"].(int) != 2 {
		t.Errorf("Default min_samples_split should be 2, got %v", params["min_samples_split"])
	}

	if params["max_depth"].(int) != DefaultMaxDepth {
		t.Errorf("Default max_depth should be %d, got %v", DefaultMaxDepth, params["max_depth"])
	}

	newParams := map[string]interface{}{
		"criterion":         "entropy",
		"max_depth":         5,
		"min_samples_split": 4,
		"min_samples_leaf":  2,
	}

	err := dt.SetParams(newParams)
	if err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	if dt.criterion != "entropy" {
		t.Errorf("criterion not updated: expected 'entropy', got %v", dt.criterion)
	}

	if dt.maxDepth != 5 {
		t.Errorf("max_depth not updated: expected 5, got %v", dt.maxDepth)
	}

	if dt.minSamplesSplit != 4 {
		t.Errorf("min_samples_split not updated: expected 4, got %v", dt.minSamplesSplit)
	}

	if dt.minSamplesLeaf != 2 {
		t.Errorf("min_samples_leaf not updated: expected 2, got %v", dt.minSamplesLeaf)
	}

	if err := dt.SetParams(map[string]interface{}{"splitter": "best"}); !scierrors.IsConfigError(err) {
		t.Errorf("Unknown parameter should be a ConfigError, got %v", err)
	}
	if err := dt.SetParams(map[string]interface{}{"max_depth": "5"}); !scierrors.IsConfigError(err) {
		t.Errorf("Wrongly typed parameter should be a ConfigError, got %v", err)
	}
}

// TestDecisionTreeClassifier_InvalidConfig tests validation at fit time
func TestDecisionTreeClassifier_InvalidConfig(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{0, 1})
	y := mat.NewDense(2, 1, []float64{0, 1})

	for name, dt := range map[string]*DecisionTreeClassifier{
		"unknown criterion":    NewDecisionTreeClassifier(WithCriterion("log_loss")),
		"regression criterion": NewDecisionTreeClassifier(WithCriterion("variance")),
		"negative depth":       NewDecisionTreeClassifier(WithMaxDepth(-1)),
		"min_samples_split":    NewDecisionTreeClassifier(WithMinSamplesSplit(1)),
		"min_samples_leaf":     NewDecisionTreeClassifier(WithMinSamplesLeaf(0)),
	} {
		if err := dt.Fit(X, y); !scierrors.IsConfigError(err) {
			t.Errorf("%s: expected ConfigError, got %v", name, err)
		}
		if dt.IsFitted() {
			t.Errorf("%s: model should not be fitted", name)
		}
	}
}

// TestDecisionTreeClassifier_NonBinaryInput tests rejection of non-indicator features
func TestDecisionTreeClassifier_NonBinaryInput(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{
		0.5, 1,
		1, 0,
	})
	y := mat.NewDense(2, 1, []float64{0, 1})

	dt := NewDecisionTreeClassifier()
	err := dt.Fit(X, y)
	if !scierrors.IsInputError(err) {
		t.Errorf("Expected InputError, got %v", err)
	}
}

// TestDecisionTreeClassifier_NotFitted tests error when predicting without fitting
func TestDecisionTreeClassifier_NotFitted(t *testing.T) {
	dt := NewDecisionTreeClassifier()

	X := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})

	_, err := dt.Predict(X)
	if err == nil {
		t.Error("Expected error when predicting without fitting")
	}

	_, err = dt.PredictProba(X)
	if err == nil {
		t.Error("Expected error when predicting probabilities without fitting")
	}

	var nf *scierrors.NotFittedError
	if !scierrors.As(err, &nf) {
		t.Errorf("Expected NotFittedError, got %T", err)
	}
}

// TestDecisionTreeRegressor tests regression on binary features
func TestDecisionTreeRegressor(t *testing.T) {
	// y = 2*x0 + x1
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	y := mat.NewDense(8, 1, []float64{0, 1, 2, 3, 0, 1, 2, 3})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 8; i++ {
		if math.Abs(pred.At(i, 0)-y.At(i, 0)) > 1e-12 {
			t.Errorf("Sample %d: expected %v, got %v", i, y.At(i, 0), pred.At(i, 0))
		}
	}

	score, err := dt.Score(X, y)
	if err != nil || math.Abs(score-1.0) > 1e-12 {
		t.Errorf("Expected R2 of 1, got %v (err %v)", score, err)
	}
	if dt.Tree().Root().Feature != 0 {
		t.Errorf("Root should split on the heavier feature 0, got %d", dt.Tree().Root().Feature)
	}

	if err := NewDecisionTreeRegressor(WithCriterion("gini")).Fit(X, y); !scierrors.IsConfigError(err) {
		t.Errorf("Classification criterion on a regressor should be a ConfigError, got %v", err)
	}
}
