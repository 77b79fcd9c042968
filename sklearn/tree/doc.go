// Package tree implements greedy binary decision trees over {0,1} indicator
// features.
//
// A tree is grown top-down: at every node the feature with the largest
// strictly positive information gain is chosen, rows with value 1 go to the
// left child and rows with value 0 to the right child. Growth stops when a
// node is pure, when the depth limit is reached, or when no feature improves
// impurity. Leaves predict the (weighted) majority class or the (weighted)
// mean target.
//
// Nodes live in a flat arena addressed by index, so a Tree owns its whole node
// graph and can be copied, shared read-only between goroutines, or encoded
// with gob.
//
// Two layers are exposed: a functional layer (TrainTree, PredictTree, Grow,
// BestSplit) used by the ensemble package, and scikit-learn style estimators
// (DecisionTreeClassifier, DecisionTreeRegressor).
package tree
