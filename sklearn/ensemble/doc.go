// Package ensemble combines binary decision trees from package tree into
// bagged, random-forest and boosted ensembles.
//
// Four training modes are supported:
//
//   - Bagging: each member is trained on a bootstrap resample of the rows.
//   - RandomForest: bagging plus a per-member random subset of feature columns.
//   - ResidualBoost: each member is a regression tree fitted to the residuals
//     of the ensemble so far and scaled by a learning rate.
//   - ReweightBoost: binary AdaBoost. Each member is trained with sample
//     weights that emphasise rows the previous members misclassified.
//
// An Ensemble is an append-only list of weighted members. Predictions combine
// members by hard vote, soft vote or weighted sum, optionally using only the
// first k members so that accuracy can be evaluated round by round.
//
// Low-level entry points are TrainEnsemble and Ensemble.Predict. The
// BaggingClassifier, RandomForestClassifier, BaggingRegressor,
// GradientBoostingRegressor and AdaBoostClassifier types wrap them with the
// scikit-learn style Fit/Predict/Score API.
package ensemble
