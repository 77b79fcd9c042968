package metrics

import (
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（完全一致したラベルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := checkVectors("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	n := yTrue.Len()
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AccuracyMatrix は n×1 行列の組に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVectors("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(t, p)
}

// ClassificationErrorMatrix は n×1 行列の組に対して誤分類率を計算する
func ClassificationErrorMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVectors("ClassificationErrorMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ClassificationError(t, p)
}
