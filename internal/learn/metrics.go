package learn

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// R2 is the coefficient of determination. A constant truth scores 1 when
// matched exactly and 0 otherwise.
func R2(truth, pred []float64) float64 {
	mean := stat.Mean(truth, nil)
	var ssRes, ssTot float64
	for i, v := range truth {
		ssRes += (v - pred[i]) * (v - pred[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// MSE is the mean squared error.
func MSE(truth, pred []float64) float64 {
	sum := 0.0
	for i, v := range truth {
		sum += (v - pred[i]) * (v - pred[i])
	}
	return sum / float64(len(truth))
}

// MAE is the mean absolute error.
func MAE(truth, pred []float64) float64 {
	sum := 0.0
	for i, v := range truth {
		sum += math.Abs(v - pred[i])
	}
	return sum / float64(len(truth))
}
