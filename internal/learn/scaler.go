package learn

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// scaler standardises columns to zero mean and unit variance. Constant
// columns keep a unit divisor so they map to zero.
type scaler struct {
	mean []float64
	std  []float64
}

func fitScaler(x [][]float64, p int) scaler {
	s := scaler{mean: make([]float64, p), std: make([]float64, p)}
	col := make([]float64, len(x))
	for j := 0; j < p; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		m, sd := stat.MeanStdDev(col, nil)
		if len(x) < 2 || sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		s.mean[j], s.std[j] = m, sd
	}
	return s
}

func (s scaler) apply(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}
