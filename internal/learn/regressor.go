// Package learn fits regression models to the derived feature table and
// selects the best one by cross-validated R².
package learn

import (
	"errors"
	"fmt"
)

// Regressor is a trainable model over a dense feature matrix.
type Regressor interface {
	Name() string
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) []float64
	// Importance returns one non-negative weight per feature, summing to 1
	// unless every weight is zero.
	Importance() []float64
}

// Candidate builds a fresh, unfitted estimator so every fold trains from
// scratch.
type Candidate struct {
	Name string
	New  func() Regressor
}

// DefaultSeed seeds every stochastic estimator and the fold shuffle.
const DefaultSeed = 42

// ErrShape reports inconsistent training input.
var ErrShape = errors.New("learn: inconsistent input shape")

func checkShape(x [][]float64, y []float64) (n, p int, err error) {
	n = len(x)
	if n == 0 || n != len(y) {
		return 0, 0, fmt.Errorf("%w: %d rows, %d targets", ErrShape, n, len(y))
	}
	p = len(x[0])
	if p == 0 {
		return 0, 0, fmt.Errorf("%w: no features", ErrShape)
	}
	for i, row := range x {
		if len(row) != p {
			return 0, 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), p)
		}
	}
	return n, p, nil
}

func normalize(w []float64) []float64 {
	out := make([]float64, len(w))
	total := 0.0
	for _, v := range w {
		total += v
	}
	if total <= 0 {
		return out
	}
	for i, v := range w {
		out[i] = v / total
	}
	return out
}

func subset(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
