package learn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type linear struct {
	scale     scaler
	coef      []float64
	intercept float64
}

func (l *linear) predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		z := l.scale.apply(row)
		v := l.intercept
		for j, c := range l.coef {
			v += c * z[j]
		}
		out[i] = v
	}
	return out
}

func (l *linear) importance() []float64 {
	w := make([]float64, len(l.coef))
	for i, c := range l.coef {
		w[i] = math.Abs(c)
	}
	return normalize(w)
}

// Ridge is L2-penalised least squares solved in closed form.
type Ridge struct {
	Alpha float64
	linear
}

// NewRidge returns an unfitted ridge regressor with penalty alpha.
func NewRidge(alpha float64) *Ridge { return &Ridge{Alpha: alpha} }

// Name reports the configured model name.
func (r *Ridge) Name() string { return "ridge" }

// Fit solves the normal equations on standardised features.
func (r *Ridge) Fit(x [][]float64, y []float64) error {
	n, p, err := checkShape(x, y)
	if err != nil {
		return err
	}
	r.scale = fitScaler(x, p)
	z := mat.NewDense(n, p, nil)
	for i, row := range x {
		z.SetRow(i, r.scale.apply(row))
	}
	yMean := stat.Mean(y, nil)
	yc := mat.NewVecDense(n, nil)
	for i, v := range y {
		yc.SetVec(i, v-yMean)
	}

	gram := mat.NewSymDense(p, nil)
	gram.SymOuterK(1, z.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+r.Alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(z.T(), yc)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return fmt.Errorf("ridge: normal equations not positive definite (alpha %v)", r.Alpha)
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &rhs); err != nil {
		return fmt.Errorf("ridge: solve: %w", err)
	}
	r.coef = make([]float64, p)
	for j := range r.coef {
		r.coef[j] = beta.AtVec(j)
	}
	r.intercept = yMean
	return nil
}

// Predict applies the fitted coefficients to each row.
func (r *Ridge) Predict(x [][]float64) []float64 { return r.predict(x) }

// Importance returns normalised absolute standardised coefficients.
func (r *Ridge) Importance() []float64 { return r.importance() }

// ElasticNet minimises
//
//	1/(2n)·‖y − Xw‖² + α·ρ·‖w‖₁ + α·(1−ρ)/2·‖w‖²
//
// by cyclic coordinate descent on standardised features.
type ElasticNet struct {
	Alpha   float64
	L1Ratio float64
	MaxIter int
	Tol     float64
	linear
}

// NewElasticNet returns an unfitted elastic net with the given penalty mix.
func NewElasticNet(alpha, l1Ratio float64) *ElasticNet {
	return &ElasticNet{Alpha: alpha, L1Ratio: l1Ratio, MaxIter: 1000, Tol: 1e-4}
}

// Name reports the configured model name.
func (e *ElasticNet) Name() string { return "elastic_net" }

// Fit runs coordinate descent until the coefficients settle.
func (e *ElasticNet) Fit(x [][]float64, y []float64) error {
	n, p, err := checkShape(x, y)
	if err != nil {
		return err
	}
	e.scale = fitScaler(x, p)
	z := make([][]float64, n)
	for i, row := range x {
		z[i] = e.scale.apply(row)
	}
	yMean := stat.Mean(y, nil)
	resid := make([]float64, n)
	for i, v := range y {
		resid[i] = v - yMean
	}
	norms := make([]float64, p)
	for j := 0; j < p; j++ {
		for i := range z {
			norms[j] += z[i][j] * z[i][j]
		}
		norms[j] /= float64(n)
	}

	l1 := e.Alpha * e.L1Ratio
	l2 := e.Alpha * (1 - e.L1Ratio)
	w := make([]float64, p)
	for iter := 0; iter < e.MaxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if norms[j] == 0 {
				continue
			}
			rho := 0.0
			for i := range z {
				rho += z[i][j] * (resid[i] + z[i][j]*w[j])
			}
			rho /= float64(n)
			next := softThreshold(rho, l1) / (norms[j] + l2)
			if delta := next - w[j]; delta != 0 {
				for i := range z {
					resid[i] -= z[i][j] * delta
				}
				maxDelta = math.Max(maxDelta, math.Abs(delta))
				w[j] = next
			}
		}
		if maxDelta < e.Tol {
			break
		}
	}
	e.coef = w
	e.intercept = yMean
	return nil
}

// Predict applies the fitted coefficients to each row.
func (e *ElasticNet) Predict(x [][]float64) []float64 { return e.predict(x) }

// Importance returns normalised absolute standardised coefficients.
func (e *ElasticNet) Importance() []float64 { return e.importance() }

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	default:
		return 0
	}
}
