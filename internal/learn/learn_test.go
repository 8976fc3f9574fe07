package learn

import (
	"math"
	"testing"

	"hcroi/internal/features"
	"hcroi/internal/states"
)

func linearData(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		a, b := float64(i), float64((i*7)%11)
		x[i] = []float64{a, b, 5}
		y[i] = 2*a - b + 3
	}
	return x, y
}

func stepData(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		v := float64(i % 10)
		x[i] = []float64{v, float64((i * 3) % 4)}
		if v > 4.5 {
			y[i] = 10
		}
	}
	return x, y
}

// stateCandidates mirrors the four estimators config.Default configures.
func stateCandidates(seed uint64) []Candidate {
	return []Candidate{
		{Name: "random_forest", New: func() Regressor { return NewRandomForest(100, 3, seed) }},
		{Name: "gradient_boosting", New: func() Regressor { return NewGradientBoosting(100, 3, 0.1) }},
		{Name: "ridge", New: func() Regressor { return NewRidge(1.0) }},
		{Name: "elastic_net", New: func() Regressor { return NewElasticNet(0.1, 0.5) }},
	}
}

func TestKFoldPartitionsRowsDeterministically(t *testing.T) {
	folds, err := KFold(50, 5, DefaultSeed)
	if err != nil {
		t.Fatalf("kfold: %v", err)
	}
	seen := make(map[int]int)
	for _, f := range folds {
		if len(f.Test) != 10 || len(f.Train) != 40 {
			t.Fatalf("unexpected fold sizes %d/%d", len(f.Train), len(f.Test))
		}
		for _, i := range f.Test {
			seen[i]++
		}
	}
	if len(seen) != 50 {
		t.Fatalf("expected every row tested once, got %d rows", len(seen))
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("row %d tested %d times", i, c)
		}
	}
	again, _ := KFold(50, 5, DefaultSeed)
	for f := range folds {
		for i := range folds[f].Test {
			if folds[f].Test[i] != again[f].Test[i] {
				t.Fatalf("fold %d differs between runs", f)
			}
		}
	}
	if _, err := KFold(3, 1, 1); err == nil {
		t.Fatal("expected error for k=1")
	}
	if _, err := KFold(3, 4, 1); err == nil {
		t.Fatal("expected error for k>n")
	}
}

func TestRidgeRecoversLinearRelation(t *testing.T) {
	x, y := linearData(30)
	r := NewRidge(1e-6)
	if err := r.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := R2(y, r.Predict(x)); got < 0.9999 {
		t.Fatalf("expected near-perfect fit, got R2=%v", got)
	}
	imp := r.Importance()
	if imp[0] <= imp[1] || imp[2] != 0 {
		t.Fatalf("unexpected importance %v", imp)
	}
}

func TestElasticNetShrinksButTracksSignal(t *testing.T) {
	x, y := linearData(30)
	e := NewElasticNet(0.1, 0.5)
	if err := e.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := R2(y, e.Predict(x)); got < 0.95 {
		t.Fatalf("expected strong fit, got R2=%v", got)
	}
	if imp := e.Importance(); imp[0] <= imp[1] {
		t.Fatalf("expected first feature to dominate, got %v", imp)
	}
}

func TestTreeEnsemblesLearnStepFunction(t *testing.T) {
	x, y := stepData(40)
	for _, m := range []Regressor{NewRandomForest(20, 3, DefaultSeed), NewGradientBoosting(50, 3, 0.1)} {
		if err := m.Fit(x, y); err != nil {
			t.Fatalf("%s fit: %v", m.Name(), err)
		}
		if got := R2(y, m.Predict(x)); got < 0.95 {
			t.Fatalf("%s: expected R2 >= 0.95, got %v", m.Name(), got)
		}
		if imp := m.Importance(); imp[0] < 0.99 {
			t.Fatalf("%s: expected split feature to carry the importance, got %v", m.Name(), imp)
		}
	}
}

func TestRandomForestIsDeterministic(t *testing.T) {
	x, y := linearData(25)
	a, b := NewRandomForest(10, 3, 7), NewRandomForest(10, 3, 7)
	if err := a.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if err := b.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	pa, pb := a.Predict(x), b.Predict(x)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("prediction %d differs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestFitRejectsBadShape(t *testing.T) {
	if err := NewRidge(1).Fit([][]float64{{1}, {2, 3}}, []float64{1, 2}); err == nil {
		t.Fatal("expected ragged input error")
	}
	if err := NewElasticNet(0.1, 0.5).Fit(nil, nil); err == nil {
		t.Fatal("expected empty input error")
	}
}

type meanRegressor struct{ mean float64 }

func (m *meanRegressor) Name() string { return "mean" }
func (m *meanRegressor) Fit(_ [][]float64, y []float64) error {
	m.mean = 0
	for _, v := range y {
		m.mean += v
	}
	m.mean /= float64(len(y))
	return nil
}
func (m *meanRegressor) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = m.mean
	}
	return out
}
func (m *meanRegressor) Importance() []float64 { return []float64{0, 0, 0} }

func TestSelectPicksHighestMeanR2(t *testing.T) {
	x, y := linearData(30)
	folds, err := KFold(len(y), 5, DefaultSeed)
	if err != nil {
		t.Fatalf("kfold: %v", err)
	}
	candidates := []Candidate{
		{Name: "mean", New: func() Regressor { return &meanRegressor{} }},
		{Name: "ridge", New: func() Regressor { return NewRidge(1e-6) }},
	}
	sel, err := Select("y", candidates, x, y, folds)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Best != 1 || sel.Model.Name() != "ridge" {
		t.Fatalf("expected ridge to win, got %d (%v)", sel.Best, sel.Scores)
	}
	if sel.Scores[0].MeanR2 >= sel.Scores[1].MeanR2 {
		t.Fatalf("expected mean model to score lower: %v", sel.Scores)
	}
}

func TestSelectTieKeepsEarlierCandidate(t *testing.T) {
	x, y := linearData(20)
	folds, _ := KFold(len(y), 4, DefaultSeed)
	mk := func() Regressor { return NewRidge(1) }
	sel, err := Select("y", []Candidate{{Name: "first", New: mk}, {Name: "second", New: mk}}, x, y, folds)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Best != 0 {
		t.Fatalf("expected tie to keep first candidate, got %d", sel.Best)
	}
}

type nanRegressor struct{ meanRegressor }

func (m *nanRegressor) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func TestSelectFailsWithoutFiniteScore(t *testing.T) {
	x, y := linearData(20)
	folds, _ := KFold(len(y), 4, DefaultSeed)
	mk := func() Regressor { return &nanRegressor{} }
	_, err := Select("y", []Candidate{{Name: "a", New: mk}, {Name: "b", New: mk}}, x, y, folds)
	if err == nil {
		t.Fatal("expected an error when every mean R² is NaN")
	}
}

func TestSelectOnStateTableChoosesArgmax(t *testing.T) {
	table, err := states.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	frame, err := features.Derive(table, features.Options{})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	y, err := frame.Target(features.ColProjectedROI)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	folds, err := KFold(frame.Len(), 5, DefaultSeed)
	if err != nil {
		t.Fatalf("kfold: %v", err)
	}
	sel, err := Select(features.ColProjectedROI, stateCandidates(DefaultSeed), frame.FeatureMatrix(), y, folds)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(sel.Scores) != 4 {
		t.Fatalf("expected 4 scores, got %d", len(sel.Scores))
	}
	for i, s := range sel.Scores {
		if s.MeanR2 > sel.BestScore().MeanR2 {
			t.Fatalf("candidate %d (%s) outscored the selection", i, s.Model)
		}
		if math.IsNaN(s.MSE) || s.MSE < 0 {
			t.Fatalf("bad MSE for %s: %v", s.Model, s.MSE)
		}
	}
	if got := len(sel.Importance); got != len(features.FeatureNames()) {
		t.Fatalf("expected %d importances, got %d", len(features.FeatureNames()), got)
	}
}

func TestRankOrdersByImportance(t *testing.T) {
	got := Rank([]string{"a", "b", "c"}, []float64{0.2, 0.5, 0.2})
	if got[0].Feature != "b" || got[1].Feature != "a" || got[2].Feature != "c" {
		t.Fatalf("unexpected ranking %v", got)
	}
}

func TestMetrics(t *testing.T) {
	truth := []float64{1, 2, 3}
	if R2(truth, truth) != 1 {
		t.Fatal("perfect prediction should score 1")
	}
	if MSE(truth, []float64{2, 2, 2}) != 2.0/3.0 {
		t.Fatal("unexpected MSE")
	}
	if MAE(truth, []float64{2, 2, 2}) != 2.0/3.0 {
		t.Fatal("unexpected MAE")
	}
	if R2([]float64{4, 4}, []float64{4, 5}) != 0 {
		t.Fatal("constant truth with error should score 0")
	}
}
