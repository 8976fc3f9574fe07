package learn

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Score is a candidate's cross-validation record.
type Score struct {
	Model  string    `json:"model"`
	FoldR2 []float64 `json:"fold_r2"`
	MeanR2 float64   `json:"mean_r2"`
	StdR2  float64   `json:"std_r2"`
	MSE    float64   `json:"mse"`
	MAE    float64   `json:"mae"`
}

// CrossValidate trains a fresh estimator per fold and scores it on the
// held-out rows. MSE and MAE are computed over the pooled out-of-fold
// predictions.
func CrossValidate(c Candidate, x [][]float64, y []float64, folds []Fold) (Score, error) {
	if _, _, err := checkShape(x, y); err != nil {
		return Score{}, err
	}
	if len(folds) == 0 {
		return Score{}, errors.New("cross-validate: no folds")
	}
	score := Score{Model: c.Name, FoldR2: make([]float64, len(folds))}
	oof := make([]float64, len(y))
	for f, fold := range folds {
		trainX, trainY := subset(x, y, fold.Train)
		testX, testY := subset(x, y, fold.Test)
		model := c.New()
		if err := model.Fit(trainX, trainY); err != nil {
			return Score{}, fmt.Errorf("cross-validate %s fold %d: %w", c.Name, f, err)
		}
		pred := model.Predict(testX)
		score.FoldR2[f] = R2(testY, pred)
		for i, row := range fold.Test {
			oof[row] = pred[i]
		}
	}
	score.MeanR2, score.StdR2 = stat.MeanStdDev(score.FoldR2, nil)
	if len(folds) < 2 {
		score.StdR2 = 0
	}
	score.MSE = MSE(y, oof)
	score.MAE = MAE(y, oof)
	return score, nil
}

// Selection is the outcome of comparing candidates on one target.
type Selection struct {
	Target     string
	Scores     []Score
	Best       int
	Model      Regressor
	Importance []float64
}

// BestScore returns the winning candidate's score.
func (s Selection) BestScore() Score { return s.Scores[s.Best] }

// Select cross-validates every candidate and keeps the one with the highest
// mean R². Ties go to the earlier candidate. The winner is refit on all rows.
func Select(target string, candidates []Candidate, x [][]float64, y []float64, folds []Fold) (Selection, error) {
	if len(candidates) == 0 {
		return Selection{}, errors.New("select: no candidates")
	}
	sel := Selection{Target: target, Scores: make([]Score, len(candidates))}
	best := math.Inf(-1)
	for i, c := range candidates {
		s, err := CrossValidate(c, x, y, folds)
		if err != nil {
			return Selection{}, fmt.Errorf("select %s: %w", target, err)
		}
		sel.Scores[i] = s
		if !math.IsNaN(s.MeanR2) && s.MeanR2 > best {
			best, sel.Best = s.MeanR2, i
		}
	}
	if math.IsInf(best, -1) {
		return Selection{}, fmt.Errorf("select %s: no candidate produced a finite mean R²", target)
	}
	model := candidates[sel.Best].New()
	if err := model.Fit(x, y); err != nil {
		return Selection{}, fmt.Errorf("select %s: refit %s: %w", target, candidates[sel.Best].Name, err)
	}
	sel.Model = model
	sel.Importance = model.Importance()
	return sel, nil
}

// Weight pairs a feature name with its importance.
type Weight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Rank orders features by descending importance, keeping input order on ties.
func Rank(names []string, importance []float64) []Weight {
	out := make([]Weight, 0, len(names))
	for i, n := range names {
		if i < len(importance) {
			out = append(out, Weight{Feature: n, Importance: importance[i]})
		}
	}
	slices.SortStableFunc(out, func(a, b Weight) int { return cmp.Compare(b.Importance, a.Importance) })
	return out
}
