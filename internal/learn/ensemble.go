package learn

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RandomForest averages depth-limited trees grown on bootstrap samples.
type RandomForest struct {
	Trees    int
	MaxDepth int
	Seed     uint64

	trees      []*regressionTree
	importance []float64
}

// NewRandomForest returns an unfitted forest whose bootstrap draws come from seed.
func NewRandomForest(trees, maxDepth int, seed uint64) *RandomForest {
	return &RandomForest{Trees: trees, MaxDepth: maxDepth, Seed: seed}
}

// Name reports the configured model name.
func (f *RandomForest) Name() string { return "random_forest" }

// Fit grows one tree per bootstrap sample of the rows.
func (f *RandomForest) Fit(x [][]float64, y []float64) error {
	n, p, err := checkShape(x, y)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(f.Seed, f.Seed))
	f.trees = make([]*regressionTree, f.Trees)
	imp := make([]float64, p)
	sample := make([]int, n)
	for t := range f.trees {
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
		tree := growTree(x, y, sample, p, f.MaxDepth)
		f.trees[t] = tree
		floats.Add(imp, normalize(tree.importance))
	}
	f.importance = normalize(imp)
	return nil
}

// Predict averages the tree predictions.
func (f *RandomForest) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(f.trees) == 0 {
		return out
	}
	for i, row := range x {
		sum := 0.0
		for _, t := range f.trees {
			sum += t.predictRow(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out
}

// Importance returns the split-gain share of each feature.
func (f *RandomForest) Importance() []float64 { return append([]float64(nil), f.importance...) }

// GradientBoosting fits shallow trees to squared-error residuals, starting
// from the target mean.
type GradientBoosting struct {
	Stages       int
	MaxDepth     int
	LearningRate float64

	init       float64
	trees      []*regressionTree
	importance []float64
}

// NewGradientBoosting returns an unfitted booster with the given shrinkage.
func NewGradientBoosting(stages, maxDepth int, learningRate float64) *GradientBoosting {
	return &GradientBoosting{Stages: stages, MaxDepth: maxDepth, LearningRate: learningRate}
}

// Name reports the configured model name.
func (g *GradientBoosting) Name() string { return "gradient_boosting" }

// Fit adds one residual tree per stage.
func (g *GradientBoosting) Fit(x [][]float64, y []float64) error {
	n, p, err := checkShape(x, y)
	if err != nil {
		return err
	}
	g.init = stat.Mean(y, nil)
	g.trees = g.trees[:0]
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.init
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	resid := make([]float64, n)
	imp := make([]float64, p)
	for s := 0; s < g.Stages; s++ {
		for i := range resid {
			resid[i] = y[i] - pred[i]
		}
		tree := growTree(x, resid, all, p, g.MaxDepth)
		if len(tree.nodes) == 1 {
			break
		}
		g.trees = append(g.trees, tree)
		floats.Add(imp, tree.importance)
		for i, row := range x {
			pred[i] += g.LearningRate * tree.predictRow(row)
		}
	}
	g.importance = normalize(imp)
	return nil
}

// Predict sums the shrunken stage outputs onto the target mean.
func (g *GradientBoosting) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		v := g.init
		for _, t := range g.trees {
			v += g.LearningRate * t.predictRow(row)
		}
		out[i] = v
	}
	return out
}

// Importance returns the split-gain share of each feature.
func (g *GradientBoosting) Importance() []float64 { return append([]float64(nil), g.importance...) }
