// Package scenario applies policy scenarios to the feature matrix and
// predicts every target with its selected model.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"hcroi/internal/features"
	"hcroi/internal/learn"
)

// Scenario names in presentation order.
const (
	StatusQuo           = "Status Quo"
	BenchmarkModel      = "Benchmark Model"
	UniversalPrograms   = "Universal Programs"
	ComprehensiveReform = "Comprehensive Reform"
)

// Scenario rewrites a copy of the feature matrix in place. bench is the
// benchmark state's unmodified feature row.
type Scenario struct {
	Name  string
	Apply func(x [][]float64, bench []float64)
}

// Defaults returns the four standard scenarios.
func Defaults() []Scenario {
	return []Scenario{
		{Name: StatusQuo, Apply: func([][]float64, []float64) {}},
		{Name: BenchmarkModel, Apply: applyBenchmark},
		{Name: UniversalPrograms, Apply: applyUniversal},
		{Name: ComprehensiveReform, Apply: applyComprehensive},
	}
}

var (
	colAPI         = features.FeatureIndex(features.ColAcademicIndex)
	colMobility    = features.FeatureIndex(features.ColMobilityScore)
	colHealth      = features.FeatureIndex(features.ColHealthProxy)
	colPolicy      = features.FeatureIndex(features.ColPolicyComp)
	colMeals       = features.FeatureIndex(features.ColUniversalMeals)
	colInnovation  = features.FeatureIndex(features.ColInnovation)
	colBreakfast   = features.FeatureIndex(features.ColBreakfast)
	colUninsured   = features.FeatureIndex(features.ColUninsured)
	benchmarkGoals = []int{colAPI, colMobility, colHealth, colPolicy}
)

// benchmarkShare is how far each state closes the gap to the benchmark.
const benchmarkShare = 0.8

func applyBenchmark(x [][]float64, bench []float64) {
	for _, row := range x {
		for _, c := range benchmarkGoals {
			row[c] += (bench[c] - row[c]) * benchmarkShare
		}
		row[colMeals] = 1
		row[colInnovation] += 25
	}
}

func applyUniversal(x [][]float64, _ []float64) {
	for _, row := range x {
		row[colMeals] = 1
		row[colBreakfast] = math.Max(row[colBreakfast], 85)
		row[colUninsured] = math.Min(row[colUninsured], 3)
		row[colPolicy] = math.Max(row[colPolicy], 70)
	}
}

func applyComprehensive(x [][]float64, bench []float64) {
	applyBenchmark(x, bench)
	applyUniversal(x, bench)
	for _, row := range x {
		row[colAPI] += 10
		row[colMobility] += 5
		row[colHealth] += 15
		row[colInnovation] = 100
	}
}

// Outcome is one state's predicted targets under one scenario. Innovation
// is the state's policy innovation score after the scenario was applied.
type Outcome struct {
	Scenario    string             `json:"scenario"`
	StateCode   string             `json:"state_code"`
	StateName   string             `json:"state_name"`
	Innovation  float64            `json:"policy_innovation_score"`
	Predictions map[string]float64 `json:"predictions"`
}

// Run applies every scenario to a fresh copy of the frame's feature matrix
// and predicts with each selection's fitted model. Outcomes are ordered by
// scenario, then by state.
func Run(frame features.Frame, selections []learn.Selection, scenarios []Scenario) ([]Outcome, error) {
	if len(selections) == 0 {
		return nil, errors.New("scenario: no fitted models")
	}
	for _, sel := range selections {
		if sel.Model == nil {
			return nil, fmt.Errorf("scenario: target %s has no fitted model", sel.Target)
		}
	}
	benchRow := -1
	for i := 0; i < frame.Len(); i++ {
		if frame.Row(i).IsBenchmark {
			benchRow = i
			break
		}
	}
	if benchRow < 0 {
		return nil, errors.New("scenario: frame has no benchmark state")
	}
	base := frame.FeatureMatrix()
	bench := append([]float64(nil), base[benchRow]...)

	out := make([]Outcome, 0, len(scenarios)*frame.Len())
	for _, sc := range scenarios {
		x := cloneMatrix(base)
		sc.Apply(x, bench)
		preds := make([][]float64, len(selections))
		for t, sel := range selections {
			preds[t] = sel.Model.Predict(x)
		}
		for i := 0; i < frame.Len(); i++ {
			rec := frame.Row(i).Record
			o := Outcome{
				Scenario:    sc.Name,
				StateCode:   rec.Code,
				StateName:   rec.Name,
				Innovation:  x[i][colInnovation],
				Predictions: make(map[string]float64, len(selections)),
			}
			for t, sel := range selections {
				o.Predictions[sel.Target] = preds[t][i]
			}
			out = append(out, o)
		}
	}
	return out, nil
}

// Summary is the mean prediction per target for one scenario.
type Summary struct {
	Scenario string             `json:"scenario"`
	States   int                `json:"states"`
	Means    map[string]float64 `json:"means"`
}

// Summarise averages outcomes per scenario, in first-seen scenario order.
func Summarise(outcomes []Outcome) []Summary {
	var order []string
	sums := make(map[string]*Summary)
	for _, o := range outcomes {
		s, ok := sums[o.Scenario]
		if !ok {
			s = &Summary{Scenario: o.Scenario, Means: make(map[string]float64)}
			sums[o.Scenario] = s
			order = append(order, o.Scenario)
		}
		s.States++
		for k, v := range o.Predictions {
			s.Means[k] += v
		}
	}
	out := make([]Summary, 0, len(order))
	for _, name := range order {
		s := sums[name]
		for k := range s.Means {
			s.Means[k] /= float64(s.States)
		}
		out = append(out, *s)
	}
	return out
}

func cloneMatrix(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
