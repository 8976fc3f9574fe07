// Package features derives composite indices and model targets from the
// state table.
package features

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"hcroi/internal/states"
)

// DefaultBenchmark is the state every other state is compared against.
const DefaultBenchmark = "MA"

// Options tunes derivation.
type Options struct {
	// Benchmark is the USPS code flagged by is_benchmark. Empty selects
	// DefaultBenchmark.
	Benchmark string
}

// Row holds one state's record together with every value derived from it.
type Row struct {
	Record states.Record

	AcademicIndex           float64
	AcademicExcellence      float64
	IncomeInequality        float64
	MobilityScore           float64
	HealthProxy             float64
	PolicyComprehensiveness float64
	Synergy                 float64
	Comprehensive           float64
	Innovation              float64
	IsBenchmark             bool

	HumanCapital     float64
	ProjectedROI     float64
	PovertyReduction float64
}

// ErrEmptyTable is returned when there is nothing to derive from.
var ErrEmptyTable = errors.New("features: empty state table")

// Derive computes one Row per record, preserving table order.
func Derive(table states.Table, opts Options) (Frame, error) {
	if table.Len() == 0 {
		return Frame{}, ErrEmptyTable
	}
	bench := strings.ToUpper(strings.TrimSpace(opts.Benchmark))
	if bench == "" {
		bench = DefaultBenchmark
	}
	if _, ok := table.Lookup(bench); !ok {
		return Frame{}, fmt.Errorf("features: benchmark state %q not in table", bench)
	}

	records := table.Records()
	rows := make([]Row, len(records))
	math8 := make([]float64, len(records))
	reading8 := make([]float64, len(records))
	for i, rec := range records {
		math8[i] = rec.Math8
		reading8[i] = rec.Reading8
	}
	maxMath, maxReading := floats.Max(math8), floats.Max(reading8)
	if maxMath <= 0 || maxReading <= 0 {
		return Frame{}, fmt.Errorf("features: non-positive maximum score (math %v, reading %v)", maxMath, maxReading)
	}

	for i, rec := range records {
		r := Row{Record: rec, IsBenchmark: rec.Code == bench}
		r.AcademicIndex = 0.5*rec.Math8 + 0.5*rec.Reading8
		r.AcademicExcellence = rec.Math8/maxMath*50 + rec.Reading8/maxReading*50
		r.IncomeInequality = rec.Income75 / rec.Income25
		r.MobilityScore = rec.MobilityIndex * 10
		r.HealthProxy = healthProxy(rec)
		r.PolicyComprehensiveness = policyComprehensiveness(rec)
		r.Synergy = r.AcademicIndex * r.HealthProxy / 100
		r.Comprehensive = 0.3*r.AcademicExcellence + 0.3*r.MobilityScore +
			0.2*r.HealthProxy + 0.2*r.PolicyComprehensiveness
		r.Innovation = innovation(rec, r.AcademicIndex)
		rows[i] = r
	}
	computeTargets(rows)
	return newFrame(rows, bench), nil
}

func healthProxy(rec states.Record) float64 {
	mortality := scalePercent.Clamp(100 - 5*rec.ChildMortality)
	insured := scalePercent.Clamp(100 - rec.UninsuredChildrenPct)
	return scalePercent.Clamp((mortality + insured) / 2)
}

func policyComprehensiveness(rec states.Record) float64 {
	return (rec.BreakfastParticipation/100*0.4 + flag(rec.UniversalMeals)*0.6) * 100
}

func innovation(rec states.Record, api float64) float64 {
	score := 0.0
	if rec.UniversalMeals {
		score += 25
	}
	if api > 275 {
		score += 20
	}
	if rec.MobilityIndex > 6 {
		score += 20
	}
	if rec.UninsuredChildrenPct < 4 {
		score += 20
	}
	if rec.BreakfastParticipation > 80 {
		score += 15
	}
	return score
}

// computeTargets fills the three target columns. Each depends on table-wide
// aggregates of the derived columns, so it runs once every row is populated.
func computeTargets(rows []Row) {
	api := make([]float64, len(rows))
	mobility := make([]float64, len(rows))
	mobScore := make([]float64, len(rows))
	for i, r := range rows {
		api[i] = r.AcademicIndex
		mobility[i] = r.Record.MobilityIndex
		mobScore[i] = r.MobilityScore
	}
	maxAPI, maxMobility := floats.Max(api), floats.Max(mobility)
	meanAPI, meanMobScore := stat.Mean(api, nil), stat.Mean(mobScore, nil)

	for i := range rows {
		r := &rows[i]
		hc := r.HealthProxy/100*20 + r.PolicyComprehensiveness/100*10
		if maxAPI > 0 {
			hc += r.AcademicIndex / maxAPI * 40
		}
		if maxMobility > 0 {
			hc += r.Record.MobilityIndex / maxMobility * 30
		}
		r.HumanCapital = scalePercent.Clamp(hc)

		bench := flag(r.IsBenchmark)
		roi := 3.5 + 1.2*bench + (r.AcademicIndex-meanAPI)/100 +
			(r.HealthProxy-50)/200 + r.PolicyComprehensiveness/500
		r.ProjectedROI = scaleROI.Clamp(roi)

		pov := 15 + 10*bench + (r.AcademicExcellence-50)/5 + (r.MobilityScore-meanMobScore)/2
		r.PovertyReduction = scaleReductions.Clamp(pov)
	}
}
