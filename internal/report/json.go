package report

import (
	"encoding/json"

	"hcroi/internal/features"
	"hcroi/internal/learn"
	"hcroi/internal/scenario"
)

type targetSummary struct {
	Target     string         `json:"target"`
	Selected   string         `json:"selected_model"`
	Scores     []learn.Score  `json:"scores"`
	Importance []learn.Weight `json:"importance"`
}

type modelSummary struct {
	RunID     string             `json:"run_id"`
	Benchmark string             `json:"benchmark"`
	States    int                `json:"states"`
	Features  []string           `json:"features"`
	Targets   []targetSummary    `json:"targets"`
	Scenarios []scenario.Summary `json:"scenarios,omitempty"`
}

// ModelSummaryJSON renders the per-target leaderboards, importances and
// scenario means as indented JSON.
func ModelSummaryJSON(in Input) ([]byte, error) {
	names := features.FeatureNames()
	out := modelSummary{
		RunID:     in.RunID,
		Benchmark: in.Frame.Benchmark(),
		States:    in.Frame.Len(),
		Features:  names,
		Scenarios: in.Summaries,
	}
	for _, s := range in.Selections {
		ts := targetSummary{Target: s.Target, Scores: s.Scores, Importance: learn.Rank(names, s.Importance)}
		if len(s.Scores) > 0 {
			ts.Selected = s.BestScore().Model
		}
		out.Targets = append(out.Targets, ts)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
