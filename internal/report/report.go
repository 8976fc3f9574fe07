// Package report renders the derived table, model selections and scenario
// outcomes into the run's artifacts and writes them to the blob store.
package report

import (
	"fmt"
	"slices"
	"strings"

	"hcroi/internal/features"
	"hcroi/internal/learn"
	"hcroi/internal/scenario"
	"hcroi/internal/states"
)

// Format identifies an artifact encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "text"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	// FormatProm is the Prometheus text exposition written by the pipeline.
	FormatProm Format = "prom"
)

// Formats lists the renderable formats in the order they are materialised.
var Formats = []Format{FormatCSV, FormatText, FormatPNG, FormatHTML, FormatXLSX, FormatJSON}

// ContentType returns the MIME type stored alongside the artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	case FormatProm:
		return "text/plain; version=0.0.4"
	default:
		return "application/octet-stream"
	}
}

// ParseFormats validates format names, dropping duplicates. An empty list
// selects every renderable format.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return slices.Clone(Formats), nil
	}
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if !slices.Contains(Formats, f) {
			return nil, fmt.Errorf("unsupported artifact format %q", n)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Artifact is one rendered file. Name is relative to the run prefix.
type Artifact struct {
	Name     string
	Format   Format
	Payload  []byte
	Metadata map[string]string
}

// Input is everything the renderers read. Selections are in target order;
// the first is the ROI target.
type Input struct {
	RunID      string
	Frame      features.Frame
	Selections []learn.Selection
	Outcomes   []scenario.Outcome
	Summaries  []scenario.Summary
	Sources    []states.Source
}

func (in Input) selection(target string) (learn.Selection, bool) {
	for _, s := range in.Selections {
		if s.Target == target {
			return s, true
		}
	}
	return learn.Selection{}, false
}

// predictions returns in-sample predictions of each selected model, keyed by
// target.
func (in Input) predictions() map[string][]float64 {
	x := in.Frame.FeatureMatrix()
	out := make(map[string][]float64, len(in.Selections))
	for _, s := range in.Selections {
		if s.Model != nil {
			out[s.Target] = s.Model.Predict(x)
		}
	}
	return out
}

// Render materialises the artifacts for the requested formats. Output order
// follows Formats regardless of request order so repeated runs list the
// same artifacts identically.
func Render(in Input, formats []Format) ([]Artifact, error) {
	if in.Frame.Len() == 0 {
		return nil, fmt.Errorf("render: %w", features.ErrEmptyTable)
	}
	var out []Artifact
	for _, f := range Formats {
		if !slices.Contains(formats, f) {
			continue
		}
		arts, err := materialize(f, in)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		out = append(out, arts...)
	}
	return out, nil
}

func materialize(format Format, in Input) ([]Artifact, error) {
	rows := fmt.Sprint(in.Frame.Len())
	switch format {
	case FormatCSV:
		derived, err := DerivedCSV(in.Frame)
		if err != nil {
			return nil, err
		}
		preds, err := PredictionsCSV(in)
		if err != nil {
			return nil, err
		}
		return []Artifact{
			{Name: "derived_table.csv", Format: FormatCSV, Payload: derived, Metadata: map[string]string{"rows": rows}},
			{Name: "predictions.csv", Format: FormatCSV, Payload: preds, Metadata: map[string]string{"rows": rows}},
		}, nil
	case FormatText:
		return []Artifact{{Name: "summary.txt", Format: FormatText, Payload: Text(in)}}, nil
	case FormatPNG:
		bars, err := ROIBarChart(in.Frame)
		if err != nil {
			return nil, err
		}
		scatter, err := ROIScatter(in.Frame)
		if err != nil {
			return nil, err
		}
		return []Artifact{
			{Name: "roi_by_state.png", Format: FormatPNG, Payload: bars},
			{Name: "roi_vs_academic.png", Format: FormatPNG, Payload: scatter},
		}, nil
	case FormatHTML:
		dash, err := Dashboard(in)
		if err != nil {
			return nil, err
		}
		scen, err := ScenarioDashboard(in)
		if err != nil {
			return nil, err
		}
		return []Artifact{
			{Name: "dashboard.html", Format: FormatHTML, Payload: dash},
			{Name: "scenarios.html", Format: FormatHTML, Payload: scen},
		}, nil
	case FormatXLSX:
		book, err := Workbook(in)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Name: "workbook.xlsx", Format: FormatXLSX, Payload: book, Metadata: map[string]string{"rows": rows}}}, nil
	case FormatJSON:
		payload, err := ModelSummaryJSON(in)
		if err != nil {
			return nil, err
		}
		return []Artifact{{Name: "model_summary.json", Format: FormatJSON, Payload: payload}}, nil
	default:
		return nil, fmt.Errorf("unsupported artifact format %s", format)
	}
}
