package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"hcroi/internal/features"
	"hcroi/internal/learn"
)

// figure is a Plotly figure specification. html/template serialises it as
// JSON with script-context escaping when it is embedded.
type figure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

type panel struct {
	ID     string
	Title  string
	Figure figure
}

type statCard struct {
	Label string
	Value string
}

type table struct {
	Title  string
	Header []string
	Rows   [][]string
}

type page struct {
	Title    string
	Subtitle string
	RunID    string
	Stats    []statCard
	Panels   []panel
	Tables   []table
	Sources  []string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta http-equiv="Content-Security-Policy" content="default-src 'self' https://cdn.plot.ly; script-src 'self' 'unsafe-inline' https://cdn.plot.ly; style-src 'self' 'unsafe-inline'">
<meta http-equiv="X-Content-Type-Options" content="nosniff">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background-color: #f8f9fa; color: #34495E; }
.container { max-width: 1400px; margin: 0 auto; background: white; padding: 20px; border-radius: 10px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); }
.header { text-align: center; margin-bottom: 30px; color: #2C3E50; }
.stats { display: flex; flex-wrap: wrap; gap: 16px; justify-content: center; }
.stat { border-left: 4px solid ` + colorEducation + `; padding: 8px 16px; min-width: 180px; }
.stat .value { font-size: 1.6em; font-weight: bold; }
.chart { width: 100%; height: 520px; margin: 24px 0; }
table { border-collapse: collapse; margin: 16px 0; width: 100%; }
th, td { border-bottom: 1px solid #ddd; padding: 6px 10px; text-align: left; }
th { background: #f1f3f5; }
footer { font-size: 0.85em; color: ` + colorNeutral + `; margin-top: 32px; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>{{.Title}}</h1>
<p><em>{{.Subtitle}}</em></p>
</div>
{{if .Stats}}<div class="stats">{{range .Stats}}
<div class="stat"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>{{end}}
</div>{{end}}
{{range .Panels}}<h2>{{.Title}}</h2>
<div id="{{.ID}}" class="chart"></div>
{{end}}{{range .Tables}}<h2>{{.Title}}</h2>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</tbody>
</table>
{{end}}<footer>{{if .Sources}}<p>Sources:</p><ul>{{range .Sources}}<li>{{.}}</li>{{end}}</ul>{{end}}<p>Run {{.RunID}}</p></footer>
</div>
<script>
{{range .Panels}}Plotly.newPlot({{.ID}}, {{.Figure.Data}}, {{.Figure.Layout}}, {"responsive": true});
{{end}}</script>
</body>
</html>
`))

func renderPage(p page) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pageTemplate.Execute(buf, p); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Title, err)
	}
	return buf.Bytes(), nil
}

func layout(title, xTitle, yTitle string) map[string]any {
	return map[string]any{
		"title":         map[string]any{"text": title, "x": 0.5, "xanchor": "center"},
		"font":          map[string]any{"family": "Arial, sans-serif", "size": 12, "color": "#34495E"},
		"plot_bgcolor":  "rgba(0,0,0,0)",
		"paper_bgcolor": "white",
		"hovermode":     "closest",
		"margin":        map[string]any{"l": 80, "r": 40, "t": 60, "b": 80},
		"legend":        map[string]any{"orientation": "h", "y": -0.2, "x": 0.5, "xanchor": "center"},
		"xaxis":         map[string]any{"title": map[string]any{"text": xTitle}, "gridcolor": "rgba(128,128,128,0.2)"},
		"yaxis":         map[string]any{"title": map[string]any{"text": yTitle}, "gridcolor": "rgba(128,128,128,0.2)"},
	}
}

// withMeanLine draws the national mean as a dashed horizontal line.
func withMeanLine(l map[string]any, mean float64) map[string]any {
	l["shapes"] = []map[string]any{{
		"type": "line",
		"xref": "paper",
		"x0":   0,
		"x1":   1,
		"y0":   mean,
		"y1":   mean,
		"line": map[string]any{"color": colorNational, "dash": "dash", "width": 2},
	}}
	return l
}

// Dashboard renders the narrative dashboard: headline figures, the ROI
// ranking, ROI against academic performance, model leaderboards, feature
// importance for the ROI target and the policy correlation matrix.
func Dashboard(in Input) ([]byte, error) {
	frame := in.Frame
	order := rankByROI(frame)
	roi := make([]float64, frame.Len())
	for i := range roi {
		roi[i] = frame.Row(i).ProjectedROI
	}

	p := page{
		Title:    "Human Capital ROI Dashboard",
		Subtitle: "Education, health and nutrition investment across the 50 states",
		RunID:    in.RunID,
		Sources:  sourceLines(in),
	}
	p.Stats = append(p.Stats, statCard{Label: "States analysed", Value: strconv.Itoa(frame.Len())})
	p.Stats = append(p.Stats, statCard{Label: "Mean projected ROI", Value: fmt.Sprintf("%.2fx", stat.Mean(roi, nil))})
	if len(order) > 0 {
		top := frame.Row(order[0])
		p.Stats = append(p.Stats, statCard{Label: "Highest ROI", Value: fmt.Sprintf("%s %.2fx", top.Record.Code, top.ProjectedROI)})
	}
	if bench, ok := frame.BenchmarkRow(); ok {
		p.Stats = append(p.Stats, statCard{Label: "Benchmark", Value: bench.Record.Name})
	}
	if s, ok := in.selection(features.ColProjectedROI); ok && len(s.Scores) > 0 {
		best := s.BestScore()
		p.Stats = append(p.Stats, statCard{Label: "ROI model", Value: fmt.Sprintf("%s (R² %.3f)", best.Model, best.MeanR2)})
	}

	codes := make([]string, len(order))
	values := make([]float64, len(order))
	colors := make([]string, len(order))
	for i, row := range order {
		r := frame.Row(row)
		codes[i], values[i], colors[i] = r.Record.Code, r.ProjectedROI, colorEducation
		if r.IsBenchmark {
			colors[i] = colorBenchmark
		}
	}
	p.Panels = append(p.Panels, panel{
		ID:    "roi-ranking",
		Title: "Projected 20-year ROI by state",
		Figure: figure{
			Data: []map[string]any{{
				"type":          "bar",
				"x":             codes,
				"y":             values,
				"name":          "projected ROI",
				"marker":        map[string]any{"color": colors},
				"hovertemplate": "<b>%{x}</b><br>ROI: %{y:.2f}x<extra></extra>",
			}},
			Layout: withMeanLine(layout("Projected 20-year ROI by state", "State", "ROI (x)"), stat.Mean(roi, nil)),
		},
	})

	api := make([]float64, frame.Len())
	names := make([]string, frame.Len())
	pointColors := make([]string, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		r := frame.Row(i)
		api[i], names[i], pointColors[i] = r.AcademicIndex, r.Record.Code, colorHealth
		if r.IsBenchmark {
			pointColors[i] = colorBenchmark
		}
	}
	p.Panels = append(p.Panels, panel{
		ID:    "roi-academic",
		Title: "ROI against academic performance",
		Figure: figure{
			Data: []map[string]any{{
				"type":         "scatter",
				"mode":         "markers+text",
				"x":            api,
				"y":            roi,
				"text":         names,
				"textposition": "top center",
				"name":         "states",
				"marker":       map[string]any{"color": pointColors, "size": 10},
			}},
			Layout: layout("ROI against academic performance", "Academic performance index", "ROI (x)"),
		},
	})

	if len(in.Selections) > 0 {
		var traces []map[string]any
		for i, s := range in.Selections {
			models := make([]string, len(s.Scores))
			r2 := make([]float64, len(s.Scores))
			for j, sc := range s.Scores {
				models[j], r2[j] = sc.Model, sc.MeanR2
			}
			traces = append(traces, map[string]any{
				"type":   "bar",
				"name":   s.Target,
				"x":      models,
				"y":      r2,
				"marker": map[string]any{"color": targetColor(s.Target, i)},
			})
		}
		l := layout("Cross-validated R² by model", "Model", "mean R²")
		l["barmode"] = "group"
		p.Panels = append(p.Panels, panel{ID: "leaderboard", Title: "Model leaderboard", Figure: figure{Data: traces, Layout: l}})
	}

	if s, ok := in.selection(features.ColProjectedROI); ok && len(s.Importance) > 0 {
		ranked := learn.Rank(features.FeatureNames(), s.Importance)
		if len(ranked) > 10 {
			ranked = ranked[:10]
		}
		feats := make([]string, len(ranked))
		weights := make([]float64, len(ranked))
		for i, w := range ranked {
			feats[len(ranked)-1-i], weights[len(ranked)-1-i] = w.Feature, w.Importance
		}
		l := layout("Feature importance for projected ROI", "importance", "")
		l["margin"] = map[string]any{"l": 240, "r": 40, "t": 60, "b": 60}
		p.Panels = append(p.Panels, panel{
			ID:    "importance",
			Title: "What drives projected ROI",
			Figure: figure{
				Data: []map[string]any{{
					"type":        "bar",
					"orientation": "h",
					"x":           weights,
					"y":           feats,
					"name":        "importance",
					"marker":      map[string]any{"color": colorNutrition},
				}},
				Layout: l,
			},
		})
	}

	corr, err := correlations(frame, correlationColumns)
	if err != nil {
		return nil, err
	}
	l := layout("Policy impact correlation matrix", "", "")
	l["margin"] = map[string]any{"l": 220, "r": 40, "t": 60, "b": 200}
	l["height"] = 720
	p.Panels = append(p.Panels, panel{
		ID:    "policy-correlation",
		Title: "Policy impact correlation matrix",
		Figure: figure{
			Data: []map[string]any{{
				"type":          "heatmap",
				"z":             nullable(corr),
				"x":             correlationColumns,
				"y":             correlationColumns,
				"zmin":          -1,
				"zmax":          1,
				"colorscale":    "RdBu",
				"texttemplate":  "%{z:.2f}",
				"hovertemplate": "%{y} / %{x}<br>r = %{z:.3f}<extra></extra>",
			}},
			Layout: l,
		},
	})

	p.Tables = append(p.Tables, leaderboardTable(in))
	return renderPage(p)
}

// correlationColumns are the policy levers and outcomes compared in the
// dashboard's correlation matrix.
var correlationColumns = []string{
	features.ColAcademicIndex,
	features.ColMobilityScore,
	features.ColHealthProxy,
	features.ColPolicyComp,
	features.ColInnovation,
	features.ColBreakfast,
	features.ColUninsured,
	features.ColChildPoverty,
	features.ColHumanCapital,
	features.ColProjectedROI,
}

// correlations returns the Pearson correlation of every pair of the named
// columns. Feature columns come from the model matrix, targets from the
// frame. A constant column yields NaN.
func correlations(frame features.Frame, names []string) ([][]float64, error) {
	x := frame.FeatureMatrix()
	cols := make([][]float64, len(names))
	for j, name := range names {
		idx := features.FeatureIndex(name)
		if idx < 0 {
			y, err := frame.Target(name)
			if err != nil {
				return nil, fmt.Errorf("correlation matrix: %w", err)
			}
			cols[j] = y
			continue
		}
		cols[j] = make([]float64, len(x))
		for i, row := range x {
			cols[j][i] = row[idx]
		}
	}
	out := make([][]float64, len(names))
	for a := range cols {
		out[a] = make([]float64, len(cols))
		for b := range cols {
			out[a][b] = stat.Correlation(cols[a], cols[b], nil)
		}
	}
	return out, nil
}

// nullable maps NaN cells to nil; JSON has no NaN and Plotly leaves null
// cells blank.
func nullable(m [][]float64) [][]any {
	out := make([][]any, len(m))
	for i, row := range m {
		out[i] = make([]any, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				out[i][j] = v
			}
		}
	}
	return out
}

// ScenarioDashboard renders the interactive scenario view: mean predictions
// per scenario, per-state ROI under each scenario and predicted ROI against
// the policy innovation score.
func ScenarioDashboard(in Input) ([]byte, error) {
	p := page{
		Title:    "Policy Scenario Explorer",
		Subtitle: "Predicted outcomes under alternative policy packages",
		RunID:    in.RunID,
		Sources:  sourceLines(in),
	}

	scenarios := make([]string, len(in.Summaries))
	for i, s := range in.Summaries {
		scenarios[i] = s.Scenario
	}
	colors := make([]string, len(scenarios))
	for i := range colors {
		colors[i] = scenarioColors[i%len(scenarioColors)]
	}
	titles := map[string]string{
		features.ColProjectedROI:     "Mean predicted 20-year ROI",
		features.ColHumanCapital:     "Mean predicted human capital score",
		features.ColPovertyReduction: "Mean predicted poverty reduction potential",
	}
	for _, sel := range in.Selections {
		means := make([]float64, len(in.Summaries))
		for i, s := range in.Summaries {
			means[i] = s.Means[sel.Target]
		}
		title := titles[sel.Target]
		if title == "" {
			title = "Mean predicted " + sel.Target
		}
		p.Panels = append(p.Panels, panel{
			ID:    "mean-" + sel.Target,
			Title: title,
			Figure: figure{
				Data: []map[string]any{{
					"type":   "bar",
					"x":      scenarios,
					"y":      means,
					"name":   sel.Target,
					"marker": map[string]any{"color": colors},
				}},
				Layout: layout(title, "Scenario", sel.Target),
			},
		})
	}

	points := make(map[string]*scenarioPoints)
	for _, o := range in.Outcomes {
		pts := points[o.Scenario]
		if pts == nil {
			pts = &scenarioPoints{}
			points[o.Scenario] = pts
		}
		pts.codes = append(pts.codes, o.StateCode)
		pts.innovation = append(pts.innovation, o.Innovation)
		pts.roi = append(pts.roi, o.Predictions[features.ColProjectedROI])
	}
	var bars, scatter []map[string]any
	for i, name := range scenarios {
		pts := points[name]
		if pts == nil {
			continue
		}
		bars = append(bars, map[string]any{
			"type":   "bar",
			"name":   name,
			"x":      pts.codes,
			"y":      pts.roi,
			"marker": map[string]any{"color": colors[i]},
		})
		scatter = append(scatter, map[string]any{
			"type":          "scatter",
			"mode":          "markers",
			"name":          name,
			"x":             pts.innovation,
			"y":             pts.roi,
			"text":          pts.codes,
			"marker":        map[string]any{"color": colors[i], "size": 9, "opacity": 0.8},
			"hovertemplate": "<b>%{text}</b><br>innovation: %{x:.0f}<br>ROI: %{y:.2f}x<extra></extra>",
		})
	}
	if len(bars) > 0 {
		l := layout("Predicted ROI by state and scenario", "State", "ROI (x)")
		l["barmode"] = "group"
		p.Panels = append(p.Panels, panel{ID: "roi-by-state", Title: "Predicted ROI by state", Figure: figure{Data: bars, Layout: l}})
		p.Panels = append(p.Panels, panel{
			ID:     "innovation-roi",
			Title:  "Policy innovation against predicted ROI",
			Figure: figure{Data: scatter, Layout: layout("Policy innovation against predicted ROI", "Policy innovation score", "Predicted ROI (x)")},
		})
	}

	t := table{Title: "Scenario means", Header: []string{"scenario", "states"}}
	for _, sel := range in.Selections {
		t.Header = append(t.Header, sel.Target)
	}
	for _, s := range in.Summaries {
		row := []string{s.Scenario, strconv.Itoa(s.States)}
		for _, sel := range in.Selections {
			row = append(row, fmt.Sprintf("%.3f", s.Means[sel.Target]))
		}
		t.Rows = append(t.Rows, row)
	}
	p.Tables = append(p.Tables, t)
	return renderPage(p)
}

type scenarioPoints struct {
	codes      []string
	innovation []float64
	roi        []float64
}

func leaderboardTable(in Input) table {
	t := table{Title: "Cross-validation results", Header: []string{"target", "model", "mean R²", "std R²", "MSE", "MAE", "selected"}}
	for _, s := range in.Selections {
		for i, sc := range s.Scores {
			selected := ""
			if i == s.Best {
				selected = "yes"
			}
			t.Rows = append(t.Rows, []string{
				s.Target, sc.Model,
				fmt.Sprintf("%.4f", sc.MeanR2), fmt.Sprintf("%.4f", sc.StdR2),
				fmt.Sprintf("%.4f", sc.MSE), fmt.Sprintf("%.4f", sc.MAE),
				selected,
			})
		}
	}
	return t
}

func sourceLines(in Input) []string {
	out := make([]string, len(in.Sources))
	for i, s := range in.Sources {
		out[i] = fmt.Sprintf("%s (%d)", s.Agency, s.Year)
	}
	return out
}
