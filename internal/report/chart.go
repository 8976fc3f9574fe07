package report

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"hcroi/internal/features"
)

// ROIBarChart draws projected ROI per state, highest first, with the
// benchmark state in its own colour.
func ROIBarChart(frame features.Frame) ([]byte, error) {
	order := rankByROI(frame)
	values := make(plotter.Values, len(order))
	bench := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for i, row := range order {
		r := frame.Row(row)
		labels[i] = r.Record.Code
		if r.IsBenchmark {
			bench[i] = r.ProjectedROI
			continue
		}
		values[i] = r.ProjectedROI
	}

	p := plot.New()
	p.Title.Text = "Projected 20-year ROI by state"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "State"
	p.Y.Label.Text = "ROI (x)"
	p.Y.Min = 0

	width := vg.Points(9)
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return nil, fmt.Errorf("roi bar chart: %w", err)
	}
	bars.Color = rgb(colorEducation)
	bars.LineStyle.Width = vg.Length(0)

	benchBars, err := plotter.NewBarChart(bench, width)
	if err != nil {
		return nil, fmt.Errorf("roi bar chart: %w", err)
	}
	benchBars.Color = rgb(colorBenchmark)
	benchBars.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), bars, benchBars)
	p.Legend.Add("benchmark", benchBars)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return encodePNG(p, 14*vg.Inch, 6*vg.Inch)
}

// ROIScatter plots projected ROI against the academic performance index,
// labelling each point with its state code.
func ROIScatter(frame features.Frame) ([]byte, error) {
	var others, bench plotter.XYs
	points := make(plotter.XYs, frame.Len())
	labels := make([]string, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		r := frame.Row(i)
		pt := plotter.XY{X: r.AcademicIndex, Y: r.ProjectedROI}
		points[i] = pt
		labels[i] = r.Record.Code
		if r.IsBenchmark {
			bench = append(bench, pt)
		} else {
			others = append(others, pt)
		}
	}

	p := plot.New()
	p.Title.Text = "Projected ROI vs academic performance"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Academic performance index (NAEP)"
	p.Y.Label.Text = "ROI (x)"
	p.Add(plotter.NewGrid())

	if len(others) > 0 {
		s, err := plotter.NewScatter(others)
		if err != nil {
			return nil, fmt.Errorf("roi scatter: %w", err)
		}
		s.GlyphStyle.Color = rgb(colorEducation)
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("states", s)
	}
	if len(bench) > 0 {
		s, err := plotter.NewScatter(bench)
		if err != nil {
			return nil, fmt.Errorf("roi scatter: %w", err)
		}
		s.GlyphStyle.Color = rgb(colorBenchmark)
		s.GlyphStyle.Radius = vg.Points(7)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("benchmark", s)
	}

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("roi scatter: %w", err)
	}
	p.Add(names)
	p.Legend.Top = true
	p.Legend.Left = true

	return encodePNG(p, 10*vg.Inch, 7*vg.Inch)
}

func encodePNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	buf := &bytes.Buffer{}
	if _, err := wt.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
