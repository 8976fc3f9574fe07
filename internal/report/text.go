package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"hcroi/internal/features"
	"hcroi/internal/learn"
)

const (
	topStates    = 10
	bottomStates = 5
	topFeatures  = 5
)

// Text renders the plain-text summary report.
func Text(in Input) []byte {
	b := &strings.Builder{}
	heading(b, "Human Capital ROI Analysis", '=')
	fmt.Fprintf(b, "States analysed: %d\n", in.Frame.Len())
	if bench, ok := in.Frame.BenchmarkRow(); ok {
		fmt.Fprintf(b, "Benchmark state: %s (%s)\n", bench.Record.Code, bench.Record.Name)
	}
	if len(in.Selections) > 0 {
		targets := make([]string, len(in.Selections))
		for i, s := range in.Selections {
			targets[i] = s.Target
		}
		fmt.Fprintf(b, "Targets: %s\n", strings.Join(targets, ", "))
	}

	if len(in.Sources) > 0 {
		b.WriteString("\n")
		heading(b, "Data sources", '-')
		for _, s := range in.Sources {
			fmt.Fprintf(b, "%s (%d) %s: %s\n", s.Key, s.Year, s.Agency, strings.Join(s.Fields, ", "))
		}
	}

	order := rankByROI(in.Frame)
	n := min(topStates, len(order))
	b.WriteString("\n")
	heading(b, fmt.Sprintf("Top %d states by projected 20-year ROI", n), '-')
	writeRanking(b, in.Frame, order[:n], 1)

	m := min(bottomStates, len(order))
	b.WriteString("\n")
	heading(b, fmt.Sprintf("Bottom %d states by projected 20-year ROI", m), '-')
	writeRanking(b, in.Frame, order[len(order)-m:], len(order)-m+1)

	names := features.FeatureNames()
	for _, s := range in.Selections {
		b.WriteString("\n")
		heading(b, "Model selection: "+s.Target, '-')
		tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "model\tmean R2\tstd R2\tMSE\tMAE")
		for i, sc := range s.Scores {
			mark := " "
			if i == s.Best {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s%s\t%.4f\t%.4f\t%.4f\t%.4f\n", mark, sc.Model, sc.MeanR2, sc.StdR2, sc.MSE, sc.MAE)
		}
		tw.Flush()
		ranked := learn.Rank(names, s.Importance)
		if len(ranked) > topFeatures {
			ranked = ranked[:topFeatures]
		}
		parts := make([]string, len(ranked))
		for i, w := range ranked {
			parts[i] = fmt.Sprintf("%s (%.3f)", w.Feature, w.Importance)
		}
		if len(parts) > 0 {
			fmt.Fprintf(b, "Top features: %s\n", strings.Join(parts, ", "))
		}
	}

	if len(in.Summaries) > 0 {
		b.WriteString("\n")
		heading(b, "Policy scenarios (mean predictions)", '-')
		tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
		header := []string{"scenario"}
		for _, s := range in.Selections {
			header = append(header, s.Target)
		}
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, sum := range in.Summaries {
			cells := []string{sum.Scenario}
			for _, s := range in.Selections {
				cells = append(cells, fmt.Sprintf("%.4f", sum.Means[s.Target]))
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
		tw.Flush()
	}
	return []byte(b.String())
}

func heading(b *strings.Builder, title string, underline rune) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(string(underline), len(title)))
	b.WriteString("\n")
}

func writeRanking(b *strings.Builder, frame features.Frame, idx []int, first int) {
	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for i, row := range idx {
		r := frame.Row(row)
		fmt.Fprintf(tw, "%3d\t%s\t%s\t%.2fx\n", first+i, r.Record.Code, r.Record.Name, r.ProjectedROI)
	}
	tw.Flush()
}

// rankByROI returns row indices by descending projected ROI. Equal values
// keep table order.
func rankByROI(frame features.Frame) []int {
	idx := make([]int, frame.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(frame.Row(b).ProjectedROI, frame.Row(a).ProjectedROI)
	})
	return idx
}
