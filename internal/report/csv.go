package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"hcroi/internal/features"
)

// DerivedCSV writes the full derived table: identity columns followed by
// every numeric column in schema order. Floats use four fixed decimals and
// flags are written as 0/1, so identical input produces identical bytes.
func DerivedCSV(frame features.Frame) ([]byte, error) {
	cols := frame.Columns()
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := make([]string, 0, len(cols)+2)
	header = append(header, features.ColStateCode, features.ColStateName)
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := 0; i < frame.Len(); i++ {
		rec := frame.Row(i).Record
		record := make([]string, 0, len(header))
		record = append(record, rec.Code, rec.Name)
		for _, c := range cols {
			v, err := frame.Value(i, c.Name)
			if err != nil {
				return nil, err
			}
			record = append(record, formatValue(c, v))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PredictionsCSV writes actual, predicted and residual values per state for
// each selected target.
func PredictionsCSV(in Input) ([]byte, error) {
	preds := in.predictions()
	header := []string{features.ColStateCode, features.ColStateName}
	var targets []string
	actual := make(map[string][]float64)
	for _, s := range in.Selections {
		if s.Model == nil {
			continue
		}
		y, err := in.Frame.Target(s.Target)
		if err != nil {
			return nil, err
		}
		targets = append(targets, s.Target)
		actual[s.Target] = y
		header = append(header, s.Target, s.Target+"_predicted", s.Target+"_residual")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := 0; i < in.Frame.Len(); i++ {
		rec := in.Frame.Row(i).Record
		record := []string{rec.Code, rec.Name}
		for _, t := range targets {
			y, p := actual[t][i], preds[t][i]
			record = append(record, formatFloat(y), formatFloat(p), formatFloat(y-p))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatValue(c features.Column, v float64) string {
	if c.Unit == "flag" {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
