package features

import (
	"errors"
	"fmt"
)

// Frame is the derived table: rows in state-table order plus the column
// schema every consumer renders from.
type Frame struct {
	rows      []Row
	benchmark string
}

func newFrame(rows []Row, benchmark string) Frame {
	return Frame{rows: rows, benchmark: benchmark}
}

// Len returns the number of rows.
func (f Frame) Len() int { return len(f.rows) }

// Benchmark returns the benchmark state code.
func (f Frame) Benchmark() string { return f.benchmark }

// Rows returns a copy of the rows.
func (f Frame) Rows() []Row {
	out := make([]Row, len(f.rows))
	copy(out, f.rows)
	return out
}

// Row returns the i-th row.
func (f Frame) Row(i int) Row { return f.rows[i] }

// BenchmarkRow returns the benchmark state's row.
func (f Frame) BenchmarkRow() (Row, bool) {
	for _, r := range f.rows {
		if r.IsBenchmark {
			return r, true
		}
	}
	return Row{}, false
}

// Columns returns the ordered numeric column schema. The identity columns
// state_code and state_name precede these in every tabular output.
func (f Frame) Columns() []Column {
	out := make([]Column, len(numericColumns))
	for i, c := range numericColumns {
		out[i] = c.Column
	}
	return out
}

// Column looks up a column by name.
func (f Frame) Column(name string) (Column, bool) {
	if def, ok := lookupColumn(name); ok {
		return def.Column, true
	}
	return Column{}, false
}

// Value returns the named numeric value of row i.
func (f Frame) Value(i int, name string) (float64, error) {
	def, ok := lookupColumn(name)
	if !ok {
		return 0, fmt.Errorf("features: unknown column %q", name)
	}
	return def.value(f.rows[i]), nil
}

// FeatureNames lists the model input columns: every raw and derived numeric
// column, excluding targets.
func FeatureNames() []string {
	var names []string
	for _, c := range numericColumns {
		if c.Kind == KindRaw || c.Kind == KindDerived {
			names = append(names, c.Name)
		}
	}
	return names
}

// FeatureMatrix returns one row per state over FeatureNames.
func (f Frame) FeatureMatrix() [][]float64 {
	var defs []columnDef
	for _, c := range numericColumns {
		if c.Kind == KindRaw || c.Kind == KindDerived {
			defs = append(defs, c)
		}
	}
	x := make([][]float64, len(f.rows))
	for i, r := range f.rows {
		x[i] = make([]float64, len(defs))
		for j, d := range defs {
			x[i][j] = d.value(r)
		}
	}
	return x
}

// Target returns the named target column.
func (f Frame) Target(name string) ([]float64, error) {
	def, ok := lookupColumn(name)
	if !ok || def.Kind != KindTarget {
		return nil, fmt.Errorf("features: %q is not a target column", name)
	}
	y := make([]float64, len(f.rows))
	for i, r := range f.rows {
		y[i] = def.value(r)
	}
	return y, nil
}

// CheckScales verifies that every scaled value lies within its scale.
func (f Frame) CheckScales() error {
	var errs []error
	for _, r := range f.rows {
		for _, c := range numericColumns {
			if c.Scale == nil {
				continue
			}
			if v := c.value(r); !c.Scale.Contains(v) {
				errs = append(errs, fmt.Errorf("%s: %s=%v outside %s", r.Record.Code, c.Name, v, c.Scale))
			}
		}
	}
	return errors.Join(errs...)
}

func lookupColumn(name string) (columnDef, bool) {
	for _, c := range numericColumns {
		if c.Name == name {
			return c, true
		}
	}
	return columnDef{}, false
}

// FeatureIndex returns the position of name within FeatureNames, or -1.
func FeatureIndex(name string) int {
	for i, n := range FeatureNames() {
		if n == name {
			return i
		}
	}
	return -1
}
