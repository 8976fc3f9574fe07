package states

import (
	"errors"
	"fmt"
	"strings"
)

// ExpectedCount is the number of states the table must carry.
const ExpectedCount = 50

// Table is an ordered, read-only collection of state records.
type Table struct {
	records []Record
	index   map[string]int
}

// Load assembles the embedded table and validates it.
func Load() (Table, error) {
	records := make([]Record, len(literalRows))
	for i, r := range literalRows {
		records[i] = r.record()
	}
	t := NewTable(records)
	if err := t.Validate(); err != nil {
		return Table{}, fmt.Errorf("validate state table: %w", err)
	}
	return t, nil
}

// NewTable wraps records without validating them. The slice is copied.
func NewTable(records []Record) Table {
	cp := append([]Record(nil), records...)
	index := make(map[string]int, len(cp))
	for i, r := range cp {
		if _, dup := index[r.Code]; !dup {
			index[r.Code] = i
		}
	}
	return Table{records: cp, index: index}
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.records) }

// Records returns a copy of the records in table order.
func (t Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// At returns the i-th record.
func (t Table) At(i int) Record { return t.records[i] }

// Lookup finds a record by its two-letter code.
func (t Table) Lookup(code string) (Record, bool) {
	i, ok := t.index[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Codes lists state codes in table order.
func (t Table) Codes() []string {
	out := make([]string, len(t.records))
	for i, r := range t.records {
		out[i] = r.Code
	}
	return out
}

// Validate checks record count, identity uniqueness and value ranges. Every
// violation is reported.
func (t Table) Validate() error {
	var errs []error
	if len(t.records) != ExpectedCount {
		errs = append(errs, fmt.Errorf("expected %d states, got %d", ExpectedCount, len(t.records)))
	}
	codes := make(map[string]struct{}, len(t.records))
	names := make(map[string]struct{}, len(t.records))
	for _, r := range t.records {
		if strings.TrimSpace(r.Code) == "" || strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("record with empty code or name: %q/%q", r.Code, r.Name))
			continue
		}
		if _, dup := codes[r.Code]; dup {
			errs = append(errs, fmt.Errorf("duplicate state code %s", r.Code))
		}
		codes[r.Code] = struct{}{}
		if _, dup := names[r.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate state name %s", r.Name))
		}
		names[r.Name] = struct{}{}
		errs = append(errs, r.validate()...)
	}
	return errors.Join(errs...)
}

func (r Record) validate() []error {
	var errs []error
	check := func(field string, v, lo, hi float64) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%s: %s=%v outside [%v,%v]", r.Code, field, v, lo, hi))
		}
	}
	check("math_8th_grade", r.Math8, 0, 500)
	check("reading_8th_grade", r.Reading8, 0, 500)
	check("mobility_index", r.MobilityIndex, 0, 10)
	check("child_mortality_rate", r.ChildMortality, 0, 1000)
	check("infant_mortality_rate", r.InfantMortality, 0, 1000)
	check("uninsured_children_pct", r.UninsuredChildrenPct, 0, 100)
	check("free_lunch_eligible_pct", r.FreeLunchPct, 0, 100)
	check("school_breakfast_participation", r.BreakfastParticipation, 0, 100)
	check("child_poverty_rate", r.ChildPovertyRate, 0, 100)
	if r.Income25 <= 0 {
		errs = append(errs, fmt.Errorf("%s: income_25th_percentile must be positive", r.Code))
	}
	if r.Income75 < r.Income25 {
		errs = append(errs, fmt.Errorf("%s: income_75th_percentile below income_25th_percentile", r.Code))
	}
	return errs
}
