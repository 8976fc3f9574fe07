package states

import (
	"strings"
	"testing"
)

func TestLoadHasFiftyUniqueStates(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table.Len() != ExpectedCount {
		t.Fatalf("expected %d records, got %d", ExpectedCount, table.Len())
	}
	names := make(map[string]struct{})
	codes := make(map[string]struct{})
	for _, r := range table.Records() {
		if _, dup := names[r.Name]; dup {
			t.Fatalf("duplicate name %s", r.Name)
		}
		if _, dup := codes[r.Code]; dup {
			t.Fatalf("duplicate code %s", r.Code)
		}
		names[r.Name] = struct{}{}
		codes[r.Code] = struct{}{}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ma, ok := table.Lookup(" ma ")
	if !ok {
		t.Fatalf("expected MA")
	}
	if ma.Name != "Massachusetts" || ma.Math8 != 295 || ma.Reading8 != 279 || !ma.UniversalMeals {
		t.Fatalf("unexpected MA record %+v", ma)
	}
	if _, ok := table.Lookup("PR"); ok {
		t.Fatalf("PR is not a state")
	}
}

func TestCodesPreserveOrder(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	codes := table.Codes()
	if codes[0] != "AL" || codes[len(codes)-1] != "WY" {
		t.Fatalf("unexpected order %v", codes)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	records := []Record{
		{Code: "AA", Name: "Alpha", Math8: 600, Reading8: 250, Income25: 10, Income75: 20},
		{Code: "AA", Name: "Beta", Math8: 250, Reading8: 250, UninsuredChildrenPct: 120, Income25: 10, Income75: 5},
		{Code: "", Name: "Gamma"},
	}
	err := NewTable(records).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"expected 50 states, got 3",
		"duplicate state code AA",
		"math_8th_grade=600",
		"uninsured_children_pct=120",
		"income_75th_percentile below",
		"empty code or name",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	records := []Record{{Code: "AA", Name: "Alpha"}}
	table := NewTable(records)
	records[0].Name = "Mutated"
	if table.At(0).Name != "Alpha" {
		t.Fatalf("table should not alias caller slice")
	}
	out := table.Records()
	out[0].Name = "Mutated"
	if table.At(0).Name != "Alpha" {
		t.Fatalf("Records should return a copy")
	}
}

func TestSourcesReturnsCopy(t *testing.T) {
	src := Sources()
	if len(src) == 0 {
		t.Fatalf("expected provenance entries")
	}
	src[0].Fields[0] = "mutated"
	if Sources()[0].Fields[0] == "mutated" {
		t.Fatalf("Sources should return a deep copy")
	}
}
