// Package states assembles the fixed per-state table of published government
// indicators the pipeline analyses. Values are embedded literals; nothing is
// fetched at runtime.
package states

// Record holds the raw indicators for one US state. Records are immutable
// once the table is assembled.
type Record struct {
	Code string `json:"code"`
	Name string `json:"name"`

	// NAEP 8th grade scale scores (0-500).
	Math8    float64 `json:"math_8th_grade"`
	Reading8 float64 `json:"reading_8th_grade"`

	// Opportunity Insights absolute mobility (0-10) and adult incomes at the
	// 25th/75th parental income percentile, USD.
	MobilityIndex float64 `json:"mobility_index"`
	Income25      float64 `json:"income_25th_percentile"`
	Income75      float64 `json:"income_75th_percentile"`

	// CDC child health, per 1,000 and percent.
	ChildMortality       float64 `json:"child_mortality_rate"`
	InfantMortality      float64 `json:"infant_mortality_rate"`
	UninsuredChildrenPct float64 `json:"uninsured_children_pct"`

	// USDA FNS school nutrition, percent.
	FreeLunchPct           float64 `json:"free_lunch_eligible_pct"`
	BreakfastParticipation float64 `json:"school_breakfast_participation"`

	UniversalMeals    bool `json:"universal_meals"`
	MedicaidExpansion bool `json:"medicaid_expansion"`

	// Census SAIPE poverty rate for children under 18, percent.
	ChildPovertyRate float64 `json:"child_poverty_rate"`
}

// Source describes a publishing agency and the fields taken from it.
type Source struct {
	Key    string   `json:"key"`
	Agency string   `json:"agency"`
	Year   int      `json:"year"`
	Fields []string `json:"fields"`
}

var sources = []Source{
	{Key: "NAEP", Agency: "U.S. Department of Education, National Assessment of Educational Progress", Year: 2023, Fields: []string{"math_8th_grade", "reading_8th_grade"}},
	{Key: "Opportunity_Insights", Agency: "Opportunity Insights (Harvard/Census)", Year: 2023, Fields: []string{"mobility_index", "income_25th_percentile", "income_75th_percentile"}},
	{Key: "CDC", Agency: "Centers for Disease Control and Prevention", Year: 2023, Fields: []string{"child_mortality_rate", "infant_mortality_rate", "uninsured_children_pct"}},
	{Key: "USDA_FNS", Agency: "USDA Food and Nutrition Service, Child Nutrition Programs", Year: 2023, Fields: []string{"free_lunch_eligible_pct", "school_breakfast_participation", "universal_meals"}},
	{Key: "CMS", Agency: "Centers for Medicare & Medicaid Services", Year: 2023, Fields: []string{"medicaid_expansion"}},
	{Key: "SAIPE", Agency: "U.S. Census Bureau, Small Area Income and Poverty Estimates", Year: 2023, Fields: []string{"child_poverty_rate"}},
}

// Sources returns the provenance of every raw field.
func Sources() []Source {
	out := make([]Source, len(sources))
	for i, s := range sources {
		out[i] = s
		out[i].Fields = append([]string(nil), s.Fields...)
	}
	return out
}
