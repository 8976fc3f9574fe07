package features

// Kind classifies a column in the derived table.
type Kind string

const (
	KindIdentity Kind = "identity"
	KindRaw      Kind = "raw"
	KindDerived  Kind = "derived"
	KindTarget   Kind = "target"
)

// Column names shared by renderers, model input and scenarios.
const (
	ColStateCode = "state_code"
	ColStateName = "state_name"

	ColMath8             = "math_8th_grade"
	ColReading8          = "reading_8th_grade"
	ColMobilityIndex     = "mobility_index"
	ColIncome25          = "income_25th_percentile"
	ColIncome75          = "income_75th_percentile"
	ColChildMortality    = "child_mortality_rate"
	ColInfantMortality   = "infant_mortality_rate"
	ColUninsured         = "uninsured_children_pct"
	ColFreeLunch         = "free_lunch_eligible_pct"
	ColBreakfast         = "school_breakfast_participation"
	ColUniversalMeals    = "universal_meals"
	ColMedicaidExpansion = "medicaid_expansion"
	ColChildPoverty      = "child_poverty_rate"

	ColAcademicIndex      = "academic_performance_index"
	ColAcademicExcellence = "academic_excellence_score"
	ColIncomeInequality   = "income_inequality_ratio"
	ColMobilityScore      = "mobility_score"
	ColHealthProxy        = "health_investment_proxy"
	ColPolicyComp         = "policy_comprehensiveness"
	ColSynergy            = "education_health_synergy"
	ColComprehensive      = "comprehensive_policy_score"
	ColInnovation         = "policy_innovation_score"
	ColIsBenchmark        = "is_benchmark"

	ColHumanCapital     = "human_capital_score"
	ColProjectedROI     = "projected_roi_20yr"
	ColPovertyReduction = "poverty_reduction_potential"
)

// Column describes one column of the derived table.
type Column struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
	Scale       *Scale `json:"scale,omitempty"`
}

type columnDef struct {
	Column
	value func(Row) float64
}

func scaled(s Scale) *Scale { return &s }

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// numericColumns lists every numeric column in output order.
var numericColumns = []columnDef{
	{Column{Name: ColMath8, Kind: KindRaw, Unit: "NAEP scale", Description: "NAEP 8th grade mathematics"}, func(r Row) float64 { return r.Record.Math8 }},
	{Column{Name: ColReading8, Kind: KindRaw, Unit: "NAEP scale", Description: "NAEP 8th grade reading"}, func(r Row) float64 { return r.Record.Reading8 }},
	{Column{Name: ColMobilityIndex, Kind: KindRaw, Description: "absolute upward mobility index"}, func(r Row) float64 { return r.Record.MobilityIndex }},
	{Column{Name: ColIncome25, Kind: KindRaw, Unit: "USD"}, func(r Row) float64 { return r.Record.Income25 }},
	{Column{Name: ColIncome75, Kind: KindRaw, Unit: "USD"}, func(r Row) float64 { return r.Record.Income75 }},
	{Column{Name: ColChildMortality, Kind: KindRaw, Unit: "per 1,000"}, func(r Row) float64 { return r.Record.ChildMortality }},
	{Column{Name: ColInfantMortality, Kind: KindRaw, Unit: "per 1,000"}, func(r Row) float64 { return r.Record.InfantMortality }},
	{Column{Name: ColUninsured, Kind: KindRaw, Unit: "percent"}, func(r Row) float64 { return r.Record.UninsuredChildrenPct }},
	{Column{Name: ColFreeLunch, Kind: KindRaw, Unit: "percent"}, func(r Row) float64 { return r.Record.FreeLunchPct }},
	{Column{Name: ColBreakfast, Kind: KindRaw, Unit: "percent"}, func(r Row) float64 { return r.Record.BreakfastParticipation }},
	{Column{Name: ColUniversalMeals, Kind: KindRaw, Unit: "flag"}, func(r Row) float64 { return flag(r.Record.UniversalMeals) }},
	{Column{Name: ColMedicaidExpansion, Kind: KindRaw, Unit: "flag"}, func(r Row) float64 { return flag(r.Record.MedicaidExpansion) }},
	{Column{Name: ColChildPoverty, Kind: KindRaw, Unit: "percent"}, func(r Row) float64 { return r.Record.ChildPovertyRate }},

	{Column{Name: ColAcademicIndex, Kind: KindDerived, Unit: "NAEP scale", Description: "mean of 8th grade math and reading", Scale: scaled(scaleNAEP)}, func(r Row) float64 { return r.AcademicIndex }},
	{Column{Name: ColAcademicExcellence, Kind: KindDerived, Description: "scores relative to the best state", Scale: scaled(scalePercent)}, func(r Row) float64 { return r.AcademicExcellence }},
	{Column{Name: ColIncomeInequality, Kind: KindDerived, Description: "75th over 25th percentile income", Scale: scaled(scaleRatio)}, func(r Row) float64 { return r.IncomeInequality }},
	{Column{Name: ColMobilityScore, Kind: KindDerived, Scale: scaled(scalePercent)}, func(r Row) float64 { return r.MobilityScore }},
	{Column{Name: ColHealthProxy, Kind: KindDerived, Description: "inverse of child mortality and uninsured rate", Scale: scaled(scalePercent)}, func(r Row) float64 { return r.HealthProxy }},
	{Column{Name: ColPolicyComp, Kind: KindDerived, Description: "breakfast participation and universal meals", Scale: scaled(scalePercent)}, func(r Row) float64 { return r.PolicyComprehensiveness }},
	{Column{Name: ColSynergy, Kind: KindDerived, Scale: scaled(scaleNAEP)}, func(r Row) float64 { return r.Synergy }},
	{Column{Name: ColComprehensive, Kind: KindDerived, Scale: scaled(scalePercent)}, func(r Row) float64 { return r.Comprehensive }},
	{Column{Name: ColInnovation, Kind: KindDerived, Scale: scaled(scalePercent)}, func(r Row) float64 { return r.Innovation }},
	{Column{Name: ColIsBenchmark, Kind: KindDerived, Unit: "flag", Scale: scaled(scaleFlag)}, func(r Row) float64 { return flag(r.IsBenchmark) }},

	{Column{Name: ColHumanCapital, Kind: KindTarget, Description: "weighted human capital development score", Scale: scaled(scalePercent)}, func(r Row) float64 { return r.HumanCapital }},
	{Column{Name: ColProjectedROI, Kind: KindTarget, Unit: "x", Description: "projected 20-year return on investment", Scale: scaled(scaleROI)}, func(r Row) float64 { return r.ProjectedROI }},
	{Column{Name: ColPovertyReduction, Kind: KindTarget, Unit: "percent", Description: "10-year poverty reduction potential", Scale: scaled(scaleReductions)}, func(r Row) float64 { return r.PovertyReduction }},
}

// Targets lists the model targets; the first is the ROI target.
var Targets = []string{ColProjectedROI, ColHumanCapital, ColPovertyReduction}
