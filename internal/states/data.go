package states

// row keeps the literal table compact; field order matches Record.
type row struct {
	code, name             string
	math8, reading8        float64
	mobility               float64
	income25, income75     float64
	childMort, infantMort  float64
	uninsured              float64
	freeLunch, breakfast   float64
	universalMeals, expand bool
	childPoverty           float64
}

var literalRows = []row{
	{"AL", "Alabama", 258, 248, 4.2, 22800, 39200, 7.1, 8.5, 5.9, 66.8, 68.3, false, false, 21.9},
	{"AK", "Alaska", 270, 256, 5.6, 27100, 50800, 6.9, 6.2, 9.8, 44.5, 70.2, false, true, 14.2},
	{"AZ", "Arizona", 271, 257, 5.0, 24300, 43900, 5.3, 5.6, 11.2, 53.1, 72.4, false, true, 18.0},
	{"AR", "Arkansas", 266, 254, 4.5, 23000, 39900, 6.8, 7.3, 6.1, 63.5, 74.8, false, true, 21.6},
	{"CA", "California", 270, 255, 6.1, 26200, 47800, 4.1, 4.2, 4.2, 55.7, 78.9, true, true, 15.8},
	{"CO", "Colorado", 280, 266, 6.6, 27400, 50100, 4.4, 4.6, 5.8, 40.3, 76.1, true, true, 11.1},
	{"CT", "Connecticut", 284, 270, 6.8, 28100, 52400, 3.5, 4.3, 2.7, 41.7, 84.9, false, true, 12.3},
	{"DE", "Delaware", 268, 257, 5.4, 25900, 47200, 5.6, 6.4, 4.0, 47.8, 79.5, false, true, 15.9},
	{"FL", "Florida", 273, 258, 4.9, 24100, 42700, 5.2, 6.0, 7.8, 58.9, 74.6, false, false, 17.5},
	{"GA", "Georgia", 271, 259, 4.6, 24200, 43500, 5.9, 6.8, 7.5, 61.2, 75.3, false, false, 18.4},
	{"HI", "Hawaii", 273, 258, 6.4, 27200, 48300, 4.0, 5.0, 3.1, 45.2, 73.8, false, true, 12.4},
	{"ID", "Idaho", 279, 264, 6.9, 26500, 45100, 5.0, 5.3, 6.4, 42.9, 71.6, false, true, 11.5},
	{"IL", "Illinois", 275, 262, 5.7, 25800, 47900, 4.8, 5.8, 3.5, 50.6, 78.4, false, true, 14.8},
	{"IN", "Indiana", 278, 262, 5.5, 25300, 44800, 5.7, 6.7, 6.6, 49.7, 73.9, false, true, 15.1},
	{"IA", "Iowa", 279, 263, 6.8, 27000, 46300, 4.5, 5.0, 3.4, 41.8, 77.2, false, true, 11.9},
	{"KS", "Kansas", 277, 262, 6.3, 26300, 45600, 5.2, 5.9, 5.5, 48.3, 75.6, false, false, 12.7},
	{"KY", "Kentucky", 268, 259, 4.8, 23600, 41200, 6.1, 6.1, 4.1, 60.4, 80.7, false, true, 20.1},
	{"LA", "Louisiana", 260, 252, 4.1, 22500, 39800, 7.4, 7.8, 4.3, 69.6, 77.9, false, true, 25.4},
	{"ME", "Maine", 279, 264, 6.7, 26900, 46200, 4.2, 5.6, 4.7, 44.1, 81.8, true, true, 12.1},
	{"MD", "Maryland", 271, 260, 6.0, 27500, 52000, 4.6, 5.9, 4.5, 44.6, 82.4, false, true, 11.5},
	{"MA", "Massachusetts", 295, 279, 7.5, 28400, 51200, 3.2, 3.9, 1.8, 38.2, 87.4, true, true, 11.2},
	{"MI", "Michigan", 273, 259, 5.3, 24700, 44600, 5.4, 6.4, 3.2, 51.2, 79.7, true, true, 17.3},
	{"MN", "Minnesota", 283, 264, 7.2, 27800, 48700, 4.1, 4.5, 3.6, 37.9, 79.4, true, true, 10.1},
	{"MS", "Mississippi", 256, 246, 3.8, 21900, 37500, 8.2, 9.6, 6.8, 71.2, 65.7, false, false, 26.5},
	{"MO", "Missouri", 272, 262, 5.6, 24900, 43800, 5.8, 6.5, 6.0, 52.3, 76.4, false, true, 16.0},
	{"MT", "Montana", 281, 265, 6.9, 26600, 45400, 5.6, 5.1, 6.9, 42.6, 70.9, false, true, 13.8},
	{"NE", "Nebraska", 281, 264, 7.0, 27300, 46700, 4.6, 5.5, 4.8, 45.5, 74.3, false, true, 11.4},
	{"NV", "Nevada", 268, 255, 4.9, 24600, 43600, 4.9, 5.5, 9.9, 56.6, 73.2, false, true, 16.9},
	{"NH", "New Hampshire", 290, 275, 7.3, 28800, 51900, 3.4, 3.7, 3.2, 35.8, 81.2, false, true, 7.6},
	{"NJ", "New Jersey", 283, 268, 6.5, 28300, 53600, 3.6, 4.1, 3.9, 41.3, 83.0, false, true, 12.9},
	{"NM", "New Mexico", 259, 249, 4.3, 22300, 39400, 6.5, 5.8, 6.3, 68.9, 82.6, true, true, 24.9},
	{"NY", "New York", 274, 264, 5.8, 25900, 46500, 4.3, 4.6, 3.1, 51.4, 82.1, false, true, 18.1},
	{"NC", "North Carolina", 274, 260, 4.7, 24200, 43300, 6.0, 6.8, 6.1, 57.8, 76.8, false, true, 17.9},
	{"ND", "North Dakota", 281, 263, 7.4, 28100, 48100, 4.9, 5.6, 7.2, 33.1, 70.5, false, true, 9.8},
	{"OH", "Ohio", 277, 263, 5.2, 24800, 44600, 5.8, 7.0, 4.8, 50.9, 78.1, false, true, 17.8},
	{"OK", "Oklahoma", 264, 254, 4.6, 23500, 41300, 6.9, 7.2, 8.3, 60.7, 72.9, false, true, 19.7},
	{"OR", "Oregon", 274, 262, 6.2, 26000, 46000, 4.3, 4.4, 3.9, 51.9, 76.5, false, true, 13.2},
	{"PA", "Pennsylvania", 280, 265, 6.1, 26300, 47200, 4.9, 5.9, 4.4, 47.6, 79.8, false, true, 15.4},
	{"RI", "Rhode Island", 274, 262, 6.3, 26800, 48600, 3.9, 5.0, 2.9, 45.7, 81.5, false, true, 15.0},
	{"SC", "South Carolina", 267, 256, 4.4, 23400, 41900, 6.6, 7.0, 6.0, 60.9, 76.0, false, false, 18.9},
	{"SD", "South Dakota", 281, 264, 6.6, 26800, 45800, 6.2, 6.4, 6.5, 42.1, 69.8, false, true, 13.6},
	{"TN", "Tennessee", 267, 256, 4.5, 23700, 42100, 6.4, 7.0, 5.4, 58.6, 77.1, false, false, 18.6},
	{"TX", "Texas", 275, 260, 5.2, 24800, 44300, 5.8, 5.9, 10.7, 62.3, 71.2, false, false, 18.7},
	{"UT", "Utah", 282, 266, 7.6, 28200, 47500, 4.5, 5.2, 7.5, 36.8, 68.4, false, true, 8.6},
	{"VT", "Vermont", 287, 273, 7.1, 27600, 49800, 3.8, 4.1, 2.3, 42.1, 85.3, true, true, 10.3},
	{"VA", "Virginia", 278, 264, 5.9, 27000, 50300, 4.7, 5.8, 4.6, 43.8, 78.6, false, true, 12.6},
	{"WA", "Washington", 280, 265, 6.5, 27400, 49200, 3.9, 4.3, 3.3, 46.0, 76.9, false, true, 11.7},
	{"WV", "West Virginia", 260, 253, 4.6, 23100, 39600, 7.0, 7.1, 3.0, 64.8, 86.1, false, true, 21.3},
	{"WI", "Wisconsin", 279, 265, 6.5, 26700, 46500, 4.8, 6.1, 4.1, 42.3, 77.3, false, false, 12.8},
	{"WY", "Wyoming", 281, 264, 7.2, 27500, 46200, 5.7, 5.2, 8.1, 39.4, 69.3, false, false, 10.9},
}

func (r row) record() Record {
	return Record{
		Code:                   r.code,
		Name:                   r.name,
		Math8:                  r.math8,
		Reading8:               r.reading8,
		MobilityIndex:          r.mobility,
		Income25:               r.income25,
		Income75:               r.income75,
		ChildMortality:         r.childMort,
		InfantMortality:        r.infantMort,
		UninsuredChildrenPct:   r.uninsured,
		FreeLunchPct:           r.freeLunch,
		BreakfastParticipation: r.breakfast,
		UniversalMeals:         r.universalMeals,
		MedicaidExpansion:      r.expand,
		ChildPovertyRate:       r.childPoverty,
	}
}
