package report

import (
	"image/color"
	"strconv"
	"strings"

	"hcroi/internal/features"
)

// Theme colours shared by the PNG charts and the HTML dashboards.
const (
	colorEducation = "#2E86AB"
	colorHealth    = "#A23B72"
	colorNutrition = "#F18F01"
	colorPoverty   = "#C73E1D"
	colorSuccess   = "#588B8B"
	colorNeutral   = "#8D8D8D"
	colorBenchmark = "#004225"
	colorNational  = "#CC0000"
)

// scenarioColors cycles across scenarios in dashboard order.
var scenarioColors = []string{colorSuccess, colorBenchmark, colorEducation, colorHealth}

// targetColor picks a target's series colour, cycling the scenario colours
// for unknown targets.
func targetColor(target string, i int) string {
	switch target {
	case features.ColProjectedROI:
		return colorEducation
	case features.ColHumanCapital:
		return colorHealth
	case features.ColPovertyReduction:
		return colorPoverty
	}
	return scenarioColors[i%len(scenarioColors)]
}

// rgb converts a #RRGGBB string; malformed input yields opaque black.
func rgb(hex string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(hex) != 7 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
