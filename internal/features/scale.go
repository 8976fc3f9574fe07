package features

import (
	"fmt"
	"math"
)

// Scale is the closed interval a derived value is defined on.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the scale.
func (s Scale) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= s.Min && v <= s.Max
}

// Clamp limits v to the scale.
func (s Scale) Clamp(v float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, v))
}

func (s Scale) String() string {
	return fmt.Sprintf("[%g,%g]", s.Min, s.Max)
}

var (
	scaleNAEP       = Scale{Min: 0, Max: 500}
	scalePercent    = Scale{Min: 0, Max: 100}
	scaleRatio      = Scale{Min: 1, Max: 10}
	scaleFlag       = Scale{Min: 0, Max: 1}
	scaleROI        = Scale{Min: 2, Max: 6}
	scaleReductions = Scale{Min: 5, Max: 40}
)
