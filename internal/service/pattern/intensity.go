package pattern

import (
	"math"
	"strconv"
	"strings"
)

var intensityScores = map[string]float64{
	"low":      1,
	"mild":     1.5,
	"moderate": 2.5,
	"medium":   2.5,
	"high":     3.5,
	"intense":  4,
	"extreme":  5,
}

// unknownIntensity is used where a score is required but the value is
// unmappable.
const unknownIntensity = 2.5

// IntensityScore maps an intensity label (or a numeric string) to a number.
// ok is false when the value cannot be mapped.
func IntensityScore(raw string) (score float64, ok bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if n, found := intensityScores[v]; found {
		return n, true
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// IntensityOrDefault is IntensityScore with unmappable values scored 2.5.
func IntensityOrDefault(raw string) float64 {
	if n, ok := IntensityScore(raw); ok {
		return n
	}
	return unknownIntensity
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation; 0 for fewer than two values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	sq := make([]float64, len(values))
	for i, v := range values {
		sq[i] = (v - avg) * (v - avg)
	}
	return math.Sqrt(mean(sq))
}
