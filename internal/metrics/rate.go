package metrics

import (
	"fmt"
	"math"
)

var byteUnits = []string{"B", "KB", "MB", "GB"}

// HumanizeBytes scales bytes into the largest of B, KB, MB or GB that keeps
// the value at or above 1. GB has no upper bound.
func HumanizeBytes(bytes uint64) (float64, string) {
	v := float64(bytes)
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	return v, byteUnits[unit]
}

// FormatBytes renders bytes as "%.2f <unit>", e.g. "1.50 KB".
func FormatBytes(bytes uint64) string {
	v, unit := HumanizeBytes(bytes)
	return fmt.Sprintf("%.2f %s", v, unit)
}

// Rate returns the per-second change between two cumulative counter reads.
// A counter that went backwards or a non-positive interval yields 0.
func Rate(prev, curr uint64, seconds float64) float64 {
	if curr < prev || seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return float64(curr-prev) / seconds
}
