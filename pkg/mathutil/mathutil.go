// Package mathutil provides common mathematical utility functions.
package mathutil

import "math"

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// RelativeTolerance scales tolerance by the magnitude of the reference value,
// never going below tolerance itself.
func RelativeTolerance(reference, tolerance float64) float64 {
	return tolerance * math.Max(1, math.Abs(reference))
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClampNonNegative replaces values within tolerance below zero by zero.
func ClampNonNegative(val, tolerance float64) float64 {
	if val < 0 && val >= -tolerance {
		return 0
	}
	return val
}
