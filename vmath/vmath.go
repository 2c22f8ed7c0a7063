// Package vmath holds the small amount of real-valued math the simulation needs
// on top of mgl64 vectors
package vmath

import "math"

// Clamp restricts v to [lo, hi]; lo wins when the range is empty
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ClampInt restricts v to [lo, hi]; lo wins when the range is empty
func ClampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
