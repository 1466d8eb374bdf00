package vmath

import (
	"math"
)

// Degree/radian conversion factors
const (
	DegToRad = math.Pi / 180
	RadToDeg = 180 / math.Pi
)

// Epsilon is the threshold under which spatial quantities are degenerate:
// separations clamp up to it, directivity shaping shuts off below it
const Epsilon = 1e-6

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
