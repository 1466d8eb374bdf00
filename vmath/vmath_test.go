package vmath

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// near reports whether a and b agree within tol
func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// vecNear reports whether all components of a and b agree within tol
func vecNear(a, b r3.Vec, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol)
}

// TestClamp verifies range limiting at and around the bounds
func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		expected  float64
	}{
		{"below range", -0.5, 0, 1, 0},
		{"at lower bound", 0, 0, 1, 0},
		{"inside range", 0.25, 0, 1, 0.25},
		{"at upper bound", 1, 0, 1, 1},
		{"above range", 3.7, 0, 1, 1},
		{"negative range", -5, -10, -2, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.v, tt.lo, tt.hi)
			if got != tt.expected {
				t.Errorf("Expected Clamp(%v, %v, %v)=%v, got %v", tt.v, tt.lo, tt.hi, tt.expected, got)
			}
		})
	}
}

// TestDegRadConversion verifies the conversion factors are inverses
func TestDegRadConversion(t *testing.T) {
	if !near(180*DegToRad, math.Pi, 1e-12) {
		t.Errorf("Expected 180deg=pi rad, got %v", 180*DegToRad)
	}
	if !near(math.Pi*RadToDeg, 180, 1e-12) {
		t.Errorf("Expected pi rad=180deg, got %v", math.Pi*RadToDeg)
	}
}
