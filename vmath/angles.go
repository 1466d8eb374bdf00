package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// fallback when two points coincide
var zeroSeparationDir = r3.Vec{Z: 1}

// Separation returns the unit direction from a toward b and the distance
// between them. Coincident points yield the +Z fallback direction with the
// distance clamped to Epsilon so downstream gain math stays finite.
func Separation(a, b r3.Vec) (r3.Vec, float64) {
	delta := r3.Sub(b, a)
	dist := r3.Norm(delta)
	if dist < Epsilon {
		return zeroSeparationDir, Epsilon
	}
	return r3.Scale(1/dist, delta), dist
}

// AzimuthElevation converts a direction to horizontal azimuth and vertical
// elevation in degrees. Azimuth is zero along +Z and grows toward -X,
// covering (-180, 180]; elevation covers [-90, 90] with +90 straight up.
func AzimuthElevation(dir r3.Vec) (azimuthDeg, elevationDeg float64) {
	azimuthDeg = math.Atan2(-dir.X, dir.Z) * RadToDeg
	if azimuthDeg <= -180 {
		azimuthDeg += 360
	}
	elevationDeg = math.Atan2(dir.Y, math.Hypot(dir.X, dir.Z)) * RadToDeg
	return azimuthDeg, elevationDeg
}

// DirectionFromAngles is the inverse of AzimuthElevation: it maps azimuth and
// elevation in degrees back to a unit direction.
func DirectionFromAngles(azimuthDeg, elevationDeg float64) r3.Vec {
	sa, ca := math.Sincos(azimuthDeg * DegToRad)
	se, ce := math.Sincos(elevationDeg * DegToRad)
	return r3.Vec{X: -sa * ce, Y: se, Z: ca * ce}
}

// PolarOffset returns the displacement of a point placed at the given
// azimuth, elevation (degrees) and distance around an observer. Azimuth zero
// lies along -Z with positive angles toward -X, so the offset mirrors
// DirectionFromAngles on the horizontal axes.
func PolarOffset(azimuthDeg, elevationDeg, distance float64) r3.Vec {
	sa, ca := math.Sincos(azimuthDeg * DegToRad)
	se, ce := math.Sincos(elevationDeg * DegToRad)
	return r3.Vec{X: -distance * sa * ce, Y: distance * se, Z: -distance * ca * ce}
}
