package ambisonic

import (
	"math"

	"github.com/lirico/soundfield/vmath"
)

// SN3D normalization factors for the degree-2 and degree-3 harmonics
var (
	n2m2 = math.Sqrt(3) / 2
	n3m1 = math.Sqrt(3.0 / 8.0)
	n3m2 = math.Sqrt(15) / 2
	n3m3 = math.Sqrt(5.0 / 8.0)
)

// coefficients fills dst with the real spherical harmonics of a direction
// in ACN channel order. The incoming azimuth counts positive to the right;
// the harmonics use the counterclockwise convention, so the sign flips on
// entry.
func coefficients(dst []float64, order int, azimuthDeg, elevationDeg float64) {
	a := -azimuthDeg * vmath.DegToRad
	e := elevationDeg * vmath.DegToRad
	sa, ca := math.Sincos(a)
	se, ce := math.Sincos(e)

	dst[0] = 1
	dst[1] = sa * ce
	dst[2] = se
	dst[3] = ca * ce
	if order < 2 {
		return
	}

	s2a, c2a := math.Sincos(2 * a)
	ce2 := ce * ce
	dst[4] = n2m2 * s2a * ce2
	dst[5] = n2m2 * sa * math.Sin(2*e)
	dst[6] = (3*se*se - 1) / 2
	dst[7] = n2m2 * ca * math.Sin(2*e)
	dst[8] = n2m2 * c2a * ce2
	if order < 3 {
		return
	}

	s3a, c3a := math.Sincos(3 * a)
	dst[9] = n3m3 * s3a * ce2 * ce
	dst[10] = n3m2 * s2a * se * ce2
	dst[11] = n3m1 * sa * ce * (5*se*se - 1)
	dst[12] = se * (5*se*se - 3) / 2
	dst[13] = n3m1 * ca * ce * (5*se*se - 1)
	dst[14] = n3m2 * c2a * se * ce2
	dst[15] = n3m3 * c3a * ce2 * ce
}
