package vmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// localForward is the un-rotated emission axis
var localForward = r3.Vec{Z: 1}

// EulerToQuat builds a world orientation from intrinsic roll, pitch and yaw
// in radians. Composition order is part of the orientation contract:
// yaw about +Y first, then roll about +Z, then pitch about +X.
func EulerToQuat(roll, pitch, yaw float64) quat.Number {
	sy, cy := math.Sincos(0.5 * yaw)
	sr, cr := math.Sincos(0.5 * roll)
	sp, cp := math.Sincos(0.5 * pitch)

	qy := quat.Number{Real: cy, Jmag: sy}
	qz := quat.Number{Real: cr, Kmag: sr}
	qx := quat.Number{Real: cp, Imag: sp}

	return quat.Mul(quat.Mul(qy, qz), qx)
}

// Rotate applies the unit quaternion q to v as q·v·q*
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// Forward returns the local +Z emission axis rotated into world space
func Forward(q quat.Number) r3.Vec {
	return Rotate(q, localForward)
}
