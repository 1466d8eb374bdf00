package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lirico/soundfield/vmath"
)

// MinDirectivityOrder is the lower bound on lobe sharpness
const MinDirectivityOrder = 1.0

// Directivity shapes gain by how far off-axis the listener sits from the
// emitter's forward direction. Alpha blends the pattern from
// omnidirectional (0) through cardioid-like (0.5) to figure-eight (1);
// order raises the result to sharpen the lobes.
type Directivity struct {
	alpha float64
	order float64
}

// NewDirectivity builds a pattern with alpha limited to [0, 1] and order
// limited to at least MinDirectivityOrder. Out-of-range values clamp
// silently.
func NewDirectivity(alpha, order float64) Directivity {
	return Directivity{
		alpha: vmath.Clamp(alpha, 0, 1),
		order: math.Max(order, MinDirectivityOrder),
	}
}

// Alpha returns the clamped pattern shape
func (d Directivity) Alpha() float64 {
	return d.alpha
}

// Order returns the clamped lobe sharpness
func (d Directivity) Order() float64 {
	return d.order
}

// Gain evaluates the pattern for an emitter forward axis and the unit
// direction from the emitter toward the listener. Sub-epsilon alpha is the
// omnidirectional bypass and returns exactly 1.
func (d Directivity) Gain(forward, toListener r3.Vec) float64 {
	if d.alpha < vmath.Epsilon {
		return 1
	}
	cos := r3.Dot(forward, toListener)
	return math.Pow(math.Abs((1-d.alpha)+d.alpha*cos), d.order)
}
