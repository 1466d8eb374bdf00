// Package ambisonic projects direction angles onto ambisonic channel gains
// in ACN order with SN3D normalization.
package ambisonic

import (
	"errors"
	"fmt"
	"sync"
)

// Supported order bounds. Orders above three would need the spherical
// harmonic table extended.
const (
	MinOrder = 1
	MaxOrder = 3
)

// Sentinel errors
var (
	ErrUnsupportedOrder = errors.New("unsupported ambisonic order")
)

// NumChannels returns the periphonic channel count for an order
func NumChannels(order int) int {
	return (order + 1) * (order + 1)
}

// ValidateOrder checks an order against the supported range
func ValidateOrder(order int) error {
	if order < MinOrder || order > MaxOrder {
		return fmt.Errorf("%w: %d", ErrUnsupportedOrder, order)
	}
	return nil
}

// Encoder holds the channel gains that pan a monophonic signal to a
// direction on the sphere. It implements the spatial direction sink
// contract, so a source keeps it pointed for free.
type Encoder struct {
	mu    sync.RWMutex
	order int
	gains []float64
}

// NewEncoder builds an encoder for the given ambisonic order, pointed
// straight ahead
func NewEncoder(order int) (*Encoder, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	e := &Encoder{
		order: order,
		gains: make([]float64, NumChannels(order)),
	}
	e.SetDirection(0, 0)
	return e, nil
}

// Order returns the ambisonic order
func (e *Encoder) Order() int {
	return e.order
}

// Channels returns the channel count of the gain vector
func (e *Encoder) Channels() int {
	return NumChannels(e.order)
}

// SetDirection points the encoder at azimuth and elevation in degrees.
// Positive azimuth lies to the listener's right, positive elevation up.
func (e *Encoder) SetDirection(azimuthDeg, elevationDeg float64) {
	e.mu.Lock()
	coefficients(e.gains, e.order, azimuthDeg, elevationDeg)
	e.mu.Unlock()
}

// Gains returns a copy of the current channel gains in ACN order. Index
// zero is the omnidirectional W channel and is always 1.
func (e *Encoder) Gains() []float64 {
	e.mu.RLock()
	out := make([]float64, len(e.gains))
	copy(out, e.gains)
	e.mu.RUnlock()
	return out
}
