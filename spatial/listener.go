package spatial

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Listener is the reference frame every source positions itself against.
// Moving it does not touch the sources; callers re-run their recompute step
// when they want the new geometry reflected.
type Listener struct {
	mu             sync.RWMutex
	position       r3.Vec
	ambisonicOrder int
}

// NewListener places a listener at the origin
func NewListener(ambisonicOrder int) *Listener {
	return &Listener{ambisonicOrder: ambisonicOrder}
}

// Position returns the current world position
func (l *Listener) Position() r3.Vec {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

// SetPosition moves the listener in world space
func (l *Listener) SetPosition(x, y, z float64) {
	l.mu.Lock()
	l.position = r3.Vec{X: x, Y: y, Z: z}
	l.mu.Unlock()
}

// AmbisonicOrder returns the order the listener renders at
func (l *Listener) AmbisonicOrder() int {
	return l.ambisonicOrder
}
