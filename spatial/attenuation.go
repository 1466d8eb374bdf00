package spatial

import (
	"fmt"
	"strings"
	"sync"
)

// Rolloff selects the distance attenuation model
type Rolloff string

const (
	RolloffLogarithmic Rolloff = "logarithmic"
	RolloffLinear      Rolloff = "linear"
	RolloffNone        Rolloff = "none"
)

// Default distance bounds in meters
const (
	DefaultMinDistance = 1.0
	DefaultMaxDistance = 1000.0
)

// ParseRolloff maps a config name onto a model
func ParseRolloff(name string) (Rolloff, error) {
	switch r := Rolloff(strings.ToLower(name)); r {
	case RolloffLogarithmic, RolloffLinear, RolloffNone:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRolloff, name)
}

// Attenuation converts source-listener distance into a gain. Inside the
// [min, max] band the selected rolloff decays smoothly; at or below min the
// gain is 1, at or beyond max it is 0. It implements DistanceSink.
type Attenuation struct {
	mu          sync.RWMutex
	rolloff     Rolloff
	minDistance float64
	maxDistance float64
	distance    float64
	gain        float64
}

// NewAttenuation builds a curve over the [minDistance, maxDistance] band.
// The bounds are taken as given; the zero rolloff value falls back to the
// logarithmic model.
func NewAttenuation(rolloff Rolloff, minDistance, maxDistance float64) *Attenuation {
	if rolloff == "" {
		rolloff = RolloffLogarithmic
	}
	a := &Attenuation{
		rolloff:     rolloff,
		minDistance: minDistance,
		maxDistance: maxDistance,
		gain:        1,
	}
	return a
}

// Rolloff returns the active model
func (a *Attenuation) Rolloff() Rolloff {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rolloff
}

// SetRolloff switches the model in place and rederives the gain for the
// last distance seen
func (a *Attenuation) SetRolloff(r Rolloff) {
	a.mu.Lock()
	a.rolloff = r
	a.gain = a.gainAt(a.distance)
	a.mu.Unlock()
}

// Bounds returns the min and max distances of the rolloff band
func (a *Attenuation) Bounds() (minDistance, maxDistance float64) {
	return a.minDistance, a.maxDistance
}

// SetDistance updates the gain for a new source-listener distance
func (a *Attenuation) SetDistance(meters float64) {
	a.mu.Lock()
	a.distance = meters
	a.gain = a.gainAt(meters)
	a.mu.Unlock()
}

// Gain returns the gain computed by the last SetDistance
func (a *Attenuation) Gain() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gain
}

// GainAt evaluates the curve at a distance without touching the stored gain
func (a *Attenuation) GainAt(meters float64) float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gainAt(meters)
}

func (a *Attenuation) gainAt(d float64) float64 {
	switch a.rolloff {
	case RolloffLinear:
		if d <= a.minDistance {
			return 1
		}
		if d >= a.maxDistance {
			return 0
		}
		return (a.maxDistance - d) / (a.maxDistance - a.minDistance)
	case RolloffLogarithmic:
		if d <= a.minDistance {
			return 1
		}
		if d >= a.maxDistance {
			return 0
		}
		// Inverse-distance curve 1/(1+r), renormalized so the gain lands
		// exactly on zero at the far bound
		r := d - a.minDistance
		span := a.maxDistance - a.minDistance
		att := 1 / (r + 1)
		attMax := 1 / (span + 1)
		return (att - attMax) / (1 - attMax)
	}
	return 1
}
