package main

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lirico/soundfield/vmath"
)

const (
	auditionRate = beep.SampleRate(44100)
	baseToneHz   = 220.0
	toneHeadroom = 0.25  // per-voice ceiling so a few sources cannot clip
	ampSmoothing = 0.002 // one-pole coefficient, ~11ms at 44.1kHz
)

// tone is a sine voice whose amplitude and stereo balance are fed from the
// UI loop through atomics; the speaker goroutine only ever reads them.
// Amplitude moves through a one-pole smoother so gain jumps do not click.
type tone struct {
	freq  float64
	phase float64
	amp   atomic.Uint64 // float64 bits
	pan   atomic.Uint64 // float64 bits, azimuth-derived in [-1, 1]

	smoothedAmp float64
}

func (t *tone) setAmp(v float64)   { t.amp.Store(math.Float64bits(v)) }
func (t *tone) setPan(v float64)   { t.pan.Store(math.Float64bits(v)) }
func (t *tone) ampTarget() float64 { return math.Float64frombits(t.amp.Load()) }
func (t *tone) panValue() float64  { return math.Float64frombits(t.pan.Load()) }

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	target := t.ampTarget() * toneHeadroom
	pan := t.panValue()

	// Equal-power balance from the pan position
	angle := (pan + 1) * math.Pi / 4
	left, right := math.Cos(angle), math.Sin(angle)

	inc := t.freq / float64(auditionRate)
	for i := range samples {
		t.smoothedAmp += (target - t.smoothedAmp) * ampSmoothing
		s := math.Sin(2*math.Pi*t.phase) * t.smoothedAmp
		samples[i][0] = s * left
		samples[i][1] = s * right
		t.phase += inc
		if t.phase >= 1 {
			t.phase -= 1
		}
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// audition owns the speaker and one voice per scene source
type audition struct {
	tones []*tone
	state []*sourceState
}

func newAudition(states []*sourceState) (*audition, error) {
	if err := speaker.Init(auditionRate, auditionRate.N(time.Second/20)); err != nil {
		return nil, err
	}

	a := &audition{
		tones: make([]*tone, len(states)),
		state: states,
	}
	streamers := make([]beep.Streamer, len(states))
	for i := range states {
		// Spread voices over a harmonic-ish ladder so they stay separable
		a.tones[i] = &tone{freq: baseToneHz * math.Pow(1.5, float64(i))}
		streamers[i] = a.tones[i]
	}
	a.update()
	speaker.Play(streamers...)
	return a, nil
}

// update feeds the freshly computed control values to the voices
func (a *audition) update() {
	for i, st := range a.state {
		src := st.scene.Source
		amp := src.Gain() * src.DirectivityGain() * st.scene.Attenuation.Gain()
		az, _ := src.Angles()

		a.tones[i].setAmp(vmath.Clamp(amp, 0, 1))
		// Positive azimuth is the listener's right
		a.tones[i].setPan(math.Sin(az * vmath.DegToRad))
	}
}

func (a *audition) close() {
	speaker.Close()
}
