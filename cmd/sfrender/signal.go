package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// signal produces the mono samples a source emits before spatialization
type signal interface {
	fill(dst []float64)
}

// toneSignal is a phase-continuous sine at unity amplitude
type toneSignal struct {
	freq  float64
	rate  int
	phase float64
}

func (t *toneSignal) fill(dst []float64) {
	inc := t.freq / float64(t.rate)
	for i := range dst {
		dst[i] = math.Sin(2 * math.Pi * t.phase)
		t.phase += inc
		if t.phase >= 1 {
			t.phase -= 1
		}
	}
}

// sampleSignal loops a decoded mono sample
type sampleSignal struct {
	samples []float64
	pos     int
}

func (s *sampleSignal) fill(dst []float64) {
	for i := range dst {
		dst[i] = s.samples[s.pos]
		s.pos++
		if s.pos >= len(s.samples) {
			s.pos = 0
		}
	}
}

// loadSample decodes a WAV file to looping mono float64 at the render
// rate. Multi-channel input collapses to its channel average; rate
// mismatches go through linear interpolation.
func loadSample(path string, rate int) (*sampleSignal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || len(buf.Data) == 0 {
		return nil, fmt.Errorf("sample %s: empty or malformed", path)
	}

	ch := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int(1)<<(bitDepth-1))
	frames := len(buf.Data) / ch
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c]) * scale
		}
		mono[i] = sum / float64(ch)
	}

	if buf.Format.SampleRate != rate {
		mono = resample(mono, buf.Format.SampleRate, rate)
	}
	return &sampleSignal{samples: mono}, nil
}

// resample converts between rates by linear interpolation; good enough
// for scene auditioning, not mastering
func resample(in []float64, from, to int) []float64 {
	if from == to || len(in) < 2 {
		return in
	}
	ratio := float64(from) / float64(to)
	out := make([]float64, int(float64(len(in))/ratio))
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = in[j]*(1-frac) + in[j+1]*frac
	}
	return out
}
