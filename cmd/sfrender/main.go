// Command sfrender bounces a YAML scene to a WAV file without touching
// real time. Each source contributes either a test tone or a mono WAV
// sample, scaled per block by the gains the library derives (source gain,
// directivity, distance attenuation) and panned by the derived direction:
// equal-power stereo, or first-order ambisonic channels straight from the
// encoder coefficients. Sources render concurrently and are mixed at the
// end.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lirico/soundfield/spatial"
	"github.com/lirico/soundfield/vmath"
)

const (
	blockFrames   = 512
	defaultToneHz = 440.0
)

func main() {
	scenePath := flag.String("scene", "", "YAML scene file (required)")
	outPath := flag.String("out", "out.wav", "output WAV path")
	dur := flag.Duration("dur", 5*time.Second, "render duration")
	rate := flag.Int("rate", 44100, "sample rate")
	layout := flag.String("layout", "stereo", "channel layout: stereo or foa")
	orbitDegSec := flag.Float64("orbit", 0, "orbit every source around the listener, degrees per second")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: sfrender -scene scene.yaml [-out out.wav] [-dur 5s] [-layout stereo|foa]")
		os.Exit(2)
	}

	if err := render(*scenePath, *outPath, *dur, *rate, *layout, *orbitDegSec, log); err != nil {
		log.Fatal("render failed", zap.Error(err))
	}
}

func render(scenePath, outPath string, dur time.Duration, rate int, layout string, orbitDegSec float64, log *zap.Logger) error {
	var channels int
	switch layout {
	case "stereo":
		channels = 2
	case "foa":
		channels = 4
	default:
		return fmt.Errorf("unknown layout %q", layout)
	}

	sf, err := spatial.LoadSceneFile(scenePath)
	if err != nil {
		return err
	}
	scene, sources, err := sf.Build(log)
	if err != nil {
		return err
	}
	if layout == "foa" && scene.Listener().AmbisonicOrder() < 1 {
		return fmt.Errorf("foa layout needs a first-order listener")
	}

	frames := int(float64(rate) * dur.Seconds())
	log.Info("rendering",
		zap.String("scene", scenePath),
		zap.String("layout", layout),
		zap.Int("sources", len(sources)),
		zap.Int("frames", frames),
	)

	// One renderer per source, fanned out; each owns its source and its
	// output buffer, so the only shared state is the read-only listener.
	outputs := make([][]float64, len(sources))
	var g errgroup.Group
	for i := range sources {
		i := i
		r, err := newSourceRenderer(sources[i], &sf.Sources[i], rate, channels, layout, orbitDegSec)
		if err != nil {
			return fmt.Errorf("source %q: %w", sources[i].Name, err)
		}
		g.Go(func() error {
			outputs[i] = r.render(frames)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	mixed := mix(outputs, frames*channels)
	return writeWav(outPath, mixed, rate, channels)
}

// sourceRenderer renders one source's interleaved contribution
type sourceRenderer struct {
	ss       *spatial.SceneSource
	input    signal
	rate     int
	channels int
	foa      bool

	orbitDegSec float64
	orbitAz     float64 // listener-centric start azimuth
	orbitEl     float64
	orbitDist   float64
}

func newSourceRenderer(ss *spatial.SceneSource, entry *spatial.SourceEntry, rate, channels int, layout string, orbitDegSec float64) (*sourceRenderer, error) {
	var in signal
	if entry.File != "" {
		var err error
		in, err = loadSample(entry.File, rate)
		if err != nil {
			return nil, err
		}
	} else {
		hz := entry.ToneHz
		if hz == 0 {
			hz = defaultToneHz
		}
		in = &toneSignal{freq: hz, rate: rate}
	}

	r := &sourceRenderer{
		ss:          ss,
		input:       in,
		rate:        rate,
		channels:    channels,
		foa:         layout == "foa",
		orbitDegSec: orbitDegSec,
	}
	if orbitDegSec != 0 {
		// Recover the listener-centric polar pose from the geometry the
		// source last derived; its azimuth convention is the flipped one.
		az, el := ss.Source.Angles()
		r.orbitAz = -az
		r.orbitEl = el
		r.orbitDist = ss.Source.Distance()
	}
	return r, nil
}

func (r *sourceRenderer) render(frames int) []float64 {
	out := make([]float64, frames*r.channels)
	block := make([]float64, blockFrames)

	for start := 0; start < frames; start += blockFrames {
		n := blockFrames
		if start+n > frames {
			n = frames - start
		}

		if r.orbitDegSec != 0 {
			t := float64(start) / float64(r.rate)
			r.ss.Source.SetAngleFromListener(r.orbitAz+r.orbitDegSec*t, r.orbitEl, r.orbitDist)
		}

		src := r.ss.Source
		amp := src.Gain() * src.DirectivityGain() * r.ss.Attenuation.Gain()

		var weights []float64
		if r.foa {
			weights = r.ss.Encoder.Gains()[:4]
		} else {
			az, _ := src.Angles()
			// Equal-power stereo from azimuth, right-positive
			angle := (math.Sin(az*vmath.DegToRad) + 1) * math.Pi / 4
			weights = []float64{math.Cos(angle), math.Sin(angle)}
		}

		r.input.fill(block[:n])
		for i := 0; i < n; i++ {
			s := block[i] * amp
			base := (start + i) * r.channels
			for c := 0; c < r.channels; c++ {
				out[base+c] = s * weights[c]
			}
		}
	}
	return out
}

// mix sums per-source interleaved buffers and clips to [-1, 1]
func mix(outputs [][]float64, samples int) []float64 {
	mixed := make([]float64, samples)
	for _, out := range outputs {
		for i := range out {
			mixed[i] += out[i]
		}
	}
	for i, s := range mixed {
		mixed[i] = vmath.Clamp(s, -1, 1)
	}
	return mixed
}

func writeWav(path string, samples []float64, rate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return enc.Close()
}
