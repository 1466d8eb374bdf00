// Command sfplot draws the two gain curves the library computes:
// polar directivity lobes for a ladder of alpha/order pairs, and
// distance-attenuation rolloff for each model. Output is one PNG per
// chart.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lirico/soundfield/spatial"
	"github.com/lirico/soundfield/vmath"
)

const angleSteps = 720

var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

func main() {
	outDir := flag.String("out", ".", "output directory")
	minDist := flag.Float64("min", spatial.DefaultMinDistance, "attenuation min distance, meters")
	maxDist := flag.Float64("max", 100, "attenuation max distance, meters")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	lobesPath := filepath.Join(*outDir, "directivity.png")
	if err := plotDirectivity(lobesPath); err != nil {
		log.Fatal("directivity plot failed", zap.Error(err))
	}
	log.Info("wrote chart", zap.String("path", lobesPath))

	rolloffPath := filepath.Join(*outDir, "attenuation.png")
	if err := plotAttenuation(rolloffPath, *minDist, *maxDist); err != nil {
		log.Fatal("attenuation plot failed", zap.Error(err))
	}
	log.Info("wrote chart", zap.String("path", rolloffPath))
}

// plotDirectivity traces each pattern's gain over a full turn of the
// listener around the source, drawn as a polar lobe in the XZ plane with
// the forward axis pointing up.
func plotDirectivity(path string) error {
	p := plot.New()
	p.Title.Text = "Directivity patterns"
	p.X.Label.Text = "across"
	p.Y.Label.Text = "forward"

	patterns := []struct {
		label string
		alpha float64
		order float64
	}{
		{"omni (a=0)", 0, 1},
		{"wide (a=0.25)", 0.25, 1},
		{"cardioid (a=0.5)", 0.5, 1},
		{"cardioid sharp (a=0.5 o=3)", 0.5, 3},
		{"figure-eight (a=1)", 1, 1},
	}

	forward := r3.Vec{Z: 1}
	for i, pat := range patterns {
		d := spatial.NewDirectivity(pat.alpha, pat.order)
		pts := make(plotter.XYs, angleSteps+1)
		for j := 0; j <= angleSteps; j++ {
			thetaDeg := float64(j) * 360 / angleSteps
			dir := vmath.DirectionFromAngles(thetaDeg, 0)
			g := d.Gain(forward, dir)
			// Radius is the gain; plot axes swap so forward points up
			pts[j] = plotter.XY{X: -g * dir.X, Y: g * dir.Z}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(pat.label, line)
	}

	p.X.Min, p.X.Max = -1.1, 1.1
	p.Y.Min, p.Y.Max = -1.1, 1.1
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// plotAttenuation traces gain against distance for each rolloff model
func plotAttenuation(path string, minDist, maxDist float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distance attenuation (%.0fm to %.0fm)", minDist, maxDist)
	p.X.Label.Text = "distance (m)"
	p.Y.Label.Text = "gain"

	models := []spatial.Rolloff{
		spatial.RolloffLogarithmic,
		spatial.RolloffLinear,
		spatial.RolloffNone,
	}

	const steps = 500
	span := maxDist * 1.1
	for i, model := range models {
		att := spatial.NewAttenuation(model, minDist, maxDist)
		pts := make(plotter.XYs, steps+1)
		for j := 0; j <= steps; j++ {
			d := span * float64(j) / steps
			pts[j] = plotter.XY{X: d, Y: att.GainAt(d)}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(string(model), line)
	}

	p.Y.Min, p.Y.Max = 0, 1.05
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
