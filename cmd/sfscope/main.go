// Command sfscope is an interactive top-down viewer for a soundfield
// scene. Sources move around the listener with vi-style keys while the
// status bar tracks the control values the library derives: distance,
// azimuth/elevation, directivity and attenuation gains, and the
// first-order ambisonic coefficients. With -audio each source drives a
// sine tone whose loudness and stereo balance follow those values.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lirico/soundfield/spatial"
	"github.com/lirico/soundfield/vmath"
)

const (
	tickMs       = 33
	moveStep     = 0.5 // meters per keypress
	yawStepDeg   = 5.0
	alphaStep    = 0.05
	orderStep    = 0.5
	metersPerCol = 0.5 // horizontal map scale
	metersPerRow = 1.0 // terminal cells are ~2:1
)

var rolloffCycle = []spatial.Rolloff{
	spatial.RolloffLogarithmic,
	spatial.RolloffLinear,
	spatial.RolloffNone,
}

// sourceState carries the per-source values the viewer mutates; the
// library owns everything derived from them.
type sourceState struct {
	scene   *spatial.SceneSource
	yawDeg  float64
	alpha   float64
	order   float64
	rolloff int
}

type scope struct {
	screen        tcell.Screen
	width, height int

	scene   *spatial.Scene
	sources []*sourceState
	active  int

	audio *audition
}

func newScope(sceneFile string, withAudio bool, log *zap.Logger) (*scope, error) {
	scene, states, err := buildScene(sceneFile, log)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	sc := &scope{
		screen:  screen,
		scene:   scene,
		sources: states,
	}
	sc.width, sc.height = screen.Size()

	if withAudio {
		aud, err := newAudition(states)
		if err != nil {
			// Non-fatal, the viewer works without sound
			log.Warn("audio init failed", zap.Error(err))
		} else {
			sc.audio = aud
		}
	}

	return sc, nil
}

// buildScene loads the given YAML document, or lays out a small demo
// scene when no file is named.
func buildScene(path string, log *zap.Logger) (*spatial.Scene, []*sourceState, error) {
	var scene *spatial.Scene
	var wired []*spatial.SceneSource

	if path != "" {
		sf, err := spatial.LoadSceneFile(path)
		if err != nil {
			return nil, nil, err
		}
		scene, wired, err = sf.Build(log)
		if err != nil {
			return nil, nil, err
		}
	} else {
		var err error
		scene, err = spatial.NewScene(&spatial.SceneConfig{AmbisonicOrder: 1, Logger: log})
		if err != nil {
			return nil, nil, err
		}
		demo := []struct {
			name  string
			az    float64
			dist  float64
			alpha float64
		}{
			{"front", 0, 4, 0},
			{"left", 90, 6, 0.5},
			{"rear", 180, 8, 1},
		}
		for _, d := range demo {
			cfg := spatial.DefaultSourceConfig()
			cfg.Name = d.name
			cfg.Alpha = d.alpha
			ss, err := scene.NewSource(cfg)
			if err != nil {
				return nil, nil, err
			}
			ss.Source.SetAngleFromListener(d.az, 0, d.dist)
			wired = append(wired, ss)
		}
	}

	if len(wired) == 0 {
		return nil, nil, fmt.Errorf("scene has no sources")
	}

	states := make([]*sourceState, len(wired))
	for i, ss := range wired {
		d := ss.Source.Directivity()
		states[i] = &sourceState{
			scene: ss,
			alpha: d.Alpha(),
			order: d.Order(),
		}
		for j, r := range rolloffCycle {
			if r == ss.Attenuation.Rolloff() {
				states[i].rolloff = j
			}
		}
	}
	return scene, states, nil
}

func (sc *scope) moveActive(dx, dy, dz float64) {
	src := sc.sources[sc.active].scene.Source
	p := src.Position()
	src.SetPosition(p.X+dx, p.Y+dy, p.Z+dz)
}

func (sc *scope) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		st := sc.sources[sc.active]
		src := st.scene.Source

		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			sc.active = (sc.active + 1) % len(sc.sources)
			return true
		case tcell.KeyLeft:
			sc.moveActive(-moveStep, 0, 0)
			return true
		case tcell.KeyRight:
			sc.moveActive(moveStep, 0, 0)
			return true
		case tcell.KeyUp:
			sc.moveActive(0, 0, -moveStep)
			return true
		case tcell.KeyDown:
			sc.moveActive(0, 0, moveStep)
			return true
		}

		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 'h':
			sc.moveActive(-moveStep, 0, 0)
		case 'l':
			sc.moveActive(moveStep, 0, 0)
		case 'k':
			sc.moveActive(0, 0, -moveStep)
		case 'j':
			sc.moveActive(0, 0, moveStep)
		case 'u':
			sc.moveActive(0, moveStep, 0)
		case 'n':
			sc.moveActive(0, -moveStep, 0)
		case 'y':
			st.yawDeg += yawStepDeg
			src.SetOrientation(0, 0, st.yawDeg*vmath.DegToRad)
		case 'Y':
			st.yawDeg -= yawStepDeg
			src.SetOrientation(0, 0, st.yawDeg*vmath.DegToRad)
		case 'a':
			st.alpha = vmath.Clamp(st.alpha+alphaStep, 0, 1)
			src.SetDirectivity(st.alpha, st.order)
		case 'A':
			st.alpha = vmath.Clamp(st.alpha-alphaStep, 0, 1)
			src.SetDirectivity(st.alpha, st.order)
		case 'o':
			st.order += orderStep
			src.SetDirectivity(st.alpha, st.order)
		case 'O':
			st.order -= orderStep
			if st.order < spatial.MinDirectivityOrder {
				st.order = spatial.MinDirectivityOrder
			}
			src.SetDirectivity(st.alpha, st.order)
		case 'r':
			st.rolloff = (st.rolloff + 1) % len(rolloffCycle)
			st.scene.Attenuation.SetRolloff(rolloffCycle[st.rolloff])
		}

	case *tcell.EventResize:
		sc.width, sc.height = sc.screen.Size()
	}
	return true
}

// mapCell projects a world position onto the top-down map: X grows right,
// Z grows down, listener at center.
func (sc *scope) mapCell(x, z float64) (int, int) {
	return sc.width/2 + int(x/metersPerCol), (sc.height-2)/2 + int(z/metersPerRow)
}

func (sc *scope) draw() {
	sc.screen.Clear()

	lp := sc.scene.Listener().Position()
	lx, ly := sc.mapCell(lp.X, lp.Z)
	sc.screen.SetContent(lx, ly, 'L', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))

	for i, st := range sc.sources {
		p := st.scene.Source.Position()
		x, y := sc.mapCell(p.X, p.Z)
		if x < 0 || x >= sc.width || y < 0 || y >= sc.height-2 {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if i == sc.active {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
		}
		sc.screen.SetContent(x, y, rune('1'+i%9), nil, style)
	}

	sc.drawStatus()
	sc.screen.Show()
}

func (sc *scope) drawStatus() {
	st := sc.sources[sc.active]
	src := st.scene.Source
	p := src.Position()
	az, el := src.Angles()
	gains := st.scene.Encoder.Gains()

	line1 := fmt.Sprintf("[%d/%d] %s  pos=(%.1f, %.1f, %.1f)  dist=%.2fm  az=%.1f el=%.1f",
		sc.active+1, len(sc.sources), st.scene.Name, p.X, p.Y, p.Z, src.Distance(), az, el)
	line2 := fmt.Sprintf("dir=%.3f att=%.3f (%s)  alpha=%.2f order=%.1f  W=%.2f Y=%.2f Z=%.2f X=%.2f",
		src.DirectivityGain(), st.scene.Attenuation.Gain(), st.scene.Attenuation.Rolloff(),
		st.alpha, st.order, gains[0], gains[1], gains[2], gains[3])

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
	sc.putLine(sc.height-2, line1, style)
	sc.putLine(sc.height-1, line2, style)
}

func (sc *scope) putLine(y int, s string, style tcell.Style) {
	x := 0
	for _, r := range s {
		if x >= sc.width {
			break
		}
		sc.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < sc.width; x++ {
		sc.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (sc *scope) run() {
	ticker := time.NewTicker(tickMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- sc.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !sc.handleInput(ev) {
				return
			}

		case <-ticker.C:
			if sc.audio != nil {
				sc.audio.update()
			}
			sc.draw()
		}
	}
}

func (sc *scope) cleanup() {
	if sc.audio != nil {
		sc.audio.close()
	}
	sc.screen.Fini()
}

func main() {
	sceneFile := flag.String("scene", "", "YAML scene file (default: built-in demo scene)")
	withAudio := flag.Bool("audio", false, "play a tone per source, driven by the computed gains")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
	}

	sc, err := newScope(*sceneFile, *withAudio, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer sc.cleanup()

	sc.run()
}
