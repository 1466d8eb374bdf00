package spatial

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/lirico/soundfield/vmath"
)

// SourceConfig carries construction-time parameters for a Source. Seed it
// with DefaultSourceConfig and override fields; a zero Order resolves to
// the listener's ambisonic order at construction.
type SourceConfig struct {
	Name        string
	Gain        float64
	Position    r3.Vec
	Velocity    r3.Vec
	Roll        float64 // radians
	Pitch       float64 // radians
	Yaw         float64 // radians
	Alpha       float64
	Order       float64
	Rolloff     Rolloff
	MinDistance float64
	MaxDistance float64
}

// DefaultSourceConfig returns the construction defaults: unity gain at the
// origin, omnidirectional, logarithmic rolloff over [1, 1000] meters
func DefaultSourceConfig() *SourceConfig {
	return &SourceConfig{
		Gain:        1,
		Rolloff:     RolloffLogarithmic,
		MinDistance: DefaultMinDistance,
		MaxDistance: DefaultMaxDistance,
	}
}

// SceneConfig carries construction-time parameters for a Scene
type SceneConfig struct {
	AmbisonicOrder int
	Logger         *zap.Logger
}

// SceneFile mirrors the on-disk YAML scene document
type SceneFile struct {
	Listener ListenerEntry `yaml:"listener"`
	Sources  []SourceEntry `yaml:"sources"`
}

// ListenerEntry is the listener block of a scene document
type ListenerEntry struct {
	Position       [3]float64 `yaml:"position"`
	AmbisonicOrder int        `yaml:"ambisonic_order"`
}

// SourceEntry is one source block of a scene document. Position and polar
// placement are alternatives; polar wins when both appear. Angles are
// degrees, orientation included.
type SourceEntry struct {
	Name        string         `yaml:"name"`
	Position    *[3]float64    `yaml:"position,omitempty"`
	Polar       *PolarPosition `yaml:"polar,omitempty"`
	Orientation *EulerDegrees  `yaml:"orientation,omitempty"`
	Gain        *float64       `yaml:"gain,omitempty"`
	Alpha       float64        `yaml:"alpha"`
	Order       float64        `yaml:"order"`
	Rolloff     string         `yaml:"rolloff"`
	MinDistance *float64       `yaml:"min_distance,omitempty"`
	MaxDistance *float64       `yaml:"max_distance,omitempty"`

	// Renderer hints, ignored by the core: a test-tone frequency and an
	// optional mono WAV to feed instead of the tone
	ToneHz float64 `yaml:"tone_hz,omitempty"`
	File   string  `yaml:"file,omitempty"`
}

// PolarPosition places a source by angle around the listener. A zero
// distance means the one meter default; elevation defaults flat.
type PolarPosition struct {
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
	Distance  float64 `yaml:"distance"`
}

// EulerDegrees is an orientation triple in degrees for config authoring
type EulerDegrees struct {
	Roll  float64 `yaml:"roll"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
}

// LoadScene decodes a YAML scene document
func LoadScene(r io.Reader) (*SceneFile, error) {
	var sf SceneFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &sf, nil
}

// LoadSceneFile reads and decodes a YAML scene document from disk
func LoadSceneFile(path string) (*SceneFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return LoadScene(f)
}

// SourceConfig converts a document entry into construction parameters.
// Unset fields keep the DefaultSourceConfig values; unknown rolloff names
// are rejected.
func (e *SourceEntry) SourceConfig() (*SourceConfig, error) {
	cfg := DefaultSourceConfig()
	cfg.Name = e.Name
	if e.Gain != nil {
		cfg.Gain = *e.Gain
	}
	if e.Position != nil {
		cfg.Position = r3.Vec{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]}
	}
	if e.Orientation != nil {
		cfg.Roll = e.Orientation.Roll * vmath.DegToRad
		cfg.Pitch = e.Orientation.Pitch * vmath.DegToRad
		cfg.Yaw = e.Orientation.Yaw * vmath.DegToRad
	}
	cfg.Alpha = e.Alpha
	cfg.Order = e.Order
	if e.Rolloff != "" {
		r, err := ParseRolloff(e.Rolloff)
		if err != nil {
			return nil, err
		}
		cfg.Rolloff = r
	}
	if e.MinDistance != nil {
		cfg.MinDistance = *e.MinDistance
	}
	if e.MaxDistance != nil {
		cfg.MaxDistance = *e.MaxDistance
	}
	return cfg, nil
}

// Build constructs a scene and its sources from the document. Sources keep
// document order. Polar entries are applied after construction so they
// resolve against the configured listener position.
func (sf *SceneFile) Build(log *zap.Logger) (*Scene, []*SceneSource, error) {
	order := sf.Listener.AmbisonicOrder
	if order == 0 {
		order = 1
	}
	scene, err := NewScene(&SceneConfig{
		AmbisonicOrder: order,
		Logger:         log,
	})
	if err != nil {
		return nil, nil, err
	}
	scene.SetListenerPosition(sf.Listener.Position[0], sf.Listener.Position[1], sf.Listener.Position[2])

	sources := make([]*SceneSource, 0, len(sf.Sources))
	for i := range sf.Sources {
		entry := &sf.Sources[i]
		cfg, err := entry.SourceConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("source %q: %w", entry.Name, err)
		}
		ss, err := scene.NewSource(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("source %q: %w", entry.Name, err)
		}
		if p := entry.Polar; p != nil {
			dist := p.Distance
			if dist == 0 {
				dist = 1
			}
			ss.Source.SetAngleFromListener(p.Azimuth, p.Elevation, dist)
		}
		sources = append(sources, ss)
	}
	return scene, sources, nil
}
