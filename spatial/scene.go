package spatial

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lirico/soundfield/ambisonic"
)

// SceneSource bundles a source with the collaborators the scene wired to it
type SceneSource struct {
	Name        string
	Source      *Source
	Attenuation *Attenuation
	Encoder     *ambisonic.Encoder
}

// Scene owns the listener and the sources positioned against it. Sources
// built through the scene come wired to a per-source attenuation curve and
// ambisonic encoder sized by the listener's order.
type Scene struct {
	mu       sync.RWMutex
	listener *Listener
	sources  map[uuid.UUID]*SceneSource
	order    []uuid.UUID
	log      *zap.Logger
}

// DefaultSceneConfig returns a first-order scene without logging
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{AmbisonicOrder: 1}
}

// NewScene builds a scene with its listener at the origin. The ambisonic
// order is validated up front so every later encoder construction is known
// good.
func NewScene(cfg ...*SceneConfig) (*Scene, error) {
	c := DefaultSceneConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		c = cfg[0]
	}
	if err := ambisonic.ValidateOrder(c.AmbisonicOrder); err != nil {
		return nil, err
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scene{
		listener: NewListener(c.AmbisonicOrder),
		sources:  make(map[uuid.UUID]*SceneSource),
		log:      log,
	}
	s.log.Info("scene created", zap.Int("ambisonic_order", c.AmbisonicOrder))
	return s, nil
}

// Listener returns the scene's reference frame
func (s *Scene) Listener() *Listener {
	return s.listener
}

// NewSource constructs a source bound to the scene listener, wires its
// attenuation and encoder collaborators, and registers it. Configuration
// is optional as with NewSource.
func (s *Scene) NewSource(cfg ...*SourceConfig) (*SceneSource, error) {
	c := DefaultSourceConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		c = cfg[0]
	}
	if c.Rolloff != "" {
		if _, err := ParseRolloff(string(c.Rolloff)); err != nil {
			return nil, err
		}
	}

	enc, err := ambisonic.NewEncoder(s.listener.AmbisonicOrder())
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	att := NewAttenuation(c.Rolloff, c.MinDistance, c.MaxDistance)

	src := NewSource(s.listener, c)
	src.AttachDistanceSink(att)
	src.AttachDirectionSink(enc)

	ss := &SceneSource{
		Name:        c.Name,
		Source:      src,
		Attenuation: att,
		Encoder:     enc,
	}

	s.mu.Lock()
	s.sources[src.ID()] = ss
	s.order = append(s.order, src.ID())
	s.mu.Unlock()

	s.log.Debug("source added",
		zap.String("id", src.ID().String()),
		zap.String("name", c.Name),
		zap.String("rolloff", string(att.Rolloff())),
		zap.Float64("gain", c.Gain),
	)
	return ss, nil
}

// Source looks a registered source up by id
func (s *Scene) Source(id uuid.UUID) (*SceneSource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.sources[id]
	return ss, ok
}

// Sources returns the registered sources in creation order
func (s *Scene) Sources() []*SceneSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*SceneSource, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sources[id])
	}
	return out
}

// RemoveSource drops a source from the registry. The source itself keeps
// working if the caller retains it; it is simply no longer the scene's.
func (s *Scene) RemoveSource(id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.sources[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSuchSource, id)
	}
	delete(s.sources, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.log.Debug("source removed", zap.String("id", id.String()))
	return nil
}

// SetListenerPosition moves the listener. Sources are left untouched;
// call Recompute to push the new geometry through them.
func (s *Scene) SetListenerPosition(x, y, z float64) {
	s.listener.SetPosition(x, y, z)
	s.log.Debug("listener moved",
		zap.Float64("x", x),
		zap.Float64("y", y),
		zap.Float64("z", z),
	)
}

// Recompute rederives every source against the current listener position
func (s *Scene) Recompute() {
	for _, ss := range s.Sources() {
		ss.Source.Recompute()
	}
}
