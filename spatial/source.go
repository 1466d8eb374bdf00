package spatial

import (
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lirico/soundfield/vmath"
)

// DistanceSink receives the source-to-listener distance after each
// positional update
type DistanceSink interface {
	SetDistance(meters float64)
}

// DirectionSink receives listener-relative direction angles in degrees
// after each positional update
type DirectionSink interface {
	SetDirection(azimuthDeg, elevationDeg float64)
}

// Source models the pose of a single emitter: where it sits, which way it
// faces, and how its radiation pattern projects toward the listener. Every
// setter finishes the full recompute of the derived values before it
// returns, so attached sinks always see geometry consistent with the last
// mutation. All methods are safe for concurrent use.
type Source struct {
	mu       sync.Mutex
	id       uuid.UUID
	listener *Listener

	position    r3.Vec
	velocity    r3.Vec
	orientation quat.Number
	forward     r3.Vec
	directivity Directivity
	gain        float64

	distance        float64
	direction       r3.Vec
	azimuthDeg      float64
	elevationDeg    float64
	directivityGain float64

	distanceSinks  []DistanceSink
	directionSinks []DirectionSink
}

// NewSource binds a source to a listener for its lifetime. Configuration is
// optional; pass a struct seeded from DefaultSourceConfig to override
// defaults. The derived values are valid as soon as the constructor
// returns.
func NewSource(listener *Listener, cfg ...*SourceConfig) *Source {
	c := DefaultSourceConfig()
	if len(cfg) > 0 && cfg[0] != nil {
		c = cfg[0]
	}

	order := c.Order
	if order == 0 {
		order = MinDirectivityOrder
		if lo := float64(listener.AmbisonicOrder()); lo > order {
			order = lo
		}
	}

	s := &Source{
		id:          uuid.New(),
		listener:    listener,
		position:    c.Position,
		velocity:    c.Velocity,
		orientation: vmath.EulerToQuat(c.Roll, c.Pitch, c.Yaw),
		directivity: NewDirectivity(c.Alpha, order),
		gain:        c.Gain,
	}
	s.forward = vmath.Forward(s.orientation)
	s.recomputeLocked()
	return s
}

// ID returns the stable identifier assigned at construction
func (s *Source) ID() uuid.UUID {
	return s.id
}

// AttachDistanceSink registers a distance collaborator and immediately
// pushes the current distance to it
func (s *Source) AttachDistanceSink(sink DistanceSink) {
	s.mu.Lock()
	s.distanceSinks = append(s.distanceSinks, sink)
	sink.SetDistance(s.distance)
	s.mu.Unlock()
}

// AttachDirectionSink registers a direction collaborator and immediately
// pushes the current angles to it
func (s *Source) AttachDirectionSink(sink DirectionSink) {
	s.mu.Lock()
	s.directionSinks = append(s.directionSinks, sink)
	sink.SetDirection(s.azimuthDeg, s.elevationDeg)
	s.mu.Unlock()
}

// SetPosition places the source at an absolute world position and rederives
// distance, direction, angles and directivity gain against the listener
// position read at call time
func (s *Source) SetPosition(x, y, z float64) {
	s.mu.Lock()
	s.position = r3.Vec{X: x, Y: y, Z: z}
	s.recomputeLocked()
	s.mu.Unlock()
}

// SetAngleFromListener places the source on a sphere around the listener.
// Azimuth and elevation are degrees; azimuth zero lies straight ahead along
// -Z with positive angles toward -X. The angles handed to direction sinks
// flip the azimuth sign, crossing from this listener-centric input frame to
// the source-to-listener output frame of the position path; distance is
// forwarded as given, floored at epsilon.
func (s *Source) SetAngleFromListener(azimuthDeg, elevationDeg, distance float64) {
	s.mu.Lock()
	lp := s.listener.Position()
	s.position = r3.Add(lp, vmath.PolarOffset(azimuthDeg, elevationDeg, distance))

	if distance < vmath.Epsilon {
		distance = vmath.Epsilon
	}
	dir, _ := vmath.Separation(s.position, lp)
	s.direction = dir
	s.distance = distance
	s.azimuthDeg = -azimuthDeg
	s.elevationDeg = elevationDeg
	s.directivityGain = s.directivity.Gain(s.forward, dir)
	s.pushLocked()
	s.mu.Unlock()
}

// SetOrientation rotates the source to the given intrinsic roll, pitch and
// yaw in radians and refreshes the forward axis before rederiving the
// directivity gain
func (s *Source) SetOrientation(roll, pitch, yaw float64) {
	s.mu.Lock()
	s.orientation = vmath.EulerToQuat(roll, pitch, yaw)
	s.forward = vmath.Forward(s.orientation)
	s.recomputeLocked()
	s.mu.Unlock()
}

// SetVelocity stores the velocity vector. Nothing is derived from it; the
// value is carried for hosts that track motion alongside pose.
func (s *Source) SetVelocity(x, y, z float64) {
	s.mu.Lock()
	s.velocity = r3.Vec{X: x, Y: y, Z: z}
	s.mu.Unlock()
}

// SetDirectivity reshapes the radiation pattern. Alpha clamps to [0, 1] and
// order clamps up to MinDirectivityOrder.
func (s *Source) SetDirectivity(alpha, order float64) {
	s.mu.Lock()
	s.directivity = NewDirectivity(alpha, order)
	s.recomputeLocked()
	s.mu.Unlock()
}

// Recompute rederives the listener-relative values from the current pose
// and pushes them to the attached sinks. Setters run it implicitly; hosts
// call it after moving the listener. Repeated calls with unchanged state
// push unchanged values.
func (s *Source) Recompute() {
	s.mu.Lock()
	s.recomputeLocked()
	s.mu.Unlock()
}

func (s *Source) recomputeLocked() {
	dir, dist := vmath.Separation(s.position, s.listener.Position())
	s.direction = dir
	s.distance = dist
	s.azimuthDeg, s.elevationDeg = vmath.AzimuthElevation(dir)
	s.directivityGain = s.directivity.Gain(s.forward, dir)
	s.pushLocked()
}

func (s *Source) pushLocked() {
	for _, sink := range s.distanceSinks {
		sink.SetDistance(s.distance)
	}
	for _, sink := range s.directionSinks {
		sink.SetDirection(s.azimuthDeg, s.elevationDeg)
	}
}

// Position returns the world position
func (s *Source) Position() r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Velocity returns the stored velocity vector
func (s *Source) Velocity() r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.velocity
}

// Orientation returns the unit rotation from local to world space
func (s *Source) Orientation() quat.Number {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orientation
}

// Forward returns the world-space emission axis
func (s *Source) Forward() r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forward
}

// Distance returns the source-to-listener distance from the last recompute
func (s *Source) Distance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distance
}

// Direction returns the unit source-to-listener direction from the last
// recompute
func (s *Source) Direction() r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

// Angles returns the azimuth and elevation pushed by the last recompute
func (s *Source) Angles() (azimuthDeg, elevationDeg float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.azimuthDeg, s.elevationDeg
}

// Directivity returns the active radiation pattern
func (s *Source) Directivity() Directivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directivity
}

// DirectivityGain returns the pattern gain from the last recompute
func (s *Source) DirectivityGain() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.directivityGain
}

// Gain returns the linear output gain fixed at construction
func (s *Source) Gain() float64 {
	return s.gain
}
