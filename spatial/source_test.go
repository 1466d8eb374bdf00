package spatial

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lirico/soundfield/vmath"
)

// recordingSink captures every pushed value for inspection
type recordingSink struct {
	mu        sync.Mutex
	distances []float64
	angles    [][2]float64
}

func (r *recordingSink) SetDistance(meters float64) {
	r.mu.Lock()
	r.distances = append(r.distances, meters)
	r.mu.Unlock()
}

func (r *recordingSink) SetDirection(azimuthDeg, elevationDeg float64) {
	r.mu.Lock()
	r.angles = append(r.angles, [2]float64{azimuthDeg, elevationDeg})
	r.mu.Unlock()
}

func (r *recordingSink) lastDistance(t *testing.T) float64 {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.distances) == 0 {
		t.Fatal("Expected at least one distance push")
	}
	return r.distances[len(r.distances)-1]
}

func (r *recordingSink) lastAngles(t *testing.T) (float64, float64) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.angles) == 0 {
		t.Fatal("Expected at least one direction push")
	}
	last := r.angles[len(r.angles)-1]
	return last[0], last[1]
}

func (r *recordingSink) pushCount() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.distances), len(r.angles)
}

func almost(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// TestSetPositionDerivation verifies derived values for a source straight
// behind the listener
func TestSetPositionDerivation(t *testing.T) {
	src := NewSource(NewListener(1))
	sink := &recordingSink{}
	src.AttachDistanceSink(sink)
	src.AttachDirectionSink(sink)

	src.SetPosition(0, 0, 5)

	if d := src.Distance(); !almost(d, 5, 1e-9) {
		t.Errorf("Expected distance 5, got %v", d)
	}
	dir := src.Direction()
	if !almost(dir.X, 0, 1e-9) || !almost(dir.Y, 0, 1e-9) || !almost(dir.Z, -1, 1e-9) {
		t.Errorf("Expected direction (0,0,-1), got %+v", dir)
	}
	az, el := src.Angles()
	if !almost(az, 180, 1e-9) || !almost(el, 0, 1e-9) {
		t.Errorf("Expected angles (180,0), got (%v,%v)", az, el)
	}
	if d := sink.lastDistance(t); !almost(d, 5, 1e-9) {
		t.Errorf("Expected pushed distance 5, got %v", d)
	}
	if gotAz, gotEl := sink.lastAngles(t); !almost(gotAz, 180, 1e-9) || !almost(gotEl, 0, 1e-9) {
		t.Errorf("Expected pushed angles (180,0), got (%v,%v)", gotAz, gotEl)
	}
}

// TestSetPositionUnitDirection verifies the pushed direction is unit length
// for assorted placements
func TestSetPositionUnitDirection(t *testing.T) {
	src := NewSource(NewListener(1))
	positions := []r3.Vec{
		{X: 1},
		{X: -3, Y: 4, Z: 5},
		{X: 0.001, Y: -0.002, Z: 0.003},
		{X: 1000, Y: -2000, Z: 500},
	}
	for _, p := range positions {
		src.SetPosition(p.X, p.Y, p.Z)
		if n := r3.Norm(src.Direction()); !almost(n, 1, 1e-6) {
			t.Errorf("Expected unit direction for %+v, got norm %v", p, n)
		}
		if d := src.Distance(); !almost(d, r3.Norm(p), 1e-9) {
			t.Errorf("Expected distance %v for %+v, got %v", r3.Norm(p), p, d)
		}
	}
}

// TestSetAngleFromListener verifies polar placement and the sign flip on
// the pushed azimuth
func TestSetAngleFromListener(t *testing.T) {
	src := NewSource(NewListener(1))
	sink := &recordingSink{}
	src.AttachDistanceSink(sink)
	src.AttachDirectionSink(sink)

	src.SetAngleFromListener(90, 0, 2)

	pos := src.Position()
	if !almost(pos.X, -2, 1e-9) || !almost(pos.Y, 0, 1e-9) || !almost(pos.Z, 0, 1e-9) {
		t.Errorf("Expected position (-2,0,0), got %+v", pos)
	}
	if az, el := sink.lastAngles(t); !almost(az, -90, 1e-9) || !almost(el, 0, 1e-9) {
		t.Errorf("Expected pushed angles (-90,0), got (%v,%v)", az, el)
	}
	if d := sink.lastDistance(t); !almost(d, 2, 1e-9) {
		t.Errorf("Expected pushed distance 2, got %v", d)
	}
}

// TestAngleAndPositionPathsAgree verifies both placement paths hand the
// encoder the same azimuth for the same physical spot
func TestAngleAndPositionPathsAgree(t *testing.T) {
	byAngle := NewSource(NewListener(1))
	byAngle.SetAngleFromListener(90, 0, 2)

	byPosition := NewSource(NewListener(1))
	byPosition.SetPosition(-2, 0, 0)

	azA, _ := byAngle.Angles()
	azP, _ := byPosition.Angles()
	if !almost(azA, azP, 1e-9) || !almost(azA, -90, 1e-9) {
		t.Errorf("Expected both paths at azimuth -90, got angle path %v and position path %v", azA, azP)
	}
}

// TestSetAngleFromListenerOffsetListener verifies polar placement resolves
// against a listener away from the origin
func TestSetAngleFromListenerOffsetListener(t *testing.T) {
	lst := NewListener(1)
	lst.SetPosition(10, 1, -4)
	src := NewSource(lst)

	src.SetAngleFromListener(0, 0, 3)

	pos := src.Position()
	if !almost(pos.X, 10, 1e-9) || !almost(pos.Y, 1, 1e-9) || !almost(pos.Z, -7, 1e-9) {
		t.Errorf("Expected position (10,1,-7), got %+v", pos)
	}
	if d := src.Distance(); !almost(d, 3, 1e-9) {
		t.Errorf("Expected distance 3, got %v", d)
	}
}

// TestDefaultForward verifies the identity orientation faces +Z
func TestDefaultForward(t *testing.T) {
	src := NewSource(NewListener(1))
	src.SetOrientation(0, 0, 0)
	fwd := src.Forward()
	if !almost(fwd.X, 0, 1e-12) || !almost(fwd.Y, 0, 1e-12) || !almost(fwd.Z, 1, 1e-12) {
		t.Errorf("Expected forward (0,0,1), got %+v", fwd)
	}
}

// TestOrientationDrivesDirectivityGain verifies turning the source away
// from the listener moves the listener through the pattern's lobes
func TestOrientationDrivesDirectivityGain(t *testing.T) {
	lst := NewListener(1)
	cfg := DefaultSourceConfig()
	cfg.Alpha = 0.5
	cfg.Order = 1
	cfg.Position = r3.Vec{Z: -5}
	src := NewSource(lst, cfg)

	// Facing the listener head on: direction is +Z, forward is +Z
	if g := src.DirectivityGain(); !almost(g, 1, 1e-9) {
		t.Errorf("Expected head-on gain 1, got %v", g)
	}

	// Half turn away: the cardioid null points at the listener
	src.SetOrientation(0, 0, math.Pi)
	if g := src.DirectivityGain(); !almost(g, 0, 1e-9) {
		t.Errorf("Expected rear null gain 0, got %v", g)
	}

	// A figure-eight keeps its rear lobe at full strength
	src.SetDirectivity(1, 1)
	if g := src.DirectivityGain(); !almost(g, 1, 1e-9) {
		t.Errorf("Expected full rear lobe gain 1, got %v", g)
	}
}

// TestVelocityInert verifies velocity is stored without touching derived
// values or sinks
func TestVelocityInert(t *testing.T) {
	src := NewSource(NewListener(1))
	src.SetPosition(0, 0, 5)

	sink := &recordingSink{}
	src.AttachDistanceSink(sink)
	src.AttachDirectionSink(sink)
	distBefore, angBefore := sink.pushCount()

	src.SetVelocity(3, -1, 40)

	vel := src.Velocity()
	if vel.X != 3 || vel.Y != -1 || vel.Z != 40 {
		t.Errorf("Expected stored velocity (3,-1,40), got %+v", vel)
	}
	if d := src.Distance(); !almost(d, 5, 1e-9) {
		t.Errorf("Expected distance unchanged at 5, got %v", d)
	}
	distAfter, angAfter := sink.pushCount()
	if distAfter != distBefore || angAfter != angBefore {
		t.Errorf("Expected no sink pushes from SetVelocity, got %d/%d then %d/%d", distBefore, angBefore, distAfter, angAfter)
	}
}

// TestZeroDistanceGuard verifies a source on top of the listener never
// produces degenerate values
func TestZeroDistanceGuard(t *testing.T) {
	lst := NewListener(1)
	lst.SetPosition(2, 3, 4)
	src := NewSource(lst)
	sink := &recordingSink{}
	src.AttachDistanceSink(sink)
	src.AttachDirectionSink(sink)

	src.SetPosition(2, 3, 4)

	if d := src.Distance(); d != vmath.Epsilon {
		t.Errorf("Expected distance clamped to %v, got %v", vmath.Epsilon, d)
	}
	dir := src.Direction()
	if dir.X != 0 || dir.Y != 0 || dir.Z != 1 {
		t.Errorf("Expected +Z fallback direction, got %+v", dir)
	}
	az, el := src.Angles()
	if math.IsNaN(az) || math.IsNaN(el) || math.IsInf(az, 0) || math.IsInf(el, 0) {
		t.Errorf("Expected finite angles, got (%v,%v)", az, el)
	}
	if g := src.DirectivityGain(); math.IsNaN(g) {
		t.Errorf("Expected finite directivity gain, got %v", g)
	}
	if d := sink.lastDistance(t); d != vmath.Epsilon {
		t.Errorf("Expected pushed distance %v, got %v", vmath.Epsilon, d)
	}
}

// TestRecomputeIdempotent verifies repeated recomputes push identical
// values
func TestRecomputeIdempotent(t *testing.T) {
	src := NewSource(NewListener(1))
	src.SetPosition(1, 2, 3)
	sink := &recordingSink{}
	src.AttachDistanceSink(sink)
	src.AttachDirectionSink(sink)

	src.Recompute()
	src.Recompute()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.distances) != 3 {
		t.Fatalf("Expected 3 distance pushes (attach plus two recomputes), got %d", len(sink.distances))
	}
	for i := 1; i < len(sink.distances); i++ {
		if sink.distances[i] != sink.distances[0] {
			t.Errorf("Expected identical distances, got %v and %v", sink.distances[0], sink.distances[i])
		}
	}
	for i := 1; i < len(sink.angles); i++ {
		if sink.angles[i] != sink.angles[0] {
			t.Errorf("Expected identical angles, got %v and %v", sink.angles[0], sink.angles[i])
		}
	}
}

// TestListenerMoveNeedsRecompute verifies moving the listener leaves
// sources stale until the explicit recompute
func TestListenerMoveNeedsRecompute(t *testing.T) {
	lst := NewListener(1)
	src := NewSource(lst)
	src.SetPosition(0, 0, 5)

	lst.SetPosition(0, 0, 4)
	if d := src.Distance(); !almost(d, 5, 1e-9) {
		t.Errorf("Expected stale distance 5 before recompute, got %v", d)
	}

	src.Recompute()
	if d := src.Distance(); !almost(d, 1, 1e-9) {
		t.Errorf("Expected distance 1 after recompute, got %v", d)
	}
}

// TestAttachPushesCurrent verifies a sink attached late immediately sees
// the present geometry
func TestAttachPushesCurrent(t *testing.T) {
	src := NewSource(NewListener(1))
	src.SetPosition(0, 0, 5)

	sink := &recordingSink{}
	src.AttachDistanceSink(sink)
	src.AttachDirectionSink(sink)

	if d := sink.lastDistance(t); !almost(d, 5, 1e-9) {
		t.Errorf("Expected attach push distance 5, got %v", d)
	}
	if az, _ := sink.lastAngles(t); !almost(az, 180, 1e-9) {
		t.Errorf("Expected attach push azimuth 180, got %v", az)
	}
}

// TestSourceConcurrentSetters verifies concurrent mutation stays
// internally consistent
func TestSourceConcurrentSetters(t *testing.T) {
	src := NewSource(NewListener(1))
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch n % 4 {
				case 0:
					src.SetPosition(float64(j), 0, float64(n))
				case 1:
					src.SetOrientation(0, 0, float64(j)*0.01)
				case 2:
					src.SetDirectivity(0.5, 2)
				default:
					src.Recompute()
				}
				_ = src.Distance()
				_, _ = src.Angles()
			}
		}(i)
	}
	wg.Wait()

	if n := r3.Norm(src.Direction()); !almost(n, 1, 1e-6) {
		t.Errorf("Expected unit direction after concurrent updates, got norm %v", n)
	}
}
