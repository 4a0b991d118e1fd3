package session

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yosuahres/developmentVRSkripsi/internal/fragment"
	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// planeHost is a host whose only surface is the world plane y = 0
type planeHost struct {
	mu      sync.Mutex
	normal  geometry.Vector3
	camera  geometry.Transform
	frames  []Frame
	parents map[raycast.EntityID]raycast.EntityID
}

func newPlaneHost() *planeHost {
	return &planeHost{
		normal: geometry.Up,
		camera: geometry.LookAt(geometry.NewVector3(0, 5, 0.001), geometry.Vector3{}, geometry.Up),
		parents: map[raycast.EntityID]raycast.EntityID{
			"mandible/mesh": "mandible",
			"mandible":      "case",
			"maxilla":       "case",
		},
	}
}

func (h *planeHost) Raycast(origin, direction geometry.Vector3) []raycast.Candidate {
	if direction.Y == 0 {
		return nil
	}
	t := -origin.Y / direction.Y
	if t < 0 {
		return nil
	}
	return []raycast.Candidate{{
		Position: origin.Add(direction.Mul(t)),
		Normal:   h.normal,
		Entity:   "mandible/mesh",
		Distance: t,
	}}
}

func (h *planeHost) Parent(id raycast.EntityID) (raycast.EntityID, bool) {
	p, ok := h.parents[id]
	return p, ok
}

func (h *planeHost) CameraTransform() geometry.Transform {
	return h.camera
}

func (h *planeHost) Reconcile(frame Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, frame)
}

func (h *planeHost) lastFrame() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames[len(h.frames)-1]
}

func markerIDs(markers []marker.Marker) []string {
	ids := make([]string, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, m.ID)
	}
	return ids
}

// stallingHost holds its first armed Reconcile until release is closed
type stallingHost struct {
	*planeHost
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (h *stallingHost) Reconcile(frame Frame) {
	if h.armed.CompareAndSwap(true, false) {
		close(h.entered)
		<-h.release
	}
	h.planeHost.Reconcile(frame)
}

func (h *planeHost) reconciled() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

var down = geometry.NewVector3(0, -1, 0)

func above(x, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, 5, z)
}

func newSession(t *testing.T, host *planeHost, anchor geometry.Transform) *Session {
	t.Helper()
	s := New(host, DefaultConfig(), nil)
	require.NoError(t, s.AddSurface(Surface{
		ID:   "mandible",
		Part: part.Mandible,
		Bounds: geometry.BoundingBox{
			Min: geometry.NewVector3(-1, 0, -1),
			Max: geometry.NewVector3(1, 0, 1),
		},
		Anchor: func() geometry.Transform { return anchor },
	}))
	return s
}

func TestSingleTapPlacesMarker(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())

	out := s.Tap(above(0, 0), down)
	require.Equal(t, OutcomeMarkerPlaced, out.Kind)
	require.NoError(t, out.Err)

	markers := s.Markers()
	require.Len(t, markers, 1)
	assert.True(t, markers[0].Position.ApproxEqual(geometry.Vector3{}, 1e-12))
	assert.True(t, markers[0].Orientation.Rotate(geometry.ReferenceAxis).ApproxEqual(geometry.Up, 1e-9))

	out = s.Tap(above(0, 0), geometry.NewVector3(0, 1, 0))
	assert.Equal(t, OutcomeIgnored, out.Kind)
	assert.True(t, errors.Is(out.Err, ErrNoHit))
	assert.Len(t, s.Markers(), 1)
}

func TestTwoTapPlacesMarkerAtMidpoint(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())
	s.SetTapMode(tapphase.TwoTap)

	out := s.Tap(above(0, 0), down)
	assert.Equal(t, OutcomePending, out.Kind)
	assert.Empty(t, s.Markers())

	frame := s.Frame()
	require.Len(t, frame.Dots, 1)
	assert.Equal(t, tapphase.AwaitingSecondTap, frame.TapState)

	out = s.Tap(above(1, 0), down)
	require.Equal(t, OutcomeMarkerPlaced, out.Kind)

	markers := s.Markers()
	require.Len(t, markers, 1)
	assert.True(t, markers[0].Position.ApproxEqual(geometry.NewVector3(0.5, 0, 0), 1e-12))

	frame = s.Frame()
	assert.Empty(t, frame.Dots)
	assert.Equal(t, tapphase.AwaitingFirstTap, frame.TapState)
}

func TestRulerBetweenTwoMarkers(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())

	s.Tap(above(0, 0), down)
	s.Tap(above(2, 0), down)
	markers := s.Markers()
	require.Len(t, markers, 2)

	assert.True(t, s.ToggleRulerMode())

	out := s.Tap(above(0.1, 0), down)
	assert.Equal(t, OutcomeRulerStart, out.Kind)
	assert.Empty(t, s.Rulers())
	assert.True(t, s.Frame().HasRulerStart)

	out = s.Tap(above(2, 0), down)
	require.Equal(t, OutcomeRulerCreated, out.Kind)

	rulers := s.Rulers()
	require.Len(t, rulers, 1)
	assert.True(t, rulers[0].Start.ApproxEqual(markers[0].Position, 1e-12))
	assert.True(t, rulers[0].End.ApproxEqual(markers[1].Position, 1e-12))
	assert.InDelta(t, 200.0, rulers[0].DistanceMM, 1e-9)
	assert.False(t, s.Frame().HasRulerStart)

	// ruler mode taps never create markers
	assert.Len(t, s.Markers(), 2)

	s.ClearAllRulers()
	assert.Empty(t, s.Rulers())
	assert.True(t, s.IsRulerMode())
}

func TestRulerTapWithoutMarkers(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())
	s.ToggleRulerMode()

	out := s.Tap(above(0, 0), down)
	assert.Equal(t, OutcomeIgnored, out.Kind)
	assert.True(t, errors.Is(out.Err, ErrNoMarkers))
}

func TestMarkersAreStoredInSurfaceFrame(t *testing.T) {
	anchor := geometry.Translation(geometry.NewVector3(10, 0, 0)).Mul(geometry.UniformScale(0.5))
	s := newSession(t, newPlaneHost(), anchor)

	s.Tap(above(11, 0), down)
	s.Tap(above(12, 0), down)

	markers := s.Markers()
	require.Len(t, markers, 2)
	assert.True(t, markers[0].Position.ApproxEqual(geometry.NewVector3(2, 0, 0), 1e-9), "%v", markers[0].Position)
	assert.True(t, markers[1].Position.ApproxEqual(geometry.NewVector3(4, 0, 0), 1e-9), "%v", markers[1].Position)

	r, err := s.CreateRulerBetweenLastTwo()
	require.NoError(t, err)
	assert.True(t, r.Start.ApproxEqual(geometry.NewVector3(11, 0, 0), 1e-9))
	assert.True(t, r.End.ApproxEqual(geometry.NewVector3(12, 0, 0), 1e-9))
	assert.InDelta(t, 100.0, r.DistanceMM, 1e-9)
}

func TestDegenerateAnchorSkipsTap(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.UniformScale(0))

	out := s.Tap(above(0, 0), down)
	assert.Equal(t, OutcomeIgnored, out.Kind)
	assert.True(t, errors.Is(out.Err, ErrDegenerateTransform))
	assert.Empty(t, s.Markers())
}

func TestNonFiniteNormalFallsBackToUp(t *testing.T) {
	host := newPlaneHost()
	host.normal = geometry.NewVector3(math.NaN(), math.NaN(), 0)
	s := newSession(t, host, geometry.IdentityTransform())

	out := s.Tap(above(0, 0), down)
	require.Equal(t, OutcomeMarkerPlaced, out.Kind)
	assert.True(t, out.FallbackNormal)
	assert.True(t, out.Marker.Normal().ApproxEqual(geometry.Up, 1e-9))
}

func TestTapWithoutSurface(t *testing.T) {
	s := New(newPlaneHost(), DefaultConfig(), nil)

	out := s.Tap(above(0, 0), down)
	assert.True(t, errors.Is(out.Err, ErrNoSurface))
	assert.Equal(t, OutcomeIgnored, s.SpawnMarkerAtCurrentTarget().Kind)
}

func TestHeadlessSessionMissesEverything(t *testing.T) {
	s := New(nil, DefaultConfig(), nil)
	require.NoError(t, s.AddSurface(Surface{ID: "mandible", Part: part.Mandible}))

	out := s.Tap(above(0, 0), down)
	assert.True(t, errors.Is(out.Err, ErrNoHit))
}

func TestToggleAllMarkersVisibleTwiceRestores(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())
	s.Tap(above(0, 0), down)
	s.Tap(above(0.5, 0), down)

	before := s.Markers()
	assert.False(t, s.ToggleAllMarkersVisible())
	for _, m := range s.Markers() {
		assert.False(t, m.Visible)
	}
	assert.True(t, s.ToggleAllMarkersVisible())
	assert.Equal(t, before, s.Markers())
}

func TestRemoveAndVisibilityOfUnknownIDs(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())
	out := s.Tap(above(0, 0), down)

	published := host.reconciled()
	assert.True(t, errors.Is(s.RemoveMarker("missing"), ErrUnknownID))
	assert.True(t, errors.Is(s.SetMarkerVisible("missing", false), ErrUnknownID))
	assert.Equal(t, published, host.reconciled())

	require.NoError(t, s.SetMarkerVisible(out.Marker.ID, false))
	assert.False(t, s.Markers()[0].Visible)
	require.NoError(t, s.RemoveMarker(out.Marker.ID))
	assert.Empty(t, s.Markers())
}

func TestRemoveLastMarker(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())
	first := s.Tap(above(0, 0), down).Marker
	second := s.Tap(above(1, 0), down).Marker

	removed, ok := s.RemoveLastMarker()
	require.True(t, ok)
	assert.Equal(t, second.ID, removed.ID)
	assert.Equal(t, []marker.Marker{first}, s.Markers())
}

func TestToggleRulerModeCancelsPendingTap(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())
	s.SetTapMode(tapphase.TwoTap)
	s.Tap(above(0, 0), down)

	s.ToggleRulerMode()
	s.ToggleRulerMode()

	_, state := s.TapState()
	assert.Equal(t, tapphase.AwaitingFirstTap, state)
	assert.Empty(t, s.Frame().Dots)
}

func TestCancelPendingTapIsIdempotent(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())
	s.SetTapMode(tapphase.TwoTap)
	s.Tap(above(0, 0), down)

	s.CancelPendingTap()
	published := host.reconciled()
	s.CancelPendingTap()
	assert.Equal(t, published, host.reconciled())

	assert.Equal(t, OutcomePending, s.Tap(above(1, 0), down).Kind)
}

func TestPartVisibilityAndOpacity(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())

	require.NoError(t, s.SetPartVisible(part.Mandible, false))
	require.NoError(t, s.SetPartOpacity(part.Mandible, true))

	state, ok := s.Frame().Part(part.Mandible)
	require.True(t, ok)
	assert.False(t, state.Visible)
	assert.InDelta(t, 0.7, state.Opacity, 1e-12)
	assert.True(t, state.Translucent())

	require.NoError(t, s.SetPartOpacity(part.Mandible, false))
	state, _ = s.Frame().Part(part.Mandible)
	assert.Equal(t, 1.0, state.Opacity)

	assert.True(t, errors.Is(s.SetPartVisible(part.Maxilla, true), ErrNoSurface))
}

func TestActivePart(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())
	require.NoError(t, s.AddSurface(Surface{ID: "maxilla", Part: part.Maxilla}))
	assert.Error(t, s.AddSurface(Surface{ID: "other-mandible", Part: part.Mandible}))

	active, ok := s.ActivePart()
	assert.True(t, ok)
	assert.Equal(t, part.Mandible, active)

	require.NoError(t, s.SetActivePart(part.Maxilla))
	// the plane belongs to the mandible, so taps now miss
	out := s.Tap(above(0, 0), down)
	assert.True(t, errors.Is(out.Err, ErrNoHit))

	assert.True(t, errors.Is(s.SetActivePart(part.Other), ErrNoSurface))
}

func TestSpawnAtCameraTarget(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())

	out := s.SpawnMarkerAtCurrentTarget()
	require.Equal(t, OutcomeMarkerPlaced, out.Kind)
	assert.Equal(t, marker.SourceSpawn, out.Marker.Source)
	assert.True(t, out.Marker.Position.ApproxEqual(geometry.Vector3{}, 1e-9), "%v", out.Marker.Position)
	assert.True(t, out.Marker.Normal().ApproxEqual(geometry.Up, 1e-9))
}

func TestSpawnRingWhenCameraMisses(t *testing.T) {
	host := newPlaneHost()
	host.camera = geometry.LookAt(geometry.NewVector3(0, 5, 0), geometry.NewVector3(0, 10, 1), geometry.Up)
	s := newSession(t, host, geometry.IdentityTransform())

	first := s.SpawnMarkerAtCurrentTarget()
	second := s.SpawnMarkerAtCurrentTarget()
	require.Equal(t, OutcomeMarkerPlaced, first.Kind)
	require.Equal(t, OutcomeMarkerPlaced, second.Kind)

	assert.True(t, first.Marker.Position.ApproxEqual(geometry.NewVector3(0.3, 0, 0), 1e-9), "%v", first.Marker.Position)
	expected := geometry.NewVector3(0.3*math.Cos(math.Pi/3), 0, 0.3*math.Sin(math.Pi/3))
	assert.True(t, second.Marker.Position.ApproxEqual(expected, 1e-9), "%v", second.Marker.Position)
}

func TestSpawnSkipsDegenerateAnchor(t *testing.T) {
	for _, camera := range []geometry.Transform{
		geometry.LookAt(geometry.NewVector3(0, 5, 0.001), geometry.Vector3{}, geometry.Up),
		geometry.LookAt(geometry.NewVector3(0, 5, 0), geometry.NewVector3(0, 10, 1), geometry.Up),
	} {
		host := newPlaneHost()
		host.camera = camera
		s := newSession(t, host, geometry.UniformScale(0))
		before := host.reconciled()

		out := s.SpawnMarkerAtCurrentTarget()
		assert.Equal(t, OutcomeIgnored, out.Kind)
		assert.True(t, errors.Is(out.Err, ErrDegenerateTransform), "got %v", out.Err)
		assert.Empty(t, s.Markers())
		assert.Equal(t, before, host.reconciled())
	}
}

func TestApplyFragmentPlan(t *testing.T) {
	s := newSession(t, newPlaneHost(), geometry.IdentityTransform())
	plan := fragment.Plan{Axis: fragment.AxisX, Fragments: []fragment.Fragment{
		{Start: fragment.Slice{Distance: 0.5}, End: fragment.Slice{Distance: 1.5}},
	}}

	placed, err := s.ApplyFragmentPlan(plan)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.True(t, placed[0].Position.ApproxEqual(geometry.NewVector3(-0.5, 0, 0), 1e-12))
	assert.Equal(t, marker.SourceFragment, placed[1].Source)
	assert.Len(t, s.Markers(), 2)
}

func TestSubscribeReceivesFrames(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())

	var got []Frame
	cancel := s.Subscribe(func(f Frame) { got = append(got, f) })

	s.Tap(above(0, 0), down)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Markers, 1)

	cancel()
	s.Tap(above(1, 0), down)
	assert.Len(t, got, 1)

	// the host is reconciled regardless of subscribers
	last := host.frames[len(host.frames)-1]
	assert.Len(t, last.Markers, 2)
}

func TestMissedTapDoesNotPublish(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())
	before := host.reconciled()

	s.Tap(above(0, 0), geometry.NewVector3(0, 1, 0))
	assert.Equal(t, before, host.reconciled())
}

func TestConcurrentTaps(t *testing.T) {
	host := newPlaneHost()
	s := newSession(t, host, geometry.IdentityTransform())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Tap(above(float64(i)*0.01, 0), down)
		}(i)
	}
	wg.Wait()

	markers := s.Markers()
	assert.Len(t, markers, 20)
	ids := map[string]bool{}
	for _, m := range markers {
		ids[m.ID] = true
	}
	assert.Len(t, ids, 20)
	assert.Equal(t, markerIDs(markers), markerIDs(host.lastFrame().Markers))
}

func TestFramesReachHostInOrder(t *testing.T) {
	host := &stallingHost{planeHost: newPlaneHost(), entered: make(chan struct{}), release: make(chan struct{})}
	s := New(host, DefaultConfig(), nil)
	require.NoError(t, s.AddSurface(Surface{
		ID:     "mandible",
		Part:   part.Mandible,
		Anchor: geometry.IdentityTransform,
	}))
	host.armed.Store(true)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Tap(above(0, 0), down)
	}()
	<-host.entered
	go func() {
		defer wg.Done()
		s.Tap(above(0.5, 0), down)
	}()
	time.Sleep(20 * time.Millisecond)
	close(host.release)
	wg.Wait()

	require.Len(t, s.Markers(), 2)
	assert.Equal(t, markerIDs(s.Markers()), markerIDs(host.lastFrame().Markers))
}

func TestConfigDefaults(t *testing.T) {
	s := New(nil, Config{RealWorldScale: -1}, nil)
	cfg := s.Config()
	assert.Equal(t, 100.0, cfg.RealWorldScale)
	assert.Equal(t, 0.3, cfg.SpawnRadius)
	assert.Equal(t, 0.7, cfg.TranslucentOpacity)
}
