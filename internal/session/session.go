// Package session is the single owner of the planning state of one opened case.
//
// A Session routes surface taps to the tap-phase machine or the ruler manager,
// keeps part visibility and opacity, and after every change hands a Frame to the
// host for reconciliation and to any subscribers.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/yosuahres/developmentVRSkripsi/internal/fragment"
	"github.com/yosuahres/developmentVRSkripsi/internal/marker"
	"github.com/yosuahres/developmentVRSkripsi/internal/part"
	"github.com/yosuahres/developmentVRSkripsi/internal/raycast"
	"github.com/yosuahres/developmentVRSkripsi/internal/ruler"
	"github.com/yosuahres/developmentVRSkripsi/internal/space"
	"github.com/yosuahres/developmentVRSkripsi/internal/tapphase"
	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

var (
	// ErrNoSurface means no surface has been loaded for the requested part
	ErrNoSurface = errors.New("no surface loaded")
	// ErrNoHit means the ray missed the active surface
	ErrNoHit = errors.New("ray missed the surface")
	// ErrDegenerateNormal means the hit normal was unusable and up was substituted
	ErrDegenerateNormal = errors.New("degenerate hit normal")
	// ErrDegenerateTransform means the surface anchor cannot be inverted
	ErrDegenerateTransform = space.ErrDegenerateTransform
	// ErrUnknownID means a marker id does not exist (any more)
	ErrUnknownID = errors.New("unknown marker id")
	// ErrNoMarkers means a ruler operation needed markers that are not there
	ErrNoMarkers = errors.New("not enough markers")
)

// Host is the scene the session draws into and picks from
type Host interface {
	raycast.Scene
	// CameraTransform is the viewer's pose; its -Z axis is the look direction
	CameraTransform() geometry.Transform
	// Reconcile brings the host's nodes in line with frame
	Reconcile(frame Frame)
}

// Surface is a loaded mesh markers can be placed on
type Surface struct {
	ID     raycast.EntityID
	Part   part.Part
	Bounds geometry.BoundingBox
	// Anchor returns the surface's local-to-world transform; nil means identity
	Anchor func() geometry.Transform
}

func (s Surface) anchor() geometry.Transform {
	if s.Anchor == nil {
		return geometry.IdentityTransform()
	}
	return s.Anchor()
}

// Config holds the per-session tunables
type Config struct {
	RealWorldScale     float64
	TapMode            tapphase.Mode
	SurfaceOffset      float64
	SpawnRadius        float64
	TranslucentOpacity float64
}

// DefaultConfig returns the planner defaults
func DefaultConfig() Config {
	return Config{
		RealWorldScale:     ruler.DefaultRealWorldScale,
		TapMode:            tapphase.Single,
		SpawnRadius:        0.3,
		TranslucentOpacity: 0.7,
	}
}

// Session owns markers, rulers and tap phase for one case
type Session struct {
	// publishMu is taken before mu and held until a frame has been delivered,
	// so the host and observers see frames in the order the changes were made
	publishMu sync.Mutex
	mu        sync.Mutex

	host    Host
	adapter *raycast.Adapter
	logger  *slog.Logger
	cfg     Config

	markers *marker.Manager
	rulers  *ruler.Manager
	taps    *tapphase.Machine

	surfaces map[part.Part]Surface
	order    []part.Part
	parts    map[part.Part]*PartState
	active   part.Part

	spawned int

	observers    map[int]func(Frame)
	nextObserver int
}

// Option customizes a Session
type Option func(*options)

type options struct {
	markerOpts []marker.Option
	rulerOpts  []ruler.Option
}

// WithMarkerOptions passes options through to the marker manager
func WithMarkerOptions(opts ...marker.Option) Option {
	return func(o *options) {
		o.markerOpts = append(o.markerOpts, opts...)
	}
}

// WithRulerOptions passes options through to the ruler manager
func WithRulerOptions(opts ...ruler.Option) Option {
	return func(o *options) {
		o.rulerOpts = append(o.rulerOpts, opts...)
	}
}

// New creates a session drawing into host; a nil host gives a headless session
func New(host Host, cfg Config, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.RealWorldScale <= 0 || math.IsNaN(cfg.RealWorldScale) {
		cfg.RealWorldScale = defaults.RealWorldScale
	}
	if cfg.SpawnRadius <= 0 {
		cfg.SpawnRadius = defaults.SpawnRadius
	}
	if cfg.TranslucentOpacity <= 0 || cfg.TranslucentOpacity > 1 {
		cfg.TranslucentOpacity = defaults.TranslucentOpacity
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var scene raycast.Scene
	if host != nil {
		scene = host
	}

	return &Session{
		host:      host,
		adapter:   raycast.NewAdapter(scene, logger),
		logger:    logger,
		cfg:       cfg,
		markers:   marker.NewManager(append([]marker.Option{marker.WithSurfaceOffset(cfg.SurfaceOffset)}, o.markerOpts...)...),
		rulers:    ruler.NewManager(append([]ruler.Option{ruler.WithScale(cfg.RealWorldScale)}, o.rulerOpts...)...),
		taps:      tapphase.New(cfg.TapMode),
		surfaces:  make(map[part.Part]Surface),
		parts:     make(map[part.Part]*PartState),
		observers: make(map[int]func(Frame)),
	}
}

// Config returns the effective configuration
func (s *Session) Config() Config {
	return s.cfg
}

// AddSurface registers a loaded surface; the first one becomes the tap target
func (s *Session) AddSurface(surface Surface) error {
	var err error
	s.update(func() bool {
		if _, exists := s.surfaces[surface.Part]; exists {
			err = fmt.Errorf("surface for %s already loaded", surface.Part)
			return false
		}
		s.surfaces[surface.Part] = surface
		s.order = append(s.order, surface.Part)
		s.parts[surface.Part] = &PartState{Part: surface.Part, Visible: true, Opacity: 1}
		if len(s.order) == 1 {
			s.active = surface.Part
		}
		s.logger.Info("surface loaded", "part", surface.Part, "id", surface.ID)
		return true
	})
	return err
}

// SetActivePart chooses which surface taps are cast against; it cancels a pending tap
func (s *Session) SetActivePart(p part.Part) error {
	var err error
	s.update(func() bool {
		if _, ok := s.surfaces[p]; !ok {
			err = fmt.Errorf("set active part %s: %w", p, ErrNoSurface)
			return false
		}
		if s.active == p {
			return false
		}
		s.active = p
		s.taps.Cancel()
		return true
	})
	return err
}

// ActivePart returns the current tap target part
func (s *Session) ActivePart() (part.Part, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.surfaces[s.active]
	return s.active, ok
}

func (s *Session) activeSurface() (Surface, bool) {
	surface, ok := s.surfaces[s.active]
	return surface, ok
}

// update runs fn under the lock and publishes a frame when fn reports a change
func (s *Session) update(fn func() bool) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	changed := fn()
	var (
		frame     Frame
		observers []func(Frame)
	)
	if changed {
		frame = s.frameLocked()
		observers = s.observerList()
	}
	s.mu.Unlock()

	if changed {
		s.publish(frame, observers)
	}
}

func (s *Session) publish(frame Frame, observers []func(Frame)) {
	if s.host != nil {
		s.host.Reconcile(frame)
	}
	for _, fn := range observers {
		fn(frame)
	}
}

// Refresh republishes the current frame, e.g. after a host rebuilt its scene
func (s *Session) Refresh() {
	s.update(func() bool { return true })
}

// Markers returns the markers in creation order
func (s *Session) Markers() []marker.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.All()
}

// Rulers returns the rulers in creation order
func (s *Session) Rulers() []ruler.Ruler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rulers.All()
}

// TapState returns the tap-phase mode and state
func (s *Session) TapState() (tapphase.Mode, tapphase.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taps.Mode(), s.taps.State()
}

// IsRulerMode reports whether taps are measuring
func (s *Session) IsRulerMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rulers.IsRulerMode()
}

// markerWorldPositionsLocked converts every marker to world space through its surface anchor
func (s *Session) markerWorldPositionsLocked() []geometry.Vector3 {
	anchors := make(map[raycast.EntityID]geometry.Transform, len(s.surfaces))
	for _, surface := range s.surfaces {
		anchors[surface.ID] = surface.anchor()
	}

	all := s.markers.All()
	out := make([]geometry.Vector3, len(all))
	for i, m := range all {
		if anchor, ok := anchors[m.Surface]; ok {
			out[i] = space.PointToWorld(m.Position, anchor)
		} else {
			out[i] = m.Position
		}
	}
	return out
}

// ApplyFragmentPlan places the planned slices of plan on the active surface as markers
func (s *Session) ApplyFragmentPlan(plan fragment.Plan) ([]marker.Marker, error) {
	var (
		placed []marker.Marker
		err    error
	)
	s.update(func() bool {
		surface, ok := s.activeSurface()
		if !ok {
			err = ErrNoSurface
			return false
		}
		for _, p := range plan.Place(surface.Bounds) {
			placed = append(placed, s.markers.CreateAt(surface.ID, p.Position, p.Orientation, marker.SourceFragment))
		}
		s.logger.Info("fragment plan applied", "part", surface.Part, "slices", len(placed))
		return len(placed) > 0
	})
	return placed, err
}
