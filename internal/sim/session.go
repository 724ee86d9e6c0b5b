package sim

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/wheelsim/internal/camera"
	"github.com/san-kum/wheelsim/internal/wheel"
)

const (
	DefaultRadius      = 56.0
	DefaultRevolutions = 10.0
	DefaultSpeed       = 1.0
	DefaultWidth       = 800.0
	DefaultHeight      = 450.0

	// BaseSpeed is the ground speed in cm/s at speed multiplier 1.
	BaseSpeed = 30.0
)

// SpeedMultipliers lists the accepted speed settings in cycling order.
var SpeedMultipliers = []float64{0.5, 1, 2}

// Session is the simulation state aggregate. Create it with New.
type Session struct {
	radius float64
	target float64
	revs   float64
	speed  float64
	pi     wheel.PiMode

	playing bool

	viewport camera.Viewport
	scale    float64
	interval float64

	lastTimestamp time.Duration
	hasTimestamp  bool

	listeners map[int]func(Snapshot)
	order     []int
	nextID    int

	log *slog.Logger
}

// Option configures a Session at construction.
type Option func(*Session)

// WithLogger sets the logger used for rejected inputs and completions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithViewport sets the initial viewport. Invalid sizes are ignored.
func WithViewport(width, height float64) Option {
	return func(s *Session) {
		vp := camera.Viewport{Width: width, Height: height}
		if vp.Valid() {
			s.viewport = vp
		}
	}
}

// New creates a session with the default wheel: 56 cm, 10 revolutions,
// speed 1 and π = 3.14.
func New(opts ...Option) *Session {
	s := &Session{
		radius:    DefaultRadius,
		target:    DefaultRevolutions,
		speed:     DefaultSpeed,
		pi:        wheel.DefaultPiMode,
		viewport:  camera.Viewport{Width: DefaultWidth, Height: DefaultHeight},
		listeners: make(map[int]func(Snapshot)),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recomputeScale()
	return s
}

// SetRadius changes the wheel radius in cm and refreshes scale and interval.
// Revolutions already rolled are kept, so the distance follows the new size.
func (s *Session) SetRadius(r float64) error {
	if !positive(r) {
		s.log.Debug("rejected radius", "radius", r)
		return fmt.Errorf("%w: radius %v", ErrNonPositive, r)
	}
	s.radius = r
	s.recomputeScale()
	return nil
}

// SetTargetRevolutions changes where the run stops. Lowering the target below
// the revolutions already rolled clamps them and completes a playing run.
func (s *Session) SetTargetRevolutions(n float64) error {
	if !positive(n) {
		s.log.Debug("rejected revolutions", "revolutions", n)
		return fmt.Errorf("%w: revolutions %v", ErrNonPositive, n)
	}
	s.target = n
	if s.revs >= s.target {
		s.revs = s.target
		if s.playing {
			s.complete()
		}
	}
	return nil
}

// SetSpeedMultiplier accepts one of SpeedMultipliers.
func (s *Session) SetSpeedMultiplier(m float64) error {
	for _, v := range SpeedMultipliers {
		if m == v {
			s.speed = m
			return nil
		}
	}
	s.log.Debug("rejected speed", "speed", m)
	return fmt.Errorf("%w: got %v", ErrInvalidSpeed, m)
}

// CycleSpeed moves to the next speed multiplier and returns it.
func (s *Session) CycleSpeed() float64 {
	for i, v := range SpeedMultipliers {
		if v == s.speed {
			s.speed = SpeedMultipliers[(i+1)%len(SpeedMultipliers)]
			return s.speed
		}
	}
	s.speed = DefaultSpeed
	return s.speed
}

// SetPiMode switches the π approximation for every later computation.
func (s *Session) SetPiMode(mode wheel.PiMode) error {
	if !mode.Valid() {
		s.log.Debug("rejected pi mode", "mode", string(mode))
		return fmt.Errorf("%w: %q", wheel.ErrUnknownPiMode, string(mode))
	}
	s.pi = mode
	return nil
}

// ResizeViewport records a new drawing area and refreshes scale and interval.
func (s *Session) ResizeViewport(width, height float64) error {
	vp := camera.Viewport{Width: width, Height: height}
	if !positive(width) || !positive(height) {
		s.log.Debug("rejected viewport", "width", width, "height", height)
		return fmt.Errorf("%w: viewport %vx%v", ErrNonPositive, width, height)
	}
	s.viewport = vp
	s.recomputeScale()
	return nil
}

func (s *Session) recomputeScale() {
	s.scale = camera.ComputeScale(s.radius, s.viewport.Width, s.viewport.Height)
	s.interval = camera.ComputeMarkerInterval(s.scale)
}

func (s *Session) Radius() float64             { return s.radius }
func (s *Session) TargetRevolutions() float64  { return s.target }
func (s *Session) CurrentRevolutions() float64 { return s.revs }
func (s *Session) SpeedMultiplier() float64    { return s.speed }
func (s *Session) PiMode() wheel.PiMode        { return s.pi }
func (s *Session) Playing() bool               { return s.playing }
func (s *Session) PixelScale() float64         { return s.scale }
func (s *Session) MarkerInterval() float64     { return s.interval }
func (s *Session) Viewport() camera.Viewport   { return s.viewport }

// Circumference of the current wheel under the current π mode.
func (s *Session) Circumference() float64 {
	return wheel.Circumference(s.radius, s.pi)
}

// CurrentDistance is the ground covered so far in cm.
func (s *Session) CurrentDistance() float64 {
	return wheel.Distance(s.radius, s.revs, s.pi)
}

// TotalDistance is the ground covered once the target is reached.
func (s *Session) TotalDistance() float64 {
	return wheel.Distance(s.radius, s.target, s.pi)
}

// RotationAngle is the wheel angle in radians: arc length over radius.
func (s *Session) RotationAngle() float64 {
	return s.CurrentDistance() / s.radius
}

// IsComplete reports whether the run has reached its target.
func (s *Session) IsComplete() bool {
	return s.revs >= s.target
}

// Snapshot is a consistent copy of the state read by one frame.
type Snapshot struct {
	Radius        float64
	PiMode        wheel.PiMode
	Circumference float64
	Revolutions   float64
	Target        float64
	Distance      float64
	TotalDistance float64
	Rotation      float64
	Speed         float64
	Playing       bool
	Complete      bool

	Viewport camera.Viewport
	Scale    float64
	Interval float64
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Radius:        s.radius,
		PiMode:        s.pi,
		Circumference: s.Circumference(),
		Revolutions:   s.revs,
		Target:        s.target,
		Distance:      s.CurrentDistance(),
		TotalDistance: s.TotalDistance(),
		Rotation:      s.RotationAngle(),
		Speed:         s.speed,
		Playing:       s.playing,
		Complete:      s.IsComplete(),
		Viewport:      s.viewport,
		Scale:         s.scale,
		Interval:      s.interval,
	}
}

// CompletedRevolutions is the number of whole turns rolled so far.
func (snap Snapshot) CompletedRevolutions() int {
	return int(math.Floor(snap.Revolutions))
}

// Progress is the fraction of the target rolled, in [0, 1].
func (snap Snapshot) Progress() float64 {
	if snap.Target <= 0 {
		return 0
	}
	return math.Min(snap.Revolutions/snap.Target, 1)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
