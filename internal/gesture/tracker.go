// Package gesture adapts raw pointer samples into the translation and
// momentum-predicted end translation that drive a drag controller.
package gesture

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/phinze/safearea/internal/geom"
)

// Defaults for Config.
const (
	DefaultVelocityWindow   = 100 * time.Millisecond
	DefaultDecelerationRate = 0.998
)

// CoordinateSpace selects which space the host reports pointer positions in.
// The tracker does not interpret it; hosts read it back to decide how to map
// positions before sampling.
type CoordinateSpace int

const (
	Local CoordinateSpace = iota
	Global
)

// String implements fmt.Stringer.
func (s CoordinateSpace) String() string {
	switch s {
	case Local:
		return "local"
	case Global:
		return "global"
	default:
		return fmt.Sprintf("CoordinateSpace(%d)", int(s))
	}
}

// ParseCoordinateSpace parses "local" or "global". Empty means Local.
func ParseCoordinateSpace(s string) (CoordinateSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return Local, nil
	case "global":
		return Global, nil
	default:
		return Local, fmt.Errorf("unknown coordinate space %q", s)
	}
}

// Config configures a Tracker.
type Config struct {
	// MinimumDistance is how far the pointer must travel before the gesture
	// activates.
	MinimumDistance float64
	CoordinateSpace CoordinateSpace
	// VelocityWindow is how much recent history the release velocity is
	// measured over.
	VelocityWindow time.Duration
	// DecelerationRate is the per-millisecond velocity retention used to
	// project the release.
	DecelerationRate float64
}

// DefaultConfig returns a zero-threshold, local-space configuration.
func DefaultConfig() Config {
	return Config{
		VelocityWindow:   DefaultVelocityWindow,
		DecelerationRate: DefaultDecelerationRate,
	}
}

// Point is a pointer position.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Release is the final sample of a gesture.
type Release struct {
	Translation geom.Size
	Predicted   geom.Size
}

type sample struct {
	p  Point
	at time.Time
}

// Tracker follows one pointer from press to release.
type Tracker struct {
	cfg     Config
	origin  Point
	down    bool
	active  bool
	samples []sample
}

// NewTracker creates a Tracker.
func NewTracker(cfg Config) *Tracker {
	if cfg.VelocityWindow <= 0 {
		cfg.VelocityWindow = DefaultVelocityWindow
	}
	if cfg.DecelerationRate <= 0 || cfg.DecelerationRate >= 1 {
		cfg.DecelerationRate = DefaultDecelerationRate
	}
	return &Tracker{cfg: cfg}
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Tracking reports whether a pointer is down.
func (t *Tracker) Tracking() bool {
	return t.down
}

// Active reports whether the gesture has passed the minimum distance.
func (t *Tracker) Active() bool {
	return t.active
}

// Begin starts a gesture at p.
func (t *Tracker) Begin(p Point, at time.Time) {
	t.origin = p
	t.down = true
	t.active = t.cfg.MinimumDistance <= 0
	t.samples = append(t.samples[:0], sample{p: p, at: at})
}

// Move records a sample. It returns the translation from the press point and
// true once the gesture is active.
func (t *Tracker) Move(p Point, at time.Time) (geom.Size, bool) {
	if !t.down {
		return geom.Zero, false
	}
	t.record(p, at)
	tr := t.translation(p)
	if !t.active && math.Hypot(tr.Width, tr.Height) >= t.cfg.MinimumDistance {
		t.active = true
	}
	return tr, t.active
}

// End finishes the gesture at p. It returns false if the gesture never
// activated, in which case the host should treat it as a tap.
func (t *Tracker) End(p Point, at time.Time) (Release, bool) {
	if !t.down {
		return Release{}, false
	}
	t.record(p, at)
	active := t.active
	if !active && math.Hypot(p.X-t.origin.X, p.Y-t.origin.Y) >= t.cfg.MinimumDistance {
		active = true
	}

	tr := t.translation(p)
	vx, vy := t.velocity()
	r := Release{
		Translation: tr,
		Predicted: geom.Sz(
			tr.Width+Project(vx, t.cfg.DecelerationRate),
			tr.Height+Project(vy, t.cfg.DecelerationRate),
		),
	}
	t.Cancel()
	return r, active
}

// Cancel drops the gesture without a release.
func (t *Tracker) Cancel() {
	t.down = false
	t.active = false
	t.samples = t.samples[:0]
}

func (t *Tracker) translation(p Point) geom.Size {
	return geom.Sz(p.X-t.origin.X, p.Y-t.origin.Y)
}

// record appends a sample and drops history older than the velocity window,
// keeping the newest sample at or before the cutoff as an anchor.
func (t *Tracker) record(p Point, at time.Time) {
	t.samples = append(t.samples, sample{p: p, at: at})
	cutoff := at.Add(-t.cfg.VelocityWindow)
	i := 0
	for i < len(t.samples)-1 && !t.samples[i+1].at.After(cutoff) {
		i++
	}
	if i > 0 {
		t.samples = append(t.samples[:0], t.samples[i:]...)
	}
}

// velocity returns points per second, measured from the oldest sample inside
// the window that predates the last one. When every windowed sample shares
// the last timestamp, the anchor before the window is used instead.
func (t *Tracker) velocity() (vx, vy float64) {
	if len(t.samples) < 2 {
		return 0, 0
	}
	last := t.samples[len(t.samples)-1]
	cutoff := last.at.Add(-t.cfg.VelocityWindow)

	first := t.samples[0]
	for _, s := range t.samples[:len(t.samples)-1] {
		if !s.at.Before(cutoff) && s.at.Before(last.at) {
			first = s
			break
		}
	}
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (last.p.X - first.p.X) / dt, (last.p.Y - first.p.Y) / dt
}

// Project returns the distance a release at velocity (points per second)
// coasts with the given per-millisecond deceleration rate.
func Project(velocity, rate float64) float64 {
	return velocity / 1000 * rate / (1 - rate)
}
