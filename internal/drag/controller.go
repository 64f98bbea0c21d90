// Package drag implements the bounded drag controller behind each corner
// handle of the safe area overlay.
//
// A Controller holds a posted (committed) value and, while a gesture is
// active, a live offset. Live updates are not clamped; the bounds apply when
// the gesture ends. A smooth release flings the posted value toward the
// momentum-predicted target with a spring that the host advances via Tick.
package drag

import (
	"math"
	"time"

	"github.com/phinze/safearea/internal/geom"
)

// Controller converts gesture samples into a clamped, optionally animated
// 2D value. It is not safe for concurrent use.
type Controller struct {
	bounds geom.Bounds
	spring Spring
	now    func() time.Time

	posted geom.Size
	live   *geom.Size
	settle *settle

	observers map[int]func(geom.Size)
	nextObs   int
}

// settle is an in-flight release animation.
type settle struct {
	from, to geom.Size
	start    time.Time
	velocity float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithBounds sets the clamp applied when a gesture ends.
func WithBounds(b geom.Bounds) Option {
	return func(c *Controller) { c.bounds = b }
}

// WithSpring replaces the release spring.
func WithSpring(s Spring) Option {
	return func(c *Controller) { c.spring = s }
}

// WithClock sets the time source used to evaluate animations.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a Controller with the given initial posted value. Bounds
// default to geom.Unbounded.
func New(initial geom.Size, opts ...Option) *Controller {
	c := &Controller{
		bounds:    geom.Unbounded,
		spring:    DefaultSpring(),
		now:       time.Now,
		posted:    initial,
		observers: make(map[int]func(geom.Size)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Value returns the externally observed value: the posted value (interpolated
// if settling) plus the live offset of an active drag.
func (c *Controller) Value() geom.Size {
	v := c.postedAt(c.now())
	if c.live != nil {
		v = v.Add(*c.live)
	}
	return v
}

// Posted returns the committed value, interpolated if a settle is in flight.
func (c *Controller) Posted() geom.Size {
	return c.postedAt(c.now())
}

// Target returns where the value will rest once any settle completes.
func (c *Controller) Target() geom.Size {
	if c.settle != nil {
		return c.settle.to
	}
	return c.posted
}

// Dragging reports whether a gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.live != nil
}

// Animating reports whether a settle animation is in flight.
func (c *Controller) Animating() bool {
	return c.settle != nil
}

// Bounds returns the clamp applied at commit.
func (c *Controller) Bounds() geom.Bounds {
	return c.bounds
}

// SetBounds replaces the clamp. The current value is left as is; the next
// commit is clamped to b.
func (c *Controller) SetBounds(b geom.Bounds) {
	c.bounds = b
}

// Update applies a drag sample. The live offset becomes translation*scale.
// An in-flight settle is cancelled and the posted value frozen where the
// animation had reached.
func (c *Controller) Update(translation geom.Size, scale float64) {
	c.freeze()
	live := translation.Scale(scale)
	c.live = &live
	c.notify()
}

// End commits a gesture. The posted value becomes the clamped sum of the
// previous posted value and translation*scale. With smooth set, a spring then
// carries it toward the clamped predicted end, if that end is finite.
func (c *Controller) End(translation, predicted geom.Size, scale float64, smooth bool) {
	c.freeze()

	last := c.posted
	current := c.bounds.Bounding(last.Add(translation.Scale(scale)))
	c.posted = current
	c.live = nil

	if smooth {
		// An unbounded fling toward infinity has nowhere to settle.
		next := c.bounds.Bounding(last.Add(predicted.Scale(scale)))
		if next.IsFinite() && next != current {
			c.settle = &settle{
				from:     current,
				to:       next,
				start:    c.now(),
				velocity: VelocityHint(last, current, next),
			}
		}
	}

	c.notify()
}

// Reset replaces the posted value and drops any drag or settle.
func (c *Controller) Reset(v geom.Size) {
	c.settle = nil
	c.live = nil
	c.posted = v
	c.notify()
}

// Tick advances a settle animation to now. It reports whether the value
// changed, which is the host's cue to redraw.
func (c *Controller) Tick(now time.Time) bool {
	if c.settle == nil {
		return false
	}
	if _, done := c.settle.at(c.spring, now); done {
		c.posted = c.settle.to
		c.settle = nil
	}
	c.notify()
	return true
}

// Observe registers fn to be called with Value after every change. The
// returned func removes it.
func (c *Controller) Observe(fn func(geom.Size)) func() {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Controller) notify() {
	if len(c.observers) == 0 {
		return
	}
	v := c.Value()
	for _, fn := range c.observers {
		fn(v)
	}
}

// freeze resolves an in-flight settle into the posted value.
func (c *Controller) freeze() {
	if c.settle == nil {
		return
	}
	c.posted = c.postedAt(c.now())
	c.settle = nil
}

func (c *Controller) postedAt(now time.Time) geom.Size {
	if c.settle == nil {
		return c.posted
	}
	v, _ := c.settle.at(c.spring, now)
	return v
}

func (a *settle) at(s Spring, now time.Time) (geom.Size, bool) {
	p, v := s.Progress(now.Sub(a.start), a.velocity)
	if Settled(p, v) {
		return a.to, true
	}
	delta := a.to.Sub(a.from)
	return geom.Sz(a.from.Width+delta.Width*p, a.from.Height+delta.Height*p), false
}

// VelocityHint seeds the release spring: the travel still to go from current
// to next, relative to the largest magnitude seen across the gesture. A zero
// or non-finite ratio yields 0.
func VelocityHint(last, current, next geom.Size) float64 {
	distance := next.Sub(current).Sum()
	extent := geom.MaxSides(last.Abs(), geom.MaxSides(current.Abs(), next.Abs())).Sum()
	if extent == 0 {
		return 0
	}
	v := distance / extent
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
