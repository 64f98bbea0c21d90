package inset

import (
	"math"
	"time"

	"github.com/phinze/safearea/internal/drag"
	"github.com/phinze/safearea/internal/geom"
)

// Default construction parameters.
const (
	DefaultTop        = 100
	DefaultLeading    = 44
	DefaultBottom     = 100
	DefaultTrailing   = 44
	DefaultHandleSize = 44
)

// Corner identifies one of the two draggable handles.
type Corner int

const (
	TopLeading Corner = iota
	BottomTrailing
)

// Corners lists both corners in draw order.
var Corners = []Corner{TopLeading, BottomTrailing}

// String implements fmt.Stringer.
func (c Corner) String() string {
	if c == BottomTrailing {
		return "bottom-trailing"
	}
	return "top-leading"
}

// Scale is the factor applied to pointer translation for c. Dragging the
// bottom-trailing handle toward the bottom right shrinks its inset.
func (c Corner) Scale() float64 {
	if c == BottomTrailing {
		return -1
	}
	return 1
}

// Config holds the overlay construction parameters.
type Config struct {
	Insets            EdgeInsets
	ContainerIsBounds bool
	TopBounds         geom.Bounds
	BottomBounds      geom.Bounds
	SmoothRelease     bool
	HandleSize        float64
}

// DefaultConfig returns the stock overlay: 100pt top and bottom, 44pt
// leading and trailing, unbounded corners, clamped to the container.
func DefaultConfig() Config {
	return Config{
		Insets: EdgeInsets{
			Top:      DefaultTop,
			Leading:  DefaultLeading,
			Bottom:   DefaultBottom,
			Trailing: DefaultTrailing,
		},
		ContainerIsBounds: true,
		TopBounds:         geom.Unbounded,
		BottomBounds:      geom.Unbounded,
		HandleSize:        DefaultHandleSize,
	}
}

// Overlay owns the two corner controllers of one preview.
type Overlay struct {
	cfg    Config
	top    *drag.Controller
	bottom *drag.Controller
	comp   *Compositor
}

// New creates an Overlay. opts are applied to both controllers after the
// configured bounds.
func New(cfg Config, opts ...drag.Option) *Overlay {
	if cfg.HandleSize <= 0 {
		cfg.HandleSize = DefaultHandleSize
	}
	top, bottom := cfg.Insets.Corners()
	o := &Overlay{
		cfg:    cfg,
		top:    drag.New(top, append([]drag.Option{drag.WithBounds(cfg.TopBounds)}, opts...)...),
		bottom: drag.New(bottom, append([]drag.Option{drag.WithBounds(cfg.BottomBounds)}, opts...)...),
	}
	o.comp = NewCompositor(o.top, o.bottom)
	return o
}

// Config returns the construction parameters with the current smoothing
// setting.
func (o *Overlay) Config() Config {
	return o.cfg
}

// Controller returns the controller behind corner c.
func (o *Overlay) Controller(c Corner) *drag.Controller {
	if c == BottomTrailing {
		return o.bottom
	}
	return o.top
}

// Compositor returns the overlay's compositor.
func (o *Overlay) Compositor() *Compositor {
	return o.comp
}

// Insets returns the current inset record.
func (o *Overlay) Insets() EdgeInsets {
	return o.comp.Insets()
}

// Drag applies a drag sample to corner c.
func (o *Overlay) Drag(c Corner, translation geom.Size) {
	o.Controller(c).Update(translation, c.Scale())
}

// Release ends the gesture on corner c using the configured smoothing.
func (o *Overlay) Release(c Corner, translation, predicted geom.Size) {
	o.Controller(c).End(translation, predicted, c.Scale(), o.cfg.SmoothRelease)
}

// Tick advances both corners' settle animations and reports whether either
// moved.
func (o *Overlay) Tick(now time.Time) bool {
	a := o.top.Tick(now)
	b := o.bottom.Tick(now)
	return a || b
}

// Animating reports whether either corner is settling.
func (o *Overlay) Animating() bool {
	return o.top.Animating() || o.bottom.Animating()
}

// Reset returns both corners to the configured insets.
func (o *Overlay) Reset() {
	top, bottom := o.cfg.Insets.Corners()
	o.top.Reset(top)
	o.bottom.Reset(bottom)
}

// SmoothRelease reports whether releases fling toward the predicted end.
func (o *Overlay) SmoothRelease() bool {
	return o.cfg.SmoothRelease
}

// SetSmoothRelease toggles release flinging.
func (o *Overlay) SetSmoothRelease(on bool) {
	o.cfg.SmoothRelease = on
}

// CycleBounds advances corner c to the next bounds preset and returns it.
func (o *Overlay) CycleBounds(c Corner) geom.Bounds {
	ctl := o.Controller(c)
	next := ctl.Bounds().Next()
	ctl.SetBounds(next)
	return next
}

// HandleRect returns the handle affordance for corner c within frame. The
// top-leading handle sits just inside its inset corner; the bottom-trailing
// one mirrors it from the opposite corner.
func (o *Overlay) HandleRect(c Corner, frame Rect) Rect {
	size := o.cfg.HandleSize
	v := o.Controller(c).Value()
	if c == BottomTrailing {
		return Rect{
			X: frame.X + frame.W - v.Width,
			Y: frame.Y + frame.H - v.Height,
			W: size,
			H: size,
		}
	}
	return Rect{X: frame.X + v.Width - size, Y: frame.Y + v.Height - size, W: size, H: size}
}

// HitTest returns the corner whose handle contains (x, y). When both do,
// the one whose center is nearer wins.
func (o *Overlay) HitTest(x, y float64, frame Rect) (Corner, bool) {
	best, found, bestDist := TopLeading, false, math.Inf(1)
	for _, c := range Corners {
		r := o.HandleRect(c, frame)
		if !r.Contains(x, y) {
			continue
		}
		cx, cy := r.Center()
		if d := math.Hypot(x-cx, y-cy); d < bestDist {
			best, found, bestDist = c, true, d
		}
	}
	return best, found
}

// Nearest returns the corner whose handle center is closest to (x, y).
func (o *Overlay) Nearest(x, y float64, frame Rect) Corner {
	best, bestDist := TopLeading, math.Inf(1)
	for _, c := range Corners {
		cx, cy := o.HandleRect(c, frame).Center()
		if d := math.Hypot(x-cx, y-cy); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
