// Package inset composes the two corner drag controllers into the edge
// insets applied to previewed content, and lays out the overlay around them.
package inset

import (
	"fmt"

	"github.com/phinze/safearea/internal/drag"
	"github.com/phinze/safearea/internal/geom"
)

// EdgeInsets is the margin reserved along each edge of the content area.
type EdgeInsets struct {
	Top      float64 `yaml:"top"`
	Leading  float64 `yaml:"leading"`
	Bottom   float64 `yaml:"bottom"`
	Trailing float64 `yaml:"trailing"`
}

// FromCorners derives insets from the top-leading and bottom-trailing corner
// values. Width maps to the horizontal edge and Height to the vertical one.
func FromCorners(top, bottom geom.Size) EdgeInsets {
	return EdgeInsets{
		Top:      top.Height,
		Leading:  top.Width,
		Bottom:   bottom.Height,
		Trailing: bottom.Width,
	}
}

// Corners splits e back into top-leading and bottom-trailing values.
func (e EdgeInsets) Corners() (top, bottom geom.Size) {
	return geom.Sz(e.Leading, e.Top), geom.Sz(e.Trailing, e.Bottom)
}

// String implements fmt.Stringer.
func (e EdgeInsets) String() string {
	return fmt.Sprintf("{top:%g leading:%g bottom:%g trailing:%g}", e.Top, e.Leading, e.Bottom, e.Trailing)
}

// Compositor projects two controllers into EdgeInsets and notifies observers
// whenever either changes.
type Compositor struct {
	top, bottom *drag.Controller

	unsubscribe []func()
	observers   map[int]func(EdgeInsets)
	nextObs     int
}

// NewCompositor subscribes to both controllers.
func NewCompositor(top, bottom *drag.Controller) *Compositor {
	c := &Compositor{
		top:       top,
		bottom:    bottom,
		observers: make(map[int]func(EdgeInsets)),
	}
	c.unsubscribe = []func(){
		top.Observe(func(geom.Size) { c.notify() }),
		bottom.Observe(func(geom.Size) { c.notify() }),
	}
	return c
}

// Insets returns the record for the controllers' current values.
func (c *Compositor) Insets() EdgeInsets {
	return FromCorners(c.top.Value(), c.bottom.Value())
}

// Observe registers fn to receive a fresh record after every change. The
// returned func removes it.
func (c *Compositor) Observe(fn func(EdgeInsets)) func() {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

// Close detaches the compositor from its controllers.
func (c *Compositor) Close() {
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
}

func (c *Compositor) notify() {
	if len(c.observers) == 0 {
		return
	}
	e := c.Insets()
	for _, fn := range c.observers {
		fn(e)
	}
}
