// Package module defines the contract between the coordinator and the
// modules that own keys, dials and touch strip regions of a Stream Deck.
package module

import (
	"context"
	"image"
	"time"

	"rafaelmartins.com/p/streamdeck"
)

// Module is a unit of functionality that owns a set of device resources.
type Module interface {
	// ID returns a unique identifier for the module.
	ID() string

	// Init is called once before the first render with the module's resources.
	Init(ctx context.Context, res Resources) error

	// Stop shuts the module down.
	Stop() error

	// RenderKeys returns images for the module's keys. Missing or nil
	// entries leave the key untouched.
	RenderKeys() map[KeyID]image.Image

	// RenderStrip returns the module's touch strip image, or nil.
	RenderStrip() image.Image

	HandleKey(id KeyID, event KeyEvent) error
	HandleDial(id DialID, event DialEvent) error
	HandleStripTouch(event TouchStripEvent) error
}

// Animator is implemented by modules whose output changes between input
// events. Tick advances the module to now and reports whether anything
// changed and needs to be redrawn.
type Animator interface {
	Tick(now time.Time) bool
}

// Resources describes the device resources allocated to a module.
type Resources struct {
	Keys      []KeyID
	StripRect image.Rectangle
	Dials     []DialID
}

// HasStrip returns true if the module owns a region of the touch strip.
func (r Resources) HasStrip() bool {
	return !r.StripRect.Empty()
}

// HasKey returns true if the module owns key id.
func (r Resources) HasKey(id KeyID) bool {
	for _, k := range r.Keys {
		if k == id {
			return true
		}
	}
	return false
}

// BaseModule provides default implementations for the lifecycle methods.
type BaseModule struct {
	id        string
	ctx       context.Context
	resources Resources
}

// NewBaseModule creates a BaseModule with the given identifier.
func NewBaseModule(id string) BaseModule {
	return BaseModule{id: id}
}

// ID returns the module identifier.
func (b *BaseModule) ID() string {
	return b.id
}

// Init stores the context and resources.
func (b *BaseModule) Init(ctx context.Context, res Resources) error {
	b.ctx = ctx
	b.resources = res
	return nil
}

// Stop is a no-op.
func (b *BaseModule) Stop() error {
	return nil
}

// Context returns the context passed to Init.
func (b *BaseModule) Context() context.Context {
	return b.ctx
}

// Resources returns the resources passed to Init.
func (b *BaseModule) Resources() Resources {
	return b.resources
}

// KeyID identifies a key, numbered from the top left.
type KeyID int

const (
	Key1 KeyID = iota
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
)

// AllKeys lists every key of a Stream Deck Plus.
var AllKeys = []KeyID{Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8}

// ToStreamdeck converts to the device library's key identifier.
func (k KeyID) ToStreamdeck() streamdeck.KeyID {
	return streamdeck.KEY_1 + streamdeck.KeyID(k)
}

// DialID identifies a dial, numbered from the left.
type DialID int

const (
	Dial1 DialID = iota
	Dial2
	Dial3
	Dial4
)

// ToStreamdeck converts to the device library's dial identifier.
func (d DialID) ToStreamdeck() streamdeck.DialID {
	return streamdeck.DIAL_1 + streamdeck.DialID(d)
}

// KeyEvent is a key press or release. Duration is set on release.
type KeyEvent struct {
	Pressed  bool
	Duration time.Duration
}

// DialEventType is the kind of dial event.
type DialEventType int

const (
	DialRotate DialEventType = iota
	DialPress
	DialRelease
)

// DialEvent is a dial rotation, press or release. Delta is set on rotation
// and Duration on release.
type DialEvent struct {
	Type     DialEventType
	Delta    int8
	Duration time.Duration
}

// TouchStripEventType is the kind of touch strip event.
type TouchStripEventType int

const (
	TouchTap TouchStripEventType = iota
	TouchLong
	TouchSwipe
)

// TouchStripEvent is a touch or swipe on the touch strip. Point is set for
// taps; Origin and Dest for swipes.
type TouchStripEvent struct {
	Type   TouchStripEventType
	Point  image.Point
	Origin image.Point
	Dest   image.Point
}

// TouchStripEventFromTap converts a device touch callback into an event.
func TouchStripEventFromTap(touchType streamdeck.TouchStripTouchType, point image.Point) TouchStripEvent {
	t := TouchTap
	if touchType == streamdeck.TOUCH_STRIP_TOUCH_TYPE_LONG {
		t = TouchLong
	}
	return TouchStripEvent{Type: t, Point: point}
}

// TouchStripEventFromSwipe converts a device swipe callback into an event.
func TouchStripEventFromSwipe(origin, dest image.Point) TouchStripEvent {
	return TouchStripEvent{Type: TouchSwipe, Origin: origin, Dest: dest}
}

// Offset returns e translated by -p, into coordinates local to a strip
// region whose origin is p.
func (e TouchStripEvent) Offset(p image.Point) TouchStripEvent {
	e.Point = e.Point.Sub(p)
	e.Origin = e.Origin.Sub(p)
	e.Dest = e.Dest.Sub(p)
	return e
}

// Anchor returns the position used to route the event to a strip region.
func (e TouchStripEvent) Anchor() image.Point {
	if e.Type == TouchSwipe {
		return e.Origin
	}
	return e.Point
}
