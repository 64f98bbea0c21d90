// Package safearea provides a Stream Deck module that previews the safe area
// overlay on the touch strip and edits it with swipes, dials and keys.
package safearea

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"github.com/phinze/safearea/internal/config"
	"github.com/phinze/safearea/internal/content"
	"github.com/phinze/safearea/internal/decoration"
	"github.com/phinze/safearea/internal/drag"
	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/gesture"
	"github.com/phinze/safearea/internal/inset"
	"github.com/phinze/safearea/internal/module"
	"github.com/phinze/safearea/internal/preview"
	"golang.org/x/image/font"
	"rafaelmartins.com/p/streamdeck"
)

const (
	// swipeDuration is the assumed duration of a touch strip swipe. The
	// device reports only its endpoints.
	swipeDuration = 150 * time.Millisecond

	// resetPress is how long a dial must be held to reset the insets.
	resetPress = time.Second

	defaultKeySize = 120
)

// Option configures a Module.
type Option func(*Module)

// WithClock replaces time.Now for gestures, dial commits and settle
// animations.
func WithClock(now func() time.Time) Option {
	return func(m *Module) {
		m.now = now
	}
}

// WithContent replaces the previewed content.
func WithContent(c content.Content) Option {
	return func(m *Module) {
		m.content = c
	}
}

// Module implements the safe area preview module.
type Module struct {
	module.BaseModule

	device *streamdeck.Device
	cfg    config.Config
	now    func() time.Time

	content  content.Content
	renderer *decoration.Renderer

	mu        sync.Mutex
	overlay   *inset.Overlay
	tracker   *gesture.Tracker
	dial      dialDrag
	inspector bool
	dirty     bool

	// Geometry
	keySize int
	region  image.Rectangle
	target  image.Rectangle
	scale   float64

	// Fonts
	valueFace font.Face
	labelFace font.Face
}

// dialDrag is a live drag driven by dial rotation. delta is the change in
// inset, before the corner's scale is applied.
type dialDrag struct {
	active bool
	corner inset.Corner
	delta  geom.Size
	last   time.Time
}

// dialEdge maps a dial to the corner and axis it adjusts.
type dialEdge struct {
	corner inset.Corner
	axis   geom.Size
}

var dialEdges = map[module.DialID]dialEdge{
	module.Dial1: {inset.TopLeading, geom.Sz(1, 0)},
	module.Dial2: {inset.TopLeading, geom.Sz(0, 1)},
	module.Dial3: {inset.BottomTrailing, geom.Sz(1, 0)},
	module.Dial4: {inset.BottomTrailing, geom.Sz(0, 1)},
}

// New creates a new safe area module.
func New(device *streamdeck.Device, cfg config.Config, opts ...Option) *Module {
	m := &Module{
		BaseModule: module.NewBaseModule("safearea"),
		device:     device,
		cfg:        cfg,
		now:        time.Now,
		renderer:   decoration.NewRenderer(decoration.DefaultStyle()),
		tracker:    gesture.NewTracker(cfg.Tracker()),
		keySize:    defaultKeySize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.content == nil {
		m.content = content.NewSample()
	}
	m.overlay = inset.New(cfg.Overlay(), drag.WithClock(m.now))
	m.overlay.Compositor().Observe(func(inset.EdgeInsets) {
		m.dirty = true
	})
	return m
}

// Init initializes the module.
func (m *Module) Init(ctx context.Context, res module.Resources) error {
	// Call base init
	if err := m.BaseModule.Init(ctx, res); err != nil {
		return err
	}

	if err := m.initFonts(); err != nil {
		return err
	}

	if m.device != nil {
		if keyRect, err := m.device.GetKeyImageRectangle(); err == nil {
			m.keySize = keyRect.Dx()
		}
	}

	m.mu.Lock()
	m.region = image.Rect(0, 0, res.StripRect.Dx(), res.StripRect.Dy())
	m.target, m.scale = previewRect(m.cfg.Deck.Viewport, m.region)
	m.dirty = true
	m.mu.Unlock()

	log.Println("Safe area module initialized")
	return nil
}

// previewRect fits the viewport into region, flush with its leading edge.
func previewRect(viewport geom.Size, region image.Rectangle) (image.Rectangle, float64) {
	target, scale := preview.Fit(viewport, region)
	return target.Sub(image.Pt(target.Min.X-region.Min.X, 0)), scale
}

// Insets returns the overlay's current insets.
func (m *Module) Insets() inset.EdgeInsets {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlay.Insets()
}

// Tick implements module.Animator. It advances settle animations, commits
// idle dial drags and reports whether the module needs redrawing.
func (m *Module) Tick(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dial.active && now.Sub(m.dial.last) >= m.cfg.Deck.DialCommit {
		m.commitDial()
	}
	m.overlay.Tick(now)

	changed := m.dirty
	m.dirty = false
	return changed
}

// RenderKeys returns images for the module's keys.
func (m *Module) RenderKeys() map[module.KeyID]image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()

	insets := m.overlay.Insets()
	keys := make(map[module.KeyID]image.Image)

	smoothColor, smoothLabel := colorDimGray, "Smooth Off"
	if m.overlay.SmoothRelease() {
		smoothColor, smoothLabel = colorHotPink, "Smooth On"
	}
	keys[module.Key1] = m.renderKey(iconSmoothSVG, smoothColor, smoothLabel)
	keys[module.Key2] = m.renderKey(iconBoundsSVG, colorCyan, m.overlay.Controller(inset.TopLeading).Bounds().Name())
	keys[module.Key3] = m.renderKey(iconBoundsSVG, colorYellow, m.overlay.Controller(inset.BottomTrailing).Bounds().Name())
	keys[module.Key4] = m.renderKey(iconResetSVG, colorWhite, "Reset")

	keys[module.Key5] = m.renderValueKey("Leading", insets.Leading, colorCyan)
	keys[module.Key6] = m.renderValueKey("Top", insets.Top, colorCyan)
	keys[module.Key7] = m.renderValueKey("Trailing", insets.Trailing, colorYellow)
	keys[module.Key8] = m.renderValueKey("Bottom", insets.Bottom, colorYellow)

	return keys
}

// RenderStrip returns the touch strip image.
func (m *Module) RenderStrip() image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderStrip()
}

// HandleKey processes key events.
func (m *Module) HandleKey(id module.KeyID, event module.KeyEvent) error {
	// Only handle press events
	if !event.Pressed {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.commitDial()
	switch id {
	case module.Key1:
		on := !m.overlay.SmoothRelease()
		m.overlay.SetSmoothRelease(on)
		log.Printf("Key: Smooth release %v", on)
	case module.Key2:
		b := m.overlay.CycleBounds(inset.TopLeading)
		log.Printf("Key: Top-leading bounds %s", b.Name())
	case module.Key3:
		b := m.overlay.CycleBounds(inset.BottomTrailing)
		log.Printf("Key: Bottom-trailing bounds %s", b.Name())
	case module.Key4:
		m.overlay.Reset()
		log.Println("Key: Reset insets")
	default:
		return nil
	}
	m.dirty = true
	return nil
}

// HandleDial processes dial events.
func (m *Module) HandleDial(id module.DialID, event module.DialEvent) error {
	edge, ok := dialEdges[id]
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch event.Type {
	case module.DialRotate:
		if m.dial.active && m.dial.corner != edge.corner {
			m.commitDial()
		}
		if !m.dial.active {
			m.dial = dialDrag{active: true, corner: edge.corner}
		}
		step := float64(event.Delta) * m.cfg.Deck.DialStep
		m.dial.delta = m.dial.delta.Add(edge.axis.Scale(step))
		m.dial.last = m.now()
		m.overlay.Drag(edge.corner, m.dialTranslation())
	case module.DialPress:
		m.commitDial()
	case module.DialRelease:
		if event.Duration >= resetPress {
			m.overlay.Reset()
			log.Println("Dial: Reset insets")
		}
	}
	m.dirty = true
	return nil
}

// dialTranslation converts the pending inset change into a drag
// translation for its corner.
func (m *Module) dialTranslation() geom.Size {
	return m.dial.delta.Scale(m.dial.corner.Scale())
}

// commitDial releases a pending dial drag in place. Callers hold mu.
func (m *Module) commitDial() {
	if !m.dial.active {
		return
	}
	t := m.dialTranslation()
	m.overlay.Release(m.dial.corner, t, t)
	m.dial = dialDrag{}
	m.dirty = true
}

// HandleStripTouch processes touch strip events in strip-region coordinates.
func (m *Module) HandleStripTouch(event module.TouchStripEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch event.Type {
	case module.TouchSwipe:
		m.commitDial()
		m.swipe(event.Origin, event.Dest)
	case module.TouchLong:
		m.inspector = !m.inspector
		log.Printf("Inspector %v", m.inspector)
	case module.TouchTap:
		m.commitDial()
	}
	m.dirty = true
	return nil
}

// swipe drags the handle nearest the swipe's origin by the swipe's length in
// viewport points and releases it with the swipe's momentum.
func (m *Module) swipe(origin, dest image.Point) {
	if m.scale <= 0 {
		return
	}
	ox, oy := preview.ToPoints(origin, m.target, m.scale)
	dx, dy := preview.ToPoints(dest, m.target, m.scale)

	frame := m.scene().Layout().Frame
	corner := m.overlay.Nearest(ox, oy, frame)

	end := m.now()
	m.tracker.Begin(gesture.Pt(ox, oy), end.Add(-swipeDuration))
	if t, ok := m.tracker.Move(gesture.Pt(dx, dy), end); ok {
		m.overlay.Drag(corner, t)
	}
	rel, ok := m.tracker.End(gesture.Pt(dx, dy), end)
	if !ok {
		return
	}
	predicted := rel.Predicted
	if !m.cfg.Deck.Momentum {
		predicted = rel.Translation
	}
	m.overlay.Release(corner, rel.Translation, predicted)
	log.Printf("Swipe: %s by %v", corner, rel.Translation)
}

// scene returns the previewed screen. Callers hold mu.
func (m *Module) scene() preview.Scene {
	return preview.Scene{
		Overlay:  m.overlay,
		Content:  m.content,
		Renderer: m.renderer,
		Viewport: m.cfg.Deck.Viewport,
	}
}

// IsOverlayActive implements module.OverlayProvider.
func (m *Module) IsOverlayActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inspector
}

// RenderOverlayKeys implements module.OverlayProvider. The inspector shows
// the applied insets on the top row and the reported ones on the bottom.
func (m *Module) RenderOverlayKeys() map[module.KeyID]image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied := m.overlay.Insets()
	reported := m.scene().Layout().Reported
	return map[module.KeyID]image.Image{
		module.Key1: m.renderValueKey("Leading", applied.Leading, colorCyan),
		module.Key2: m.renderValueKey("Top", applied.Top, colorCyan),
		module.Key3: m.renderValueKey("Trailing", applied.Trailing, colorYellow),
		module.Key4: m.renderValueKey("Bottom", applied.Bottom, colorYellow),
		module.Key5: m.renderValueKey("Leading", reported.Leading, colorHotPink),
		module.Key6: m.renderValueKey("Top", reported.Top, colorHotPink),
		module.Key7: m.renderValueKey("Trailing", reported.Trailing, colorHotPink),
		module.Key8: m.renderKey(iconInfoSVG, colorWhite, "Close"),
	}
}

// RenderOverlayStrip implements module.OverlayProvider.
func (m *Module) RenderOverlayStrip() image.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderInspectorStrip()
}

// HandleOverlayKey implements module.OverlayProvider. Any key press closes
// the inspector.
func (m *Module) HandleOverlayKey(id module.KeyID, event module.KeyEvent) error {
	if !event.Pressed {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspector = false
	m.dirty = true
	return nil
}

// HandleOverlayStripTouch implements module.OverlayProvider. A long touch
// closes the inspector.
func (m *Module) HandleOverlayStripTouch(event module.TouchStripEvent) error {
	if event.Type != module.TouchLong {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspector = false
	m.dirty = true
	return nil
}
