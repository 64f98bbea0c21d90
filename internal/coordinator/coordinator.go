// Package coordinator manages module lifecycle and routes events to modules.
package coordinator

import (
	"context"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"

	"github.com/phinze/safearea/internal/module"
	"golang.org/x/sync/errgroup"
	"rafaelmartins.com/p/streamdeck"
)

// Default render intervals.
const (
	DefaultFrameInterval   = time.Second / 30
	DefaultRefreshInterval = 500 * time.Millisecond
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFrameInterval sets how often animators are ticked.
func WithFrameInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.frameInterval = d
		}
	}
}

// WithRefreshInterval sets how often every module is redrawn regardless of
// changes.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

// Coordinator manages the lifecycle of modules and routes events to them.
type Coordinator struct {
	device  *streamdeck.Device
	modules []module.Module

	// Resource tracking
	moduleResources map[module.Module]module.Resources

	// Ownership maps for event routing
	keyOwners  map[module.KeyID]module.Module
	dialOwners map[module.DialID]module.Module

	// Strip compositing
	stripRect image.Rectangle

	frameInterval   time.Duration
	refreshInterval time.Duration

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State tracking
	mu sync.RWMutex
}

// New creates a new Coordinator for the given device.
func New(device *streamdeck.Device, opts ...Option) *Coordinator {
	c := &Coordinator{
		device:          device,
		modules:         make([]module.Module, 0),
		moduleResources: make(map[module.Module]module.Resources),
		keyOwners:       make(map[module.KeyID]module.Module),
		dialOwners:      make(map[module.DialID]module.Module),
		frameInterval:   DefaultFrameInterval,
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterModule registers a module with its allocated resources.
// Must be called before Start.
func (c *Coordinator) RegisterModule(m module.Module, res module.Resources) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Store resources for this module
	c.moduleResources[m] = res

	// Build ownership maps
	for _, key := range res.Keys {
		c.keyOwners[key] = m
	}
	for _, dial := range res.Dials {
		c.dialOwners[dial] = m
	}

	// Track module
	c.modules = append(c.modules, m)

	return nil
}

// Start initializes all modules and runs the device listener and render
// loop until ctx is cancelled or the device fails.
func (c *Coordinator) Start(ctx context.Context) error {
	// The render loop is counted before anything can be stopped.
	c.mu.Lock()
	c.ctx, c.cancel = context.WithCancel(ctx)
	runCtx := c.ctx
	c.wg.Add(1)
	c.mu.Unlock()

	// Initialize all modules
	for _, m := range c.modules {
		if err := m.Init(runCtx, c.resourcesForModule(m)); err != nil {
			c.wg.Done()
			return err
		}
	}

	// Get full strip rectangle for compositing
	if c.device.GetTouchStripSupported() {
		rect, err := c.device.GetTouchStripImageRectangle()
		if err == nil {
			c.stripRect = rect
		}
	}

	// Setup event handlers
	c.setupEventHandlers()

	g, gctx := errgroup.WithContext(runCtx)

	// The listener only returns once the device is closed or fails.
	handlerErrs := make(chan error, 1)
	g.Go(func() error {
		return c.device.Listen(handlerErrs)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case err := <-handlerErrs:
				log.Printf("Handler error: %v", err)
			}
		}
	})
	g.Go(func() error {
		c.renderLoop(gctx)
		return nil
	})

	return g.Wait()
}

// Stop gracefully shuts down all modules.
func (c *Coordinator) Stop() error {
	c.mu.RLock()
	cancel := c.cancel
	c.mu.RUnlock()
	if cancel != nil {
		cancel()
	}

	// Stop all modules
	for _, m := range c.modules {
		if err := m.Stop(); err != nil {
			log.Printf("Failed to stop %s: %v", m.ID(), err)
		}
	}

	c.wg.Wait()
	return nil
}

// resourcesForModule returns the stored resources for a module.
func (c *Coordinator) resourcesForModule(m module.Module) module.Resources {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.moduleResources[m]
}

// setupEventHandlers registers device event handlers that route to modules.
func (c *Coordinator) setupEventHandlers() {
	// Every key gets a handler so an active overlay can claim unowned keys.
	for _, keyID := range module.AllKeys {
		key := keyID
		c.device.AddKeyHandler(key.ToStreamdeck(), func(d *streamdeck.Device, k *streamdeck.Key) error {
			// Create press event
			if err := c.routeKey(key, module.KeyEvent{Pressed: true}); err != nil {
				return err
			}

			// Wait for release and create release event
			duration := k.WaitForRelease()
			return c.routeKey(key, module.KeyEvent{Pressed: false, Duration: duration})
		})
	}

	// Dial rotation handlers
	for dialID, m := range c.dialOwners {
		dial := dialID
		mod := m
		c.device.AddDialRotateHandler(dial.ToStreamdeck(), func(d *streamdeck.Device, di *streamdeck.Dial, delta int8) error {
			event := module.DialEvent{
				Type:  module.DialRotate,
				Delta: delta,
			}
			return mod.HandleDial(dial, event)
		})
	}

	// Dial press handlers
	for dialID, m := range c.dialOwners {
		dial := dialID
		mod := m
		c.device.AddDialSwitchHandler(dial.ToStreamdeck(), func(d *streamdeck.Device, di *streamdeck.Dial) error {
			// Create press event
			event := module.DialEvent{Type: module.DialPress}
			if err := mod.HandleDial(dial, event); err != nil {
				return err
			}

			// Wait for release and create release event
			duration := di.WaitForRelease()
			event = module.DialEvent{Type: module.DialRelease, Duration: duration}
			return mod.HandleDial(dial, event)
		})
	}

	// Touch strip handler - route based on X coordinate
	if c.device.GetTouchStripSupported() {
		c.device.AddTouchStripTouchHandler(func(d *streamdeck.Device, touchType streamdeck.TouchStripTouchType, point image.Point) error {
			event := module.TouchStripEventFromTap(touchType, point)
			return c.routeStripEvent(event)
		})

		c.device.AddTouchStripSwipeHandler(func(d *streamdeck.Device, origin, dest image.Point) error {
			event := module.TouchStripEventFromSwipe(origin, dest)
			return c.routeStripEvent(event)
		})
	}
}

// routeKey dispatches a key event to the active overlay or the key's owner.
func (c *Coordinator) routeKey(key module.KeyID, event module.KeyEvent) error {
	if op, ok := module.ActiveOverlay(c.modules); ok {
		return op.HandleOverlayKey(key, event)
	}
	c.mu.RLock()
	owner, ok := c.keyOwners[key]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return owner.HandleKey(key, event)
}

// routeStripEvent dispatches a strip event to the active overlay, or to the
// module whose strip region contains it in that region's coordinates.
func (c *Coordinator) routeStripEvent(event module.TouchStripEvent) error {
	if op, ok := module.ActiveOverlay(c.modules); ok {
		return op.HandleOverlayStripTouch(event)
	}
	m, res, ok := c.stripOwner(event.Anchor())
	if !ok {
		return nil
	}
	return m.HandleStripTouch(event.Offset(res.StripRect.Min))
}

// stripOwner returns the module whose strip region contains p.
func (c *Coordinator) stripOwner(p image.Point) (module.Module, module.Resources, bool) {
	for _, m := range c.modules {
		res := c.resourcesForModule(m)
		if res.HasStrip() && p.In(res.StripRect) {
			return m, res, true
		}
	}
	return nil, module.Resources{}, false
}

// renderLoop runs the periodic render cycle. Animators are ticked every
// frame and trigger a render when they change; everything is redrawn on
// the slower refresh interval.
func (c *Coordinator) renderLoop(ctx context.Context) {
	defer c.wg.Done()

	frames := time.NewTicker(c.frameInterval)
	defer frames.Stop()
	refresh := time.NewTicker(c.refreshInterval)
	defer refresh.Stop()

	// Initial render
	c.render()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-frames.C:
			if c.tick(now) {
				c.render()
			}
		case <-refresh.C:
			c.render()
		}
	}
}

// tick advances every Animator and reports whether any changed.
func (c *Coordinator) tick(now time.Time) bool {
	changed := false
	for _, m := range c.modules {
		if a, ok := m.(module.Animator); ok && a.Tick(now) {
			changed = true
		}
	}
	return changed
}

func (c *Coordinator) render() {
	c.renderKeys()
	c.renderStrip()
}

// renderKeys collects key images from all modules and applies them to the device.
func (c *Coordinator) renderKeys() {
	for keyID, img := range c.keyImages() {
		if img == nil {
			continue
		}
		if err := c.device.SetKeyImage(keyID.ToStreamdeck(), img); err != nil {
			log.Printf("Failed to set key image: %v", err)
		}
	}
}

// keyImages returns the images to show on the keys: the active overlay's,
// or each module's own.
func (c *Coordinator) keyImages() map[module.KeyID]image.Image {
	if op, ok := module.ActiveOverlay(c.modules); ok {
		return op.RenderOverlayKeys()
	}
	keys := make(map[module.KeyID]image.Image)
	for _, m := range c.modules {
		for keyID, img := range m.RenderKeys() {
			keys[keyID] = img
		}
	}
	return keys
}

// renderStrip composites strip images from all modules and applies to the device.
func (c *Coordinator) renderStrip() {
	if c.stripRect.Empty() {
		return
	}
	if err := c.device.SetTouchStripImage(c.compositeStrip()); err != nil {
		log.Printf("Failed to set touch strip image: %v", err)
	}
}

// compositeStrip draws each module's strip image at its allocated region,
// or the active overlay's image across the whole strip.
func (c *Coordinator) compositeStrip() *image.RGBA {
	composite := image.NewRGBA(c.stripRect)

	if op, ok := module.ActiveOverlay(c.modules); ok {
		if img := op.RenderOverlayStrip(); img != nil {
			draw.Draw(composite, c.stripRect, img, img.Bounds().Min, draw.Over)
		}
		return composite
	}

	for _, m := range c.modules {
		res := c.resourcesForModule(m)
		if !res.HasStrip() {
			continue
		}

		stripImg := m.RenderStrip()
		if stripImg == nil {
			continue
		}

		draw.Draw(composite, res.StripRect, stripImg, stripImg.Bounds().Min, draw.Over)
	}
	return composite
}

// Device returns the underlying streamdeck device.
// Modules can use this to query device capabilities like key size.
func (c *Coordinator) Device() *streamdeck.Device {
	return c.device
}
