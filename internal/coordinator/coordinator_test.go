package coordinator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/phinze/safearea/internal/module"
)

type fakeModule struct {
	module.BaseModule

	color   color.Color
	keys    []module.KeyEvent
	strip   []module.TouchStripEvent
	ticks   int
	changed bool

	initErr error

	overlay      bool
	overlayKeys  []module.KeyEvent
	overlayStrip []module.TouchStripEvent
	overlayColor color.Color
}

func newFake(id string, c color.Color) *fakeModule {
	return &fakeModule{BaseModule: module.NewBaseModule(id), color: c}
}

func (f *fakeModule) Init(ctx context.Context, res module.Resources) error {
	if f.initErr != nil {
		return f.initErr
	}
	return f.BaseModule.Init(ctx, res)
}

func (f *fakeModule) RenderKeys() map[module.KeyID]image.Image {
	return map[module.KeyID]image.Image{module.Key1: image.NewUniform(f.color)}
}

func (f *fakeModule) RenderStrip() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(f.color), image.Point{}, draw.Src)
	return img
}

func (f *fakeModule) HandleKey(id module.KeyID, e module.KeyEvent) error {
	f.keys = append(f.keys, e)
	return nil
}

func (f *fakeModule) HandleDial(module.DialID, module.DialEvent) error { return nil }

func (f *fakeModule) HandleStripTouch(e module.TouchStripEvent) error {
	f.strip = append(f.strip, e)
	return nil
}

func (f *fakeModule) Tick(time.Time) bool {
	f.ticks++
	return f.changed
}

func (f *fakeModule) IsOverlayActive() bool { return f.overlay }

func (f *fakeModule) RenderOverlayKeys() map[module.KeyID]image.Image {
	keys := make(map[module.KeyID]image.Image)
	for _, k := range module.AllKeys {
		keys[k] = image.NewUniform(f.overlayColor)
	}
	return keys
}

func (f *fakeModule) RenderOverlayStrip() image.Image {
	return image.NewUniform(f.overlayColor)
}

func (f *fakeModule) HandleOverlayKey(id module.KeyID, e module.KeyEvent) error {
	f.overlayKeys = append(f.overlayKeys, e)
	return nil
}

func (f *fakeModule) HandleOverlayStripTouch(e module.TouchStripEvent) error {
	f.overlayStrip = append(f.overlayStrip, e)
	return nil
}

var (
	_ module.Module          = (*fakeModule)(nil)
	_ module.Animator        = (*fakeModule)(nil)
	_ module.OverlayProvider = (*fakeModule)(nil)
)

func setup(t *testing.T) (*Coordinator, *fakeModule, *fakeModule) {
	t.Helper()
	c := New(nil)
	c.stripRect = image.Rect(0, 0, 800, 100)

	left := newFake("left", color.RGBA{R: 255, A: 255})
	right := newFake("right", color.RGBA{B: 255, A: 255})
	c.RegisterModule(left, module.Resources{
		Keys:      []module.KeyID{module.Key1},
		StripRect: image.Rect(0, 0, 400, 100),
	})
	c.RegisterModule(right, module.Resources{
		Keys:      []module.KeyID{module.Key2},
		StripRect: image.Rect(400, 0, 800, 100),
	})
	return c, left, right
}

func TestRouteStripEventByRegion(t *testing.T) {
	t.Parallel()

	c, left, right := setup(t)
	swipe := module.TouchStripEventFromSwipe(image.Pt(450, 50), image.Pt(600, 50))
	if err := c.routeStripEvent(swipe); err != nil {
		t.Fatalf("routeStripEvent: %v", err)
	}

	if len(left.strip) != 0 {
		t.Errorf("left received %d events; want 0", len(left.strip))
	}
	if len(right.strip) != 1 {
		t.Fatalf("right received %d events; want 1", len(right.strip))
	}
	got := right.strip[0]
	if got.Origin != image.Pt(50, 50) || got.Dest != image.Pt(200, 50) {
		t.Errorf("event = %+v; want region-local coordinates", got)
	}
}

func TestRouteKeyToOwnerOrOverlay(t *testing.T) {
	t.Parallel()

	c, left, right := setup(t)
	c.routeKey(module.Key2, module.KeyEvent{Pressed: true})
	c.routeKey(module.Key5, module.KeyEvent{Pressed: true})
	if len(right.keys) != 1 || len(left.keys) != 0 {
		t.Errorf("keys routed left=%d right=%d; want 0, 1", len(left.keys), len(right.keys))
	}

	left.overlay = true
	c.routeKey(module.Key2, module.KeyEvent{Pressed: true})
	c.routeStripEvent(module.TouchStripEventFromTap(0, image.Pt(700, 10)))
	if len(left.overlayKeys) != 1 || len(right.keys) != 1 {
		t.Errorf("overlay did not claim key: overlay=%d right=%d", len(left.overlayKeys), len(right.keys))
	}
	if len(left.overlayStrip) != 1 || len(right.strip) != 0 {
		t.Errorf("overlay did not claim strip: overlay=%d right=%d", len(left.overlayStrip), len(right.strip))
	}
}

func TestTickReportsChanges(t *testing.T) {
	t.Parallel()

	c, left, right := setup(t)
	now := time.Now()
	if c.tick(now) {
		t.Error("tick() = true with no changes")
	}
	right.changed = true
	if !c.tick(now) {
		t.Error("tick() = false with a changed animator")
	}
	if left.ticks != 2 || right.ticks != 2 {
		t.Errorf("ticks = %d, %d; want 2, 2", left.ticks, right.ticks)
	}
}

func TestCompositeStripPlacesRegions(t *testing.T) {
	t.Parallel()

	c, left, _ := setup(t)
	img := c.compositeStrip()
	if got := img.RGBAAt(100, 50); got.R != 255 || got.B != 0 {
		t.Errorf("left region pixel = %v; want red", got)
	}
	if got := img.RGBAAt(600, 50); got.B != 255 || got.R != 0 {
		t.Errorf("right region pixel = %v; want blue", got)
	}

	left.overlay = true
	left.overlayColor = color.RGBA{G: 255, A: 255}
	img = c.compositeStrip()
	if got := img.RGBAAt(600, 50); got.G != 255 {
		t.Errorf("overlay pixel = %v; want green", got)
	}
	if keys := c.keyImages(); len(keys) != len(module.AllKeys) {
		t.Errorf("overlay keys = %d; want %d", len(keys), len(module.AllKeys))
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	c := New(nil, WithFrameInterval(10*time.Millisecond), WithRefreshInterval(0))
	if c.frameInterval != 10*time.Millisecond {
		t.Errorf("frameInterval = %v", c.frameInterval)
	}
	if c.refreshInterval != DefaultRefreshInterval {
		t.Errorf("refreshInterval = %v; want default", c.refreshInterval)
	}
}

func TestStartInitFailureLeavesStopUsable(t *testing.T) {
	t.Parallel()

	errInit := errors.New("init failed")
	c := New(nil)
	bad := newFake("bad", color.Black)
	bad.initErr = errInit
	if err := c.RegisterModule(bad, module.Resources{}); err != nil {
		t.Fatal(err)
	}

	if err := c.Start(context.Background()); !errors.Is(err, errInit) {
		t.Fatalf("Start() = %v; want %v", err, errInit)
	}

	// Stop waits on the render loop; a failed Start must not leave it counted.
	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked after a failed Start")
	}
}

func TestStopBeforeStart(t *testing.T) {
	t.Parallel()

	c := New(nil)
	if err := c.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}
