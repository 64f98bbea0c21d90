package decoration

import (
	"image"
	"testing"

	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
)

func defaultFrame(t *testing.T) (*inset.Overlay, Frame) {
	t.Helper()
	o := inset.New(inset.DefaultConfig())
	layout := inset.ComputeLayout(inset.Rect{W: 400, H: 300}, geom.Zero, o.Insets(), true)
	return o, FrameFor(o, layout)
}

func TestBandsMatchReportedInsets(t *testing.T) {
	t.Parallel()

	_, f := defaultFrame(t)
	bands := Bands(f.Layout)

	want := map[Edge]inset.Rect{
		EdgeTop:      {X: 0, Y: 0, W: 400, H: 100},
		EdgeLeading:  {X: 0, Y: 0, W: 44, H: 300},
		EdgeBottom:   {X: 0, Y: 200, W: 400, H: 100},
		EdgeTrailing: {X: 356, Y: 0, W: 44, H: 300},
	}
	for e, r := range want {
		if bands[e] != r {
			t.Errorf("band %d = %+v; want %+v", e, bands[e], r)
		}
	}
}

func TestBandsCollapseWithNegativeInset(t *testing.T) {
	t.Parallel()

	o := inset.New(inset.DefaultConfig())
	o.Drag(inset.TopLeading, geom.Sz(-100, -300))
	layout := inset.ComputeLayout(inset.Rect{W: 400, H: 300}, geom.Zero, o.Insets(), true)
	bands := Bands(layout)

	if bands[EdgeTop].H != 0 || bands[EdgeLeading].W != 0 {
		t.Errorf("negative insets produced bands %+v / %+v; want zero-sized", bands[EdgeTop], bands[EdgeLeading])
	}
}

func TestFrameForPlacesHandles(t *testing.T) {
	t.Parallel()

	o, f := defaultFrame(t)
	if len(f.Handles) != 2 {
		t.Fatalf("len(Handles) = %d; want 2", len(f.Handles))
	}
	if f.Handles[0] != o.HandleRect(inset.TopLeading, f.Layout.Frame) {
		t.Errorf("top handle = %+v", f.Handles[0])
	}
	if f.Handles[1] != o.HandleRect(inset.BottomTrailing, f.Layout.Frame) {
		t.Errorf("bottom handle = %+v", f.Handles[1])
	}
}

func TestDrawPaintsBandsAndHandlesOnly(t *testing.T) {
	t.Parallel()

	_, f := defaultFrame(t)
	dst := image.NewRGBA(image.Rect(0, 0, 400, 300))
	r := NewRenderer(DefaultStyle())
	r.Draw(dst, f, 1, image.Point{})

	if a := dst.RGBAAt(200, 50).A; a == 0 {
		t.Error("top band pixel is transparent")
	}
	if a := dst.RGBAAt(20, 150).A; a == 0 {
		t.Error("leading band pixel is transparent")
	}
	if a := dst.RGBAAt(200, 150).A; a != 0 {
		t.Errorf("content pixel alpha = %d; the overlay must leave content untouched", a)
	}

	// Bottom handle center at (356+22, 200+22).
	if a := dst.RGBAAt(378, 222).A; a == 0 {
		t.Error("bottom handle center is transparent")
	}
}

func TestDrawScalesToPixels(t *testing.T) {
	t.Parallel()

	_, f := defaultFrame(t)
	dst := image.NewRGBA(image.Rect(0, 0, 200, 150))
	NewRenderer(DefaultStyle()).Draw(dst, f, 0.5, image.Point{})

	if a := dst.RGBAAt(100, 25).A; a == 0 {
		t.Error("scaled top band pixel is transparent")
	}
	if a := dst.RGBAAt(100, 75).A; a != 0 {
		t.Errorf("scaled content pixel alpha = %d; want 0", a)
	}
}

func TestHandleBitmapIsCached(t *testing.T) {
	t.Parallel()

	r := NewRenderer(DefaultStyle())
	a := r.handle(44)
	b := r.handle(44)
	if a != b {
		t.Error("handle(44) rendered twice")
	}
	if got := a.Bounds(); got != image.Rect(0, 0, 44, 44) {
		t.Errorf("handle bounds = %v", got)
	}
}
