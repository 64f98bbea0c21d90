package content

import (
	"image"
	"image/color"
	"testing"

	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
	"golang.org/x/image/font/basicfont"
)

func defaultLayout() inset.Layout {
	insets := inset.EdgeInsets{Top: 100, Leading: 44, Bottom: 100, Trailing: 44}
	return inset.ComputeLayout(inset.Rect{W: 400, H: 400}, geom.Zero, insets, true)
}

func TestSolidFillsFrame(t *testing.T) {
	t.Parallel()

	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	s := Solid{Color: color.RGBA{R: 255, A: 255}}
	if err := s.Render(dst, defaultLayout(), 1, image.Point{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := dst.RGBAAt(1, 1); got.R != 255 {
		t.Errorf("corner pixel = %v; want red", got)
	}
}

func TestPanels(t *testing.T) {
	t.Parallel()

	p := Panels(defaultLayout())
	if p.Background != (inset.Rect{W: 400, H: 400}) {
		t.Errorf("Background = %+v", p.Background)
	}
	if p.Safe != (inset.Rect{X: 44, Y: 100, W: 312, H: 200}) {
		t.Errorf("Safe = %+v", p.Safe)
	}
	if p.Card != (inset.Rect{X: 69, Y: 125, W: 262, H: 150}) {
		t.Errorf("Card = %+v", p.Card)
	}
	// 80% of the 100pt bottom inset, centered in the bottom band.
	if p.Disc != (inset.Rect{X: 160, Y: 310, W: 80, H: 80}) {
		t.Errorf("Disc = %+v", p.Disc)
	}
}

func TestPanelsWithoutBottomInset(t *testing.T) {
	t.Parallel()

	l := inset.ComputeLayout(inset.Rect{W: 200, H: 200}, geom.Zero, inset.EdgeInsets{}, true)
	if p := Panels(l); !p.Disc.Empty() {
		t.Errorf("Disc = %+v; want empty", p.Disc)
	}
}

func TestSampleRender(t *testing.T) {
	t.Parallel()

	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	s := NewSample()
	if err := s.Render(dst, defaultLayout(), 1, image.Point{}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want func(color.RGBA) bool
	}{
		{"cyan background", 10, 10, func(c color.RGBA) bool { return c.R < 50 && c.G > 200 && c.B > 200 }},
		{"pink safe panel", 55, 200, func(c color.RGBA) bool { return c.R > 200 && c.G < 150 }},
		{"yellow card", 75, 135, func(c color.RGBA) bool { return c.R > 200 && c.G > 200 && c.B < 50 }},
	}
	for _, tt := range tests {
		if got := dst.RGBAAt(tt.x, tt.y); !tt.want(got) {
			t.Errorf("%s at (%d,%d) = %v", tt.name, tt.x, tt.y, got)
		}
	}

	if s.faces[1] == nil {
		t.Error("faces not cached for scale 1")
	}
}

func TestSampleRenderEmptyFrame(t *testing.T) {
	t.Parallel()

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	l := inset.Layout{}
	if err := NewSample().Render(dst, l, 1, image.Point{}); err != nil {
		t.Errorf("Render(empty) = %v", err)
	}
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	face := basicfont.Face7x13
	lines := wrapText("aaa bbb ccc", face, 7*7)
	if len(lines) != 2 || lines[0] != "aaa bbb" || lines[1] != "ccc" {
		t.Errorf("wrapText = %q", lines)
	}
	if got := wrapText("anything", face, 0); got != nil {
		t.Errorf("wrapText(width 0) = %q; want nil", got)
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	face := basicfont.Face7x13
	if got := TruncateText("short", face, 100); got != "short" {
		t.Errorf("TruncateText = %q", got)
	}
	if got := TruncateText("a long line of text", face, 7*6); got != "a l..." {
		t.Errorf("TruncateText = %q; want %q", got, "a l...")
	}
}

func TestCircleMask(t *testing.T) {
	t.Parallel()

	m := &circle{r: image.Rect(0, 0, 10, 10)}
	if _, _, _, a := m.At(5, 5).RGBA(); a == 0 {
		t.Error("center is masked out")
	}
	if _, _, _, a := m.At(0, 0).RGBA(); a != 0 {
		t.Error("corner is not masked out")
	}
}
