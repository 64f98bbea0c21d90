// Package preview composes hosted content and the overlay decoration into a
// bitmap of a viewport.
package preview

import (
	"fmt"
	"image"
	"math"

	"github.com/phinze/safearea/internal/content"
	"github.com/phinze/safearea/internal/decoration"
	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// Scene is one previewed screen.
type Scene struct {
	Overlay  *inset.Overlay
	Content  content.Content
	Renderer *decoration.Renderer
	// Viewport is the screen size in points.
	Viewport geom.Size
}

// Layout lays the content out in the viewport with the current insets.
func (s Scene) Layout() inset.Layout {
	parent := inset.Rect{W: s.Viewport.Width, H: s.Viewport.Height}
	var preferred geom.Size
	if s.Content != nil {
		preferred = s.Content.PreferredSize()
	}
	return inset.ComputeLayout(parent, preferred, s.Overlay.Insets(), s.Overlay.Config().ContainerIsBounds)
}

// Render draws the scene at scale pixels per point.
func (s Scene) Render(scale float64) (*image.RGBA, inset.Layout, error) {
	w := int(math.Round(s.Viewport.Width * scale))
	h := int(math.Round(s.Viewport.Height * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{colornames.Black}, image.Point{}, draw.Src)

	layout := s.Layout()
	if s.Content != nil {
		if err := s.Content.Render(img, layout, scale, image.Point{}); err != nil {
			return img, layout, fmt.Errorf("failed to render content: %w", err)
		}
	}
	s.Renderer.Draw(img, decoration.FrameFor(s.Overlay, layout), scale, image.Point{})
	return img, layout, nil
}

// Fit returns the largest rectangle with the viewport's aspect ratio
// centered in bounds, and the scale from points to its pixels.
func Fit(viewport geom.Size, bounds image.Rectangle) (image.Rectangle, float64) {
	if viewport.Width <= 0 || viewport.Height <= 0 || bounds.Empty() {
		return image.Rectangle{}, 0
	}
	scale := math.Min(float64(bounds.Dx())/viewport.Width, float64(bounds.Dy())/viewport.Height)
	w := int(math.Round(viewport.Width * scale))
	h := int(math.Round(viewport.Height * scale))
	origin := bounds.Min.Add(image.Pt((bounds.Dx()-w)/2, (bounds.Dy()-h)/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}, scale
}

// RenderInto draws the scene scaled to fit dst's rect. The scene is rendered
// at oversample times the target resolution and scaled down. It returns the
// rectangle the viewport occupies and its points-to-pixels scale.
func (s Scene) RenderInto(dst draw.Image, rect image.Rectangle, oversample float64) (image.Rectangle, float64, error) {
	target, scale := Fit(s.Viewport, rect)
	if target.Empty() {
		return target, scale, nil
	}
	if oversample < 1 {
		oversample = 1
	}
	img, _, err := s.Render(scale * oversample)
	if err != nil {
		return target, scale, err
	}
	draw.CatmullRom.Scale(dst, target, img, img.Bounds(), draw.Over, nil)
	return target, scale, nil
}

// ToPoints converts a pixel position within a fitted target rectangle back
// into viewport points.
func ToPoints(p image.Point, target image.Rectangle, scale float64) (x, y float64) {
	if scale <= 0 {
		return 0, 0
	}
	return float64(p.X-target.Min.X) / scale, float64(p.Y-target.Min.Y) / scale
}
