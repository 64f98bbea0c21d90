// Package content provides the hosted content previewed inside the safe area
// overlay. Content receives the applied insets and lays itself out around
// them.
package content

import (
	"image"
	"image/color"

	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// Content is something that can be previewed under the overlay.
type Content interface {
	// PreferredSize is the content's natural size in points. A zero
	// dimension fills the container.
	PreferredSize() geom.Size
	// Render draws the content for layout onto dst. scale converts points to
	// pixels and offset is the pixel position of the point origin.
	Render(dst draw.Image, layout inset.Layout, scale float64, offset image.Point) error
}

// Solid fills the whole frame with one color and ignores the insets.
type Solid struct {
	Color color.Color
	Size  geom.Size
}

// PreferredSize implements Content.
func (s Solid) PreferredSize() geom.Size {
	return s.Size
}

// Render implements Content.
func (s Solid) Render(dst draw.Image, layout inset.Layout, scale float64, offset image.Point) error {
	c := s.Color
	if c == nil {
		c = colornames.Darkslategray
	}
	draw.Draw(dst, layout.Frame.Pixels(scale, offset), &image.Uniform{c}, image.Point{}, draw.Src)
	return nil
}
