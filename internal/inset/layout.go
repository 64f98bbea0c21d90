package inset

import (
	"image"
	"math"

	"github.com/phinze/safearea/internal/geom"
)

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Pixels converts r to a pixel rectangle. scale converts points to pixels
// and offset is the pixel position of the point origin.
func (r Rect) Pixels(scale float64, offset image.Point) image.Rectangle {
	x0 := int(math.Round(r.X * scale))
	y0 := int(math.Round(r.Y * scale))
	x1 := int(math.Round((r.X + r.W) * scale))
	y1 := int(math.Round((r.Y + r.H) * scale))
	return image.Rect(x0, y0, x1, y1).Add(offset)
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: math.Max(0, r.W-2*d), H: math.Max(0, r.H-2*d)}
}

// Layout is the placement of the overlay within its parent.
type Layout struct {
	// Frame is the overlay's outer frame.
	Frame Rect
	// Content is Frame inset by Reported.
	Content Rect
	// Reported is the inset actually applied: each edge clamped to
	// [0, frame extent].
	Reported EdgeInsets
}

// ComputeLayout places content with the given preferred size inside parent.
// A zero preferred dimension fills the parent. With containerIsBounds the
// frame never exceeds the parent; otherwise the preferred size wins.
func ComputeLayout(parent Rect, preferred geom.Size, insets EdgeInsets, containerIsBounds bool) Layout {
	w, h := preferred.Width, preferred.Height
	if w <= 0 {
		w = parent.W
	}
	if h <= 0 {
		h = parent.H
	}
	if containerIsBounds {
		w = math.Min(w, parent.W)
		h = math.Min(h, parent.H)
	}
	frame := Rect{X: parent.X, Y: parent.Y, W: w, H: h}

	reported := EdgeInsets{
		Top:      clampExtent(insets.Top, h),
		Leading:  clampExtent(insets.Leading, w),
		Bottom:   clampExtent(insets.Bottom, h),
		Trailing: clampExtent(insets.Trailing, w),
	}

	return Layout{
		Frame: frame,
		Content: Rect{
			X: frame.X + reported.Leading,
			Y: frame.Y + reported.Top,
			W: math.Max(0, w-reported.Leading-reported.Trailing),
			H: math.Max(0, h-reported.Top-reported.Bottom),
		},
		Reported: reported,
	}
}

func clampExtent(v, extent float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, extent)
}
