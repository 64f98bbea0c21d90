// Package stripes paints the diagonal hazard stripes used to mark inset
// regions.
package stripes

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// Config describes a striped fill.
type Config struct {
	Background color.Color
	Foreground color.Color
	// Degrees rotates the bars clockwise from vertical.
	Degrees    float64
	BarWidth   float64
	BarSpacing float64
}

// New returns a Config with the default geometry: 30 degrees, 20pt bars
// with 20pt gaps.
func New(background, foreground color.Color) Config {
	return Config{
		Background: background,
		Foreground: foreground,
		Degrees:    30,
		BarWidth:   20,
		BarSpacing: 20,
	}
}

// Default is a translucent pink fill.
var Default = New(Opacity(colornames.Pink, 0.5), Opacity(colornames.Pink, 0.8))

// Color returns a wide-barred fill in c.
func Color(c color.Color) Config {
	return Config{
		Background: Opacity(c, 0.5),
		Foreground: Opacity(c, 0.8),
		Degrees:    50,
		BarWidth:   30,
		BarSpacing: 30,
	}
}

// Opacity returns c with its alpha scaled by a.
func Opacity(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, a))))
	return n
}

// WithDegrees returns a copy of cfg rotated to d degrees.
func (cfg Config) WithDegrees(d float64) Config {
	cfg.Degrees = d
	return cfg
}

// Draw paints cfg into rect of dst. Bars are laid out across a square twice
// the long side of rect, rotated about its center and clipped to rect.
func Draw(dst draw.Image, rect image.Rectangle, cfg Config) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()

	tile := image.NewRGBA(image.Rect(0, 0, w, h))
	if cfg.Background != nil {
		draw.Draw(tile, tile.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)
	}

	if cfg.Foreground != nil && cfg.BarWidth > 0 {
		scanner := rasterx.NewScannerGV(w, h, tile, tile.Bounds())
		filler := rasterx.NewFiller(w, h, scanner)
		filler.SetColor(cfg.Foreground)
		for _, bar := range Bars(float64(w), float64(h), cfg) {
			filler.Start(rasterx.ToFixedP(bar[0].X, bar[0].Y))
			for _, p := range bar[1:] {
				filler.Line(rasterx.ToFixedP(p.X, p.Y))
			}
			filler.Stop(true)
		}
		filler.Draw()
	}

	draw.Draw(dst, rect, tile, image.Point{}, draw.Over)
}

// Point is a vertex of a bar polygon.
type Point struct {
	X, Y float64
}

// Bars returns the rotated bar quads for a w×h area, in area coordinates.
func Bars(w, h float64, cfg Config) [][4]Point {
	item := cfg.BarWidth + math.Max(0, cfg.BarSpacing)
	if item <= 0 || w <= 0 || h <= 0 {
		return nil
	}
	long := math.Max(w, h)
	cx, cy := w/2, h/2
	n := int(math.Ceil(2*long/item)) + 1

	rad := cfg.Degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	rot := func(x, y float64) Point {
		dx, dy := x-cx, y-cy
		return Point{X: cx + dx*cos - dy*sin, Y: cy + dx*sin + dy*cos}
	}

	bars := make([][4]Point, 0, n)
	top, bottom := cy-long, cy+long
	for i := 0; i < n; i++ {
		x0 := cx - long + float64(i)*item
		x1 := x0 + cfg.BarWidth
		bars = append(bars, [4]Point{
			rot(x0, top),
			rot(x1, top),
			rot(x1, bottom),
			rot(x0, bottom),
		})
	}
	return bars
}
