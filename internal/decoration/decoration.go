// Package decoration paints the safe area overlay: a striped band along
// each inset edge and the two corner handles. It only reads inset state.
package decoration

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"
	"sync"

	"github.com/phinze/safearea/internal/inset"
	"github.com/phinze/safearea/internal/stripes"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

//go:embed icons/handle.svg
var handleSVG string

// Style holds the overlay's presentation settings.
type Style struct {
	Top      stripes.Config
	Leading  stripes.Config
	Bottom   stripes.Config
	Trailing stripes.Config

	HandleFill   color.Color
	HandleRing   color.Color
	HandleStroke color.Color
}

// DefaultStyle returns yellow-on-black hazard bands with pink handles.
func DefaultStyle() Style {
	band := stripes.New(stripes.Opacity(color.Black, 0.5), stripes.Opacity(colornames.Yellow, 0.9))
	return Style{
		Top:          band.WithDegrees(45),
		Leading:      band.WithDegrees(-45),
		Bottom:       band.WithDegrees(45),
		Trailing:     band.WithDegrees(-45),
		HandleFill:   colornames.Whitesmoke,
		HandleRing:   colornames.Hotpink,
		HandleStroke: color.Black,
	}
}

// Frame is everything the renderer needs for one frame, in points.
type Frame struct {
	Layout  inset.Layout
	Handles []inset.Rect
}

// FrameFor snapshots o laid out within layout.
func FrameFor(o *inset.Overlay, layout inset.Layout) Frame {
	f := Frame{Layout: layout}
	for _, c := range inset.Corners {
		f.Handles = append(f.Handles, o.HandleRect(c, layout.Frame))
	}
	return f
}

// Edge names one side of the frame.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeLeading
	EdgeBottom
	EdgeTrailing
)

// Bands returns the striped band for each edge, sized to the reported inset
// and spanning the full frame along its edge.
func Bands(l inset.Layout) map[Edge]inset.Rect {
	f, r := l.Frame, l.Reported
	return map[Edge]inset.Rect{
		EdgeTop:      {X: f.X, Y: f.Y, W: f.W, H: r.Top},
		EdgeLeading:  {X: f.X, Y: f.Y, W: r.Leading, H: f.H},
		EdgeBottom:   {X: f.X, Y: f.Y + f.H - r.Bottom, W: f.W, H: r.Bottom},
		EdgeTrailing: {X: f.X + f.W - r.Trailing, Y: f.Y, W: r.Trailing, H: f.H},
	}
}

// Renderer draws frames. Handle bitmaps are cached per pixel size.
type Renderer struct {
	style Style

	mu      sync.Mutex
	handles map[int]image.Image
}

// NewRenderer creates a Renderer.
func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style, handles: make(map[int]image.Image)}
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style {
	return r.style
}

// Draw paints f onto dst. scale converts points to pixels and offset is the
// pixel position of the point origin.
func (r *Renderer) Draw(dst draw.Image, f Frame, scale float64, offset image.Point) {
	bands := Bands(f.Layout)
	for _, e := range []Edge{EdgeTop, EdgeLeading, EdgeBottom, EdgeTrailing} {
		stripes.Draw(dst, bands[e].Pixels(scale, offset), r.stripeConfig(e, scale))
	}

	for _, h := range f.Handles {
		px := h.Pixels(scale, offset)
		if px.Empty() {
			continue
		}
		img := r.handle(px.Dx())
		draw.Draw(dst, px, img, image.Point{}, draw.Over)
	}
}

func (r *Renderer) stripeConfig(e Edge, scale float64) stripes.Config {
	var cfg stripes.Config
	switch e {
	case EdgeTop:
		cfg = r.style.Top
	case EdgeLeading:
		cfg = r.style.Leading
	case EdgeBottom:
		cfg = r.style.Bottom
	default:
		cfg = r.style.Trailing
	}
	cfg.BarWidth *= scale
	cfg.BarSpacing *= scale
	return cfg
}

// handle returns the handle bitmap at size×size pixels.
func (r *Renderer) handle(size int) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.handles[size]; ok {
		return img
	}
	img := renderHandle(size, r.style)
	r.handles[size] = img
	return img
}

// renderHandle rasterises the handle SVG with the style's colors.
func renderHandle(size int, style Style) image.Image {
	svg := strings.NewReplacer(
		"fillColor", hexColor(style.HandleFill),
		"ringColor", hexColor(style.HandleRing),
		"strokeColor", hexColor(style.HandleStroke),
	).Replace(handleSVG)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		log.Printf("Failed to parse handle SVG: %v", err)
		return img
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

func hexColor(c color.Color) string {
	if c == nil {
		return "none"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
