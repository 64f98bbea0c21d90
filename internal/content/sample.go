package content

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
	"github.com/phinze/safearea/internal/stripes"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// Sample panel geometry, in points.
const (
	SamplePadding      = 25
	SampleCornerRadius = 16
	sampleTitleSize    = 22
	sampleBodySize     = 11
)

// Sample is the default preview content: a cyan panel that ignores the
// insets, a pink panel that respects them with a striped disc centered in
// the bottom inset, and a yellow card padded inside the pink panel carrying
// a title and a short explanation.
type Sample struct {
	Title string
	Body  string

	mu    sync.Mutex
	faces map[float64]*Faces
}

// NewSample creates the sample content with its default text.
func NewSample() *Sample {
	return &Sample{
		Title: "Hello, World!",
		Body: "The cyan panel ignores the safe area. The pink panel respects it. " +
			"Drag the handles to change the insets.",
	}
}

// PreferredSize implements Content. The sample fills its container.
func (s *Sample) PreferredSize() geom.Size {
	return geom.Zero
}

// SamplePanels are the sample's panel rectangles in points.
type SamplePanels struct {
	Background inset.Rect
	Safe       inset.Rect
	Card       inset.Rect
	Disc       inset.Rect
}

// Panels lays the sample out for l.
func Panels(l inset.Layout) SamplePanels {
	p := SamplePanels{
		Background: l.Frame,
		Safe:       l.Content,
		Card:       l.Content.Inset(SamplePadding),
	}

	bottom := l.Reported.Bottom
	d := math.Min(bottom, l.Content.W) * 0.8
	if d > 0 {
		cx := l.Content.X + l.Content.W/2
		cy := l.Frame.Y + l.Frame.H - bottom/2
		p.Disc = inset.Rect{X: cx - d/2, Y: cy - d/2, W: d, H: d}
	}
	return p
}

// Render implements Content.
func (s *Sample) Render(dst draw.Image, layout inset.Layout, scale float64, offset image.Point) error {
	frame := layout.Frame.Pixels(scale, offset)
	if frame.Empty() {
		return nil
	}
	panels := Panels(layout)

	dc := gg.NewContext(frame.Dx(), frame.Dy())
	defer dc.Close()

	// Panel coordinates relative to the frame's pixel origin.
	local := func(r inset.Rect) (x, y, w, h float64) {
		px := r.Pixels(scale, offset).Sub(frame.Min)
		return float64(px.Min.X), float64(px.Min.Y), float64(px.Dx()), float64(px.Dy())
	}

	dc.SetColor(colornames.Cyan)
	x, y, w, h := local(panels.Background)
	dc.DrawRectangle(x, y, w, h)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("failed to fill background panel: %w", err)
	}

	if !panels.Safe.Empty() {
		dc.SetColor(colornames.Hotpink)
		x, y, w, h = local(panels.Safe)
		dc.DrawRoundedRectangle(x, y, w, h, SampleCornerRadius*scale)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill safe panel: %w", err)
		}
	}

	if !panels.Card.Empty() {
		dc.SetColor(colornames.Yellow)
		x, y, w, h = local(panels.Card)
		dc.DrawRoundedRectangle(x, y, w, h, SampleCornerRadius*scale)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill card: %w", err)
		}
		dc.SetColor(color.Black)
		dc.SetLineWidth(math.Max(1, scale))
		dc.DrawRoundedRectangle(x, y, w, h, SampleCornerRadius*scale)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to stroke card: %w", err)
		}
	}

	draw.Draw(dst, frame, dc.Image(), image.Point{}, draw.Over)

	if !panels.Disc.Empty() {
		drawDisc(dst, panels.Disc.Pixels(scale, offset), stripes.Color(colornames.Hotpink))
	}

	if !panels.Card.Empty() {
		faces, err := s.facesFor(scale)
		if err != nil {
			return err
		}
		s.drawCard(dst, panels.Card.Pixels(scale, offset), faces)
	}
	return nil
}

func (s *Sample) drawCard(dst draw.Image, card image.Rectangle, faces *Faces) {
	pad := card.Dx() / 12
	width := card.Dx() - 2*pad
	if width <= 0 {
		return
	}
	cx := card.Min.X + card.Dx()/2

	titleH := lineHeight(faces.Title)
	bodyH := lineHeight(faces.Body)
	lines := wrapText(s.Body, faces.Body, width)

	total := titleH + bodyH/2 + len(lines)*bodyH
	y := card.Min.Y + (card.Dy()-total)/2 + faces.Title.Metrics().Ascent.Ceil()
	if y > card.Max.Y {
		return
	}
	drawCentered(dst, TruncateText(s.Title, faces.Title, width), cx, y, faces.Title, color.Black)

	y += titleH/2 + bodyH
	for _, line := range lines {
		if y > card.Max.Y-pad/2 {
			break
		}
		drawCentered(dst, line, cx, y, faces.Body, colornames.Dimgray)
		y += bodyH
	}
}

func (s *Sample) facesFor(scale float64) (*Faces, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.faces[scale]; ok {
		return f, nil
	}
	f, err := NewFaces(sampleTitleSize, sampleBodySize, scale)
	if err != nil {
		return nil, err
	}
	if s.faces == nil {
		s.faces = make(map[float64]*Faces)
	}
	s.faces[scale] = f
	return f, nil
}

// drawDisc paints a striped disc inscribed in r.
func drawDisc(dst draw.Image, r image.Rectangle, cfg stripes.Config) {
	if r.Empty() {
		return
	}
	tile := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	stripes.Draw(tile, tile.Bounds(), cfg)
	draw.DrawMask(dst, r, tile, image.Point{}, &circle{r: tile.Bounds()}, image.Point{}, draw.Over)
}

// circle is an alpha mask of the disc inscribed in r.
type circle struct {
	r image.Rectangle
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle { return c.r }

func (c *circle) At(x, y int) color.Color {
	cx := float64(c.r.Min.X) + float64(c.r.Dx())/2
	cy := float64(c.r.Min.Y) + float64(c.r.Dy())/2
	rad := math.Min(float64(c.r.Dx()), float64(c.r.Dy())) / 2
	dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
	if dx*dx+dy*dy <= rad*rad {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
