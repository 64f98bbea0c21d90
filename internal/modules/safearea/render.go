package safearea

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/phinze/safearea/internal/content"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

//go:embed icons/smooth.svg
var iconSmoothSVG string

//go:embed icons/bounds.svg
var iconBoundsSVG string

//go:embed icons/reset.svg
var iconResetSVG string

//go:embed icons/info.svg
var iconInfoSVG string

// Common colors
var (
	colorKeyBg      = color.RGBA{40, 40, 40, 255}
	colorBackground = color.RGBA{25, 25, 25, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorLabel      = color.RGBA{180, 180, 180, 255}
	colorDimGray    = color.RGBA{80, 80, 80, 255}
	colorHotPink    = color.RGBA{255, 105, 180, 255}
	colorYellow     = color.RGBA{255, 215, 0, 255}
	colorCyan       = color.RGBA{0, 206, 209, 255}
)

// initFonts initializes the font faces for rendering.
func (m *Module) initFonts() error {
	faces, err := content.NewFaces(20, 12, 1)
	if err != nil {
		return fmt.Errorf("failed to load fonts: %w", err)
	}
	m.valueFace = faces.Title
	m.labelFace = faces.Body
	return nil
}

// renderKey renders a key with an icon in the upper portion and a label
// underneath.
func (m *Module) renderKey(svg string, iconColor color.Color, label string) image.Image {
	size := m.keySize
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorKeyBg}, image.Point{}, draw.Src)

	iconSize := size * 5 / 9
	icon := renderSVGIcon(svg, iconSize, iconColor)
	x := (size - iconSize) / 2
	y := size / 10
	draw.Draw(img, image.Rect(x, y, x+iconSize, y+iconSize), icon, image.Point{}, draw.Over)

	m.drawTextCentered(img, label, size/2, size-size/8, m.labelFace, colorWhite)
	return img
}

// renderValueKey renders a key showing a numeric readout with a caption.
func (m *Module) renderValueKey(caption string, value float64, accent color.Color) image.Image {
	size := m.keySize
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{colorKeyBg}, image.Point{}, draw.Src)

	// Accent bar along the top edge
	draw.Draw(img, image.Rect(0, 0, size, size/16), &image.Uniform{accent}, image.Point{}, draw.Src)

	m.drawTextCentered(img, caption, size/2, size/3, m.labelFace, colorLabel)
	m.drawTextCentered(img, formatPoints(value), size/2, size*2/3, m.valueFace, colorWhite)
	return img
}

// renderSVGIcon renders an SVG string to an image with the given size and color.
func renderSVGIcon(svgContent string, size int, iconColor color.Color) image.Image {
	// Replace currentColor with the actual color
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	// Parse SVG
	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		log.Printf("Failed to parse SVG: %v", err)
		return img
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	// Render to image
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

// drawText draws text with automatic truncation if it exceeds maxWidth.
func drawText(img draw.Image, text string, x, y int, face font.Face, col color.Color, maxWidth int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(content.TruncateText(text, face, maxWidth))
}

// drawTextCentered draws text horizontally centered on cx.
func (m *Module) drawTextCentered(img draw.Image, text string, cx, y int, face font.Face, col color.Color) {
	maxWidth := m.keySize - 4
	text = content.TruncateText(text, face, maxWidth)
	width := font.MeasureString(face, text).Ceil()
	drawText(img, text, cx-width/2, y, face, col, 0)
}

// formatPoints formats a point value compactly, dropping a zero fraction.
func formatPoints(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
