package content

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Faces holds the font faces used by the sample content at one scale.
type Faces struct {
	Title font.Face
	Body  font.Face
}

// NewFaces parses the embedded Go fonts at the given point sizes and pixel
// scale.
func NewFaces(titleSize, bodySize, scale float64) (*Faces, error) {
	ttBold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	title, err := opentype.NewFace(ttBold, &opentype.FaceOptions{
		Size:    titleSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title face: %w", err)
	}

	ttMono, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mono font: %w", err)
	}
	body, err := opentype.NewFace(ttMono, &opentype.FaceOptions{
		Size:    bodySize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create body face: %w", err)
	}

	return &Faces{Title: title, Body: body}, nil
}

// drawText draws text with its baseline at (x, y).
func drawText(dst draw.Image, text string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// drawCentered draws text horizontally centered on cx.
func drawCentered(dst draw.Image, text string, cx, y int, face font.Face, col color.Color) {
	width := font.MeasureString(face, text).Ceil()
	drawText(dst, text, cx-width/2, y, face, col)
}

// wrapText greedily wraps text into lines no wider than maxWidth, truncating
// words that cannot fit on a line of their own.
func wrapText(text string, face font.Face, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = TruncateText(word, face, maxWidth)
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// TruncateText truncates text to fit within maxWidth, adding ellipsis if needed.
func TruncateText(text string, face font.Face, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	ellipsis := "..."

	width := font.MeasureString(face, text).Ceil()
	if width <= maxWidth {
		return text
	}

	runes := []rune(text)
	for i := len(runes); i > 0; i-- {
		truncated := string(runes[:i]) + ellipsis
		if font.MeasureString(face, truncated).Ceil() <= maxWidth {
			return truncated
		}
	}

	return ellipsis
}

// lineHeight returns the face's line advance in pixels.
func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}
