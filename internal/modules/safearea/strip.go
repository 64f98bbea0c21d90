package safearea

import (
	"fmt"
	"image"
	"log"

	"github.com/phinze/safearea/internal/inset"
	"golang.org/x/image/draw"
)

// oversample renders the preview above strip resolution before scaling it
// down so stripes and text stay legible.
const oversample = 2

// renderStrip renders the scaled preview with a readout beside it. Callers
// hold mu.
func (m *Module) renderStrip() image.Image {
	if m.region.Empty() {
		return nil
	}
	img := image.NewRGBA(m.region)
	draw.Draw(img, img.Bounds(), &image.Uniform{colorBackground}, image.Point{}, draw.Src)

	if _, _, err := m.scene().RenderInto(img, m.target, oversample); err != nil {
		log.Printf("Failed to render preview: %v", err)
	}

	x := m.target.Max.X + 12
	maxWidth := m.region.Max.X - x - 8
	if maxWidth < 40 {
		return img
	}
	for i, line := range m.readout() {
		drawText(img, line, x, 24+i*22, m.labelFace, colorLabel, maxWidth)
	}
	return img
}

// readout describes the overlay state as short lines. Callers hold mu.
func (m *Module) readout() []string {
	in := m.overlay.Insets()
	smooth := "off"
	if m.overlay.SmoothRelease() {
		smooth = "on"
	}
	return []string{
		fmt.Sprintf("T %s  L %s", formatPoints(in.Top), formatPoints(in.Leading)),
		fmt.Sprintf("B %s  R %s", formatPoints(in.Bottom), formatPoints(in.Trailing)),
		fmt.Sprintf("%s / %s",
			m.overlay.Controller(inset.TopLeading).Bounds().Name(),
			m.overlay.Controller(inset.BottomTrailing).Bounds().Name()),
		"smooth " + smooth,
	}
}

// renderInspectorStrip renders the full strip for the inspector: the raw
// state of both corner controllers next to the reported insets. Callers
// hold mu.
func (m *Module) renderInspectorStrip() image.Image {
	if m.region.Empty() {
		return nil
	}
	img := image.NewRGBA(m.region)
	draw.Draw(img, img.Bounds(), &image.Uniform{colorBackground}, image.Point{}, draw.Src)

	colW := m.region.Dx() / 3
	for i, c := range inset.Corners {
		ctl := m.overlay.Controller(c)
		x := 12 + i*colW
		state := "posted"
		switch {
		case ctl.Animating():
			state = "settling"
		case ctl.Dragging():
			state = "dragging"
		}
		lines := []string{
			c.String(),
			fmt.Sprintf("value %s", ctl.Value()),
			fmt.Sprintf("%s, %s", state, ctl.Bounds().Name()),
		}
		for j, line := range lines {
			drawText(img, line, x, 24+j*22, m.labelFace, colorWhite, colW-16)
		}
	}

	reported := m.scene().Layout().Reported
	x := 12 + 2*colW
	drawText(img, "reported", x, 24, m.labelFace, colorHotPink, colW-16)
	drawText(img, reported.String(), x, 46, m.labelFace, colorWhite, colW-16)
	return img
}
