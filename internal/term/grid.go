package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phinze/safearea/internal/content"
	"github.com/phinze/safearea/internal/decoration"
	"github.com/phinze/safearea/internal/inset"
)

// cell is what one terminal cell shows.
type cell int

const (
	cellOutside cell = iota
	cellBackground
	cellSafe
	cellCard
	cellStripe
	cellStripeGap
	cellHandle
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236"))

	cellStyles = map[cell]lipgloss.Style{
		cellOutside:    lipgloss.NewStyle(),
		cellBackground: lipgloss.NewStyle().Background(lipgloss.Color("6")),
		cellSafe:       lipgloss.NewStyle().Background(lipgloss.Color("13")),
		cellCard:       lipgloss.NewStyle().Background(lipgloss.Color("11")),
		cellStripe:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Background(lipgloss.Color("0")),
		cellStripeGap:  lipgloss.NewStyle().Background(lipgloss.Color("0")),
		cellHandle:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Background(lipgloss.Color("15")).Bold(true),
	}

	cellGlyphs = map[cell]string{
		cellStripe: "╱",
		cellHandle: "●",
	}
)

// grid classifies every preview cell by sampling its center point.
func (m Model) grid() [][]cell {
	rows := m.previewRows()
	layout := m.layout()
	panels := content.Panels(layout)
	bands := decoration.Bands(layout)

	var handles []inset.Rect
	for _, c := range inset.Corners {
		handles = append(handles, m.overlay.HandleRect(c, layout.Frame))
	}

	g := make([][]cell, rows)
	for row := range g {
		g[row] = make([]cell, m.width)
		for col := range g[row] {
			x, y := m.toPoints(col, row)
			g[row][col] = classify(x, y, col, row, layout, panels, bands, handles)
		}
	}
	return g
}

func classify(x, y float64, col, row int, layout inset.Layout, panels content.SamplePanels, bands map[decoration.Edge]inset.Rect, handles []inset.Rect) cell {
	for _, h := range handles {
		if h.Contains(x, y) {
			return cellHandle
		}
	}
	for _, b := range bands {
		if b.Contains(x, y) {
			if (col+row)/2%2 == 0 {
				return cellStripe
			}
			return cellStripeGap
		}
	}
	switch {
	case panels.Card.Contains(x, y):
		return cellCard
	case panels.Safe.Contains(x, y):
		return cellSafe
	case layout.Frame.Contains(x, y):
		return cellBackground
	}
	return cellOutside
}

// renderRow styles runs of identical cells together.
func renderRow(row []cell) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		glyph, ok := cellGlyphs[row[i]]
		if !ok {
			glyph = " "
		}
		b.WriteString(cellStyles[row[i]].Render(strings.Repeat(glyph, j-i)))
		i = j
	}
	return b.String()
}
