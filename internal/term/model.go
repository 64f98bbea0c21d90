// Package term previews the safe area overlay in a terminal. Each cell
// stands for a block of points; mouse drags on the handles move them
// through the same gesture and drag pipeline as the other hosts.
package term

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phinze/safearea/internal/config"
	"github.com/phinze/safearea/internal/drag"
	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/gesture"
	"github.com/phinze/safearea/internal/inset"
)

// tickMsg advances settle animations.
type tickMsg time.Time

// Model is the Bubble Tea model of the terminal preview.
type Model struct {
	cfg     config.Config
	now     func() time.Time
	overlay *inset.Overlay
	tracker *gesture.Tracker

	width, height int

	dragging bool
	corner   inset.Corner
	ticking  bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for gestures and animations.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a Model from cfg.
func New(cfg config.Config, opts ...Option) Model {
	m := Model{
		cfg:     cfg,
		now:     time.Now,
		tracker: gesture.NewTracker(cfg.Tracker()),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.overlay = inset.New(cfg.Overlay(), drag.WithClock(m.now))
	return m
}

// Overlay returns the model's overlay.
func (m Model) Overlay() *inset.Overlay {
	return m.overlay
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		m.overlay.Tick(time.Time(msg))
		if m.overlay.Animating() {
			return m, m.tick()
		}
		m.ticking = false
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		m.tracker.Cancel()
		m.dragging = false
		m.overlay.Reset()
	case "s":
		m.overlay.SetSmoothRelease(!m.overlay.SmoothRelease())
	case "b":
		m.overlay.CycleBounds(inset.TopLeading)
	case "B":
		m.overlay.CycleBounds(inset.BottomTrailing)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := m.toPoints(msg.X, msg.Y)
	p := gesture.Pt(x, y)
	now := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		corner, ok := m.overlay.HitTest(x, y, m.frame())
		if !ok {
			return m, nil
		}
		m.dragging = true
		m.corner = corner
		m.tracker.Begin(p, now)

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, nil
		}
		if t, ok := m.tracker.Move(p, now); ok {
			m.overlay.Drag(m.corner, t)
		}

	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		rel, ok := m.tracker.End(p, now)
		if !ok {
			return m, nil
		}
		m.overlay.Release(m.corner, rel.Translation, rel.Predicted)
		if m.overlay.Animating() && !m.ticking {
			m.ticking = true
			return m, m.tick()
		}
	}
	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Term.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Points per cell horizontally; cells are about twice as tall as wide.
func (m Model) cellSize() (w, h float64) {
	return m.cfg.Term.PointsPerCell, 2 * m.cfg.Term.PointsPerCell
}

// previewRows is the number of rows used by the preview, leaving one for
// the status line.
func (m Model) previewRows() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

// viewport returns the previewed screen in points.
func (m Model) viewport() geom.Size {
	cw, ch := m.cellSize()
	return geom.Sz(float64(m.width)*cw, float64(m.previewRows())*ch)
}

func (m Model) layout() inset.Layout {
	v := m.viewport()
	return inset.ComputeLayout(inset.Rect{W: v.Width, H: v.Height}, geom.Zero, m.overlay.Insets(), m.overlay.Config().ContainerIsBounds)
}

func (m Model) frame() inset.Rect {
	return m.layout().Frame
}

// toPoints returns the point at the center of cell (col, row).
func (m Model) toPoints(col, row int) (x, y float64) {
	cw, ch := m.cellSize()
	return (float64(col) + 0.5) * cw, (float64(row) + 0.5) * ch
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width <= 0 || m.previewRows() <= 0 {
		return ""
	}
	g := m.grid()
	var b strings.Builder
	for row := range g {
		b.WriteString(renderRow(g[row]))
		b.WriteByte('\n')
	}
	b.WriteString(statusStyle.MaxWidth(m.width).Render(m.status()))
	return b.String()
}

// status describes the overlay state on one line.
func (m Model) status() string {
	in := m.overlay.Insets()
	smooth := "off"
	if m.overlay.SmoothRelease() {
		smooth = "on"
	}
	return fmt.Sprintf(" top %.0f leading %.0f bottom %.0f trailing %.0f | %s / %s | smooth %s | r reset  s smooth  b/B bounds  q quit",
		in.Top, in.Leading, in.Bottom, in.Trailing,
		m.overlay.Controller(inset.TopLeading).Bounds().Name(),
		m.overlay.Controller(inset.BottomTrailing).Bounds().Name(),
		smooth)
}
