package term

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phinze/safearea/internal/config"
	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
)

// Compile-time check: Model must satisfy tea.Model.
var _ tea.Model = Model{}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newSizedModel(t *testing.T, mutate func(*config.Config)) (Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	m := New(cfg, WithClock(clock.now))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 31})
	return updated.(Model), clock
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func TestInit(t *testing.T) {
	t.Parallel()

	if cmd := New(config.Default()).Init(); cmd != nil {
		t.Error("Init() returned non-nil cmd")
	}
}

func TestMouseDragTopHandle(t *testing.T) {
	t.Parallel()

	m, _ := newSizedModel(t, nil)
	if got := m.viewport(); got != geom.Sz(800, 600) {
		t.Fatalf("viewport() = %v; want 800x600", got)
	}

	// Cell (2, 3) is point (25, 70), inside the top-leading handle.
	m, _ = send(t, m,
		mouse(2, 3, tea.MouseActionPress),
		mouse(7, 5, tea.MouseActionMotion),
	)
	if !m.dragging {
		t.Fatal("press on the handle did not start a drag")
	}
	if got := m.overlay.Insets(); got.Leading != 94 || got.Top != 140 {
		t.Errorf("live Insets() = %v; want leading 94, top 140", got)
	}

	m, cmd := send(t, m, mouse(7, 5, tea.MouseActionRelease))
	if m.dragging {
		t.Error("still dragging after release")
	}
	if cmd != nil {
		t.Error("release without smoothing scheduled a tick")
	}
	if got := m.overlay.Insets(); got.Leading != 94 || got.Top != 140 {
		t.Errorf("Insets() = %v; want leading 94, top 140", got)
	}
}

func TestMouseDragBottomHandleIsMirrored(t *testing.T) {
	t.Parallel()

	m, _ := newSizedModel(t, nil)
	m, _ = send(t, m,
		mouse(78, 25, tea.MouseActionPress),
		mouse(75, 25, tea.MouseActionMotion),
		mouse(75, 25, tea.MouseActionRelease),
	)
	if got := m.overlay.Insets(); got.Trailing != 74 || got.Bottom != 100 {
		t.Errorf("Insets() = %v; want trailing 74, bottom 100", got)
	}
}

func TestPressOutsideHandlesIgnored(t *testing.T) {
	t.Parallel()

	m, _ := newSizedModel(t, nil)
	m, _ = send(t, m,
		mouse(40, 15, tea.MouseActionPress),
		mouse(45, 18, tea.MouseActionMotion),
		mouse(45, 18, tea.MouseActionRelease),
	)
	if got := m.overlay.Insets(); got != config.Default().Insets {
		t.Errorf("Insets() = %v; want unchanged", got)
	}
}

func TestSmoothReleaseTicksUntilSettled(t *testing.T) {
	t.Parallel()

	m, clock := newSizedModel(t, func(c *config.Config) { c.Gesture.SmoothRelease = true })

	m, _ = send(t, m, mouse(2, 3, tea.MouseActionPress))
	clock.t = clock.t.Add(50 * time.Millisecond)
	m, _ = send(t, m, mouse(7, 3, tea.MouseActionMotion))
	m, cmd := send(t, m, mouse(7, 3, tea.MouseActionRelease))
	if cmd == nil {
		t.Fatal("smooth release did not schedule a tick")
	}
	if !m.overlay.Animating() {
		t.Fatal("no settle animation after a fling")
	}

	m, cmd = send(t, m, tickMsg(clock.t.Add(10*time.Second)))
	if cmd != nil {
		t.Error("tick scheduled another tick after settling")
	}
	if m.overlay.Animating() {
		t.Error("still animating after ten seconds")
	}
	if got := m.overlay.Insets().Leading; got <= 94 {
		t.Errorf("Leading = %v; want past the 94pt release point", got)
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()

	m, _ := newSizedModel(t, nil)
	key := func(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

	m, _ = send(t, m, key('s'))
	if !m.overlay.SmoothRelease() {
		t.Error("s did not enable smoothing")
	}

	m, _ = send(t, m, key('b'), key('B'), key('B'))
	if got := m.overlay.Controller(inset.TopLeading).Bounds(); got != geom.NonNegative {
		t.Errorf("top bounds = %s", got.Name())
	}
	if got := m.overlay.Controller(inset.BottomTrailing).Bounds(); got != geom.Vertical {
		t.Errorf("bottom bounds = %s", got.Name())
	}

	m, _ = send(t, m, mouse(2, 3, tea.MouseActionPress), mouse(7, 5, tea.MouseActionMotion), key('r'))
	if m.dragging {
		t.Error("reset left a drag in progress")
	}
	if got := m.overlay.Insets(); got != config.Default().Insets {
		t.Errorf("Insets() after reset = %v", got)
	}

	_, cmd := send(t, m, key('q'))
	if cmd == nil {
		t.Fatal("q returned nil cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestView(t *testing.T) {
	t.Parallel()

	m, _ := newSizedModel(t, nil)
	view := m.View()

	if lines := strings.Count(view, "\n") + 1; lines != 31 {
		t.Errorf("View() has %d lines; want 31", lines)
	}
	if !strings.Contains(view, "top 100 leading 44 bottom 100 trailing 44") {
		t.Error("View() missing the inset status")
	}
	if !strings.Contains(view, "●") {
		t.Error("View() missing handles")
	}
	if !strings.Contains(view, "╱") {
		t.Error("View() missing stripes")
	}

	if got := New(config.Default()).View(); got != "" {
		t.Errorf("View() before sizing = %q; want empty", got)
	}
}

func TestGridClassification(t *testing.T) {
	t.Parallel()

	m, _ := newSizedModel(t, nil)
	g := m.grid()

	tests := []struct {
		name     string
		col, row int
		want     cell
	}{
		{"top handle", 2, 3, cellHandle},
		{"bottom handle", 78, 25, cellHandle},
		// (405, 310) is in the safe area, padded 25pt inside for the card.
		{"card", 40, 15, cellCard},
		// (55, 110) is inside the safe panel but within the card padding.
		{"safe panel", 5, 5, cellSafe},
	}
	for _, tt := range tests {
		if got := g[tt.row][tt.col]; got != tt.want {
			t.Errorf("%s: cell(%d,%d) = %d; want %d", tt.name, tt.col, tt.row, got, tt.want)
		}
	}
	if got := g[1][40]; got != cellStripe && got != cellStripeGap {
		t.Errorf("top band cell = %d; want stripe", got)
	}
}
