package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/gesture"
	"github.com/phinze/safearea/internal/inset"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := cfg.Overlay(), inset.DefaultConfig(); got != want {
		t.Errorf("Overlay() = %+v; want %+v", got, want)
	}
	if got, want := cfg.Tracker(), gesture.DefaultConfig(); got != want {
		t.Errorf("Tracker() = %+v; want %+v", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
insets:
  top: 20
  leading: 10
  bottom: 30
  trailing: 5
bounds:
  top: vertical-non-negative
  bottom: horizontal
gesture:
  minimum_distance: 4
  coordinate_space: global
  velocity_window: 50ms
  smooth_release: true
  container_is_bounds: false
style:
  handle_size: 32
deck:
  brightness: 40
  dial_commit: 1s
term:
  points_per_cell: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	oc := cfg.Overlay()
	if want := (inset.EdgeInsets{Top: 20, Leading: 10, Bottom: 30, Trailing: 5}); oc.Insets != want {
		t.Errorf("Insets = %v; want %v", oc.Insets, want)
	}
	if oc.TopBounds != geom.VerticalNonNegative {
		t.Errorf("TopBounds = %s", oc.TopBounds.Name())
	}
	if oc.BottomBounds != geom.Horizontal {
		t.Errorf("BottomBounds = %s", oc.BottomBounds.Name())
	}
	if !oc.SmoothRelease || oc.ContainerIsBounds {
		t.Errorf("SmoothRelease = %v, ContainerIsBounds = %v", oc.SmoothRelease, oc.ContainerIsBounds)
	}
	if oc.HandleSize != 32 {
		t.Errorf("HandleSize = %v; want 32", oc.HandleSize)
	}

	gc := cfg.Tracker()
	if gc.MinimumDistance != 4 || gc.CoordinateSpace != gesture.Global || gc.VelocityWindow != 50*time.Millisecond {
		t.Errorf("Tracker() = %+v", gc)
	}
	if gc.DecelerationRate != gesture.DefaultDecelerationRate {
		t.Errorf("DecelerationRate = %v; want default", gc.DecelerationRate)
	}

	if cfg.Deck.Brightness != 40 || cfg.Deck.DialCommit != time.Second {
		t.Errorf("Deck = %+v", cfg.Deck)
	}
	if cfg.Deck.Viewport != geom.Sz(844, 390) {
		t.Errorf("Viewport = %v; want default", cfg.Deck.Viewport)
	}
	if cfg.Term.PointsPerCell != 8 {
		t.Errorf("PointsPerCell = %v; want 8", cfg.Term.PointsPerCell)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "insets:\n  top: 20\n")
	t.Setenv(EnvTop, "12.5")
	t.Setenv(EnvTrailing, "-3")
	t.Setenv(EnvSmooth, "true")
	t.Setenv(EnvContainerIsBounds, "false")
	t.Setenv(EnvBrightness, "10")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Insets.Top != 12.5 || cfg.Insets.Trailing != -3 {
		t.Errorf("Insets = %v", cfg.Insets)
	}
	if cfg.Insets.Leading != inset.DefaultLeading {
		t.Errorf("Leading = %v; want default", cfg.Insets.Leading)
	}
	oc := cfg.Overlay()
	if !oc.SmoothRelease || oc.ContainerIsBounds {
		t.Errorf("SmoothRelease = %v, ContainerIsBounds = %v", oc.SmoothRelease, oc.ContainerIsBounds)
	}
	if cfg.Deck.Brightness != 10 {
		t.Errorf("Brightness = %d; want 10", cfg.Deck.Brightness)
	}
}

func TestEnvParseError(t *testing.T) {
	t.Setenv(EnvBottom, "lots")
	if _, err := Load(""); err == nil {
		t.Error("Load with bad SAFEAREA_BOTTOM succeeded")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "insets: [1, 2\n")
	if _, err := Load(path); err == nil {
		t.Error("Load with malformed YAML succeeded")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown top bounds", func(c *Config) { c.Bounds.Top = "diagonal" }},
		{"unknown bottom bounds", func(c *Config) { c.Bounds.Bottom = "sideways" }},
		{"unknown coordinate space", func(c *Config) { c.Gesture.CoordinateSpace = "screen" }},
		{"negative minimum distance", func(c *Config) { c.Gesture.MinimumDistance = -1 }},
		{"deceleration rate of one", func(c *Config) { c.Gesture.DecelerationRate = 1 }},
		{"negative handle size", func(c *Config) { c.Style.HandleSize = -4 }},
		{"brightness too high", func(c *Config) { c.Deck.Brightness = 101 }},
		{"empty viewport", func(c *Config) { c.Deck.Viewport = geom.Sz(0, 390) }},
		{"zero points per cell", func(c *Config) { c.Term.PointsPerCell = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v; want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.yaml")
	if got := DefaultPath(); got != "/tmp/custom.yaml" {
		t.Errorf("DefaultPath() = %q", got)
	}
}
