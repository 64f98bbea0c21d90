// Package config loads safearea settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/gesture"
	"github.com/phinze/safearea/internal/inset"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvPath              = "SAFEAREA_CONFIG"
	EnvTop               = "SAFEAREA_TOP"
	EnvLeading           = "SAFEAREA_LEADING"
	EnvBottom            = "SAFEAREA_BOTTOM"
	EnvTrailing          = "SAFEAREA_TRAILING"
	EnvSmooth            = "SAFEAREA_SMOOTH"
	EnvContainerIsBounds = "SAFEAREA_CONTAINER_IS_BOUNDS"
	EnvBrightness        = "SAFEAREA_BRIGHTNESS"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full settings file.
type Config struct {
	Insets  inset.EdgeInsets `yaml:"insets"`
	Bounds  Bounds           `yaml:"bounds"`
	Gesture Gesture          `yaml:"gesture"`
	Style   Style            `yaml:"style"`
	Deck    Deck             `yaml:"deck"`
	Term    Term             `yaml:"term"`
}

// Bounds names the bounds preset of each corner.
type Bounds struct {
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
}

// Gesture configures pointer tracking and release behavior.
type Gesture struct {
	MinimumDistance   float64       `yaml:"minimum_distance"`
	CoordinateSpace   string        `yaml:"coordinate_space"`
	VelocityWindow    time.Duration `yaml:"velocity_window"`
	DecelerationRate  float64       `yaml:"deceleration_rate"`
	SmoothRelease     bool          `yaml:"smooth_release"`
	ContainerIsBounds *bool         `yaml:"container_is_bounds"`
}

// Style configures the overlay's look.
type Style struct {
	HandleSize float64 `yaml:"handle_size"`
}

// Deck configures the Stream Deck host.
type Deck struct {
	Brightness int `yaml:"brightness"`
	// Viewport is the previewed screen in points. It is scaled to fit the
	// module's strip region.
	Viewport      geom.Size     `yaml:"viewport"`
	DialStep      float64       `yaml:"dial_step"`
	DialCommit    time.Duration `yaml:"dial_commit"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	Momentum      bool          `yaml:"momentum"`
}

// Term configures the terminal host.
type Term struct {
	// PointsPerCell is the preview scale, one cell column per this many
	// points. Rows cover twice as many points.
	PointsPerCell float64       `yaml:"points_per_cell"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// Default returns the built-in settings.
func Default() Config {
	oc := inset.DefaultConfig()
	gc := gesture.DefaultConfig()
	return Config{
		Insets: oc.Insets,
		Bounds: Bounds{
			Top:    oc.TopBounds.Name(),
			Bottom: oc.BottomBounds.Name(),
		},
		Gesture: Gesture{
			MinimumDistance:  gc.MinimumDistance,
			CoordinateSpace:  gc.CoordinateSpace.String(),
			VelocityWindow:   gc.VelocityWindow,
			DecelerationRate: gc.DecelerationRate,
			SmoothRelease:    oc.SmoothRelease,
		},
		Style: Style{HandleSize: oc.HandleSize},
		Deck: Deck{
			Brightness:    80,
			Viewport:      geom.Sz(844, 390),
			DialStep:      2,
			DialCommit:    400 * time.Millisecond,
			FrameInterval: time.Second / 30,
			Momentum:      true,
		},
		Term: Term{
			PointsPerCell: 10,
			FrameInterval: time.Second / 60,
		},
	}
}

// DefaultPath returns $SAFEAREA_CONFIG, or ~/.config/safearea/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "safearea", "config.yaml")
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	floats := []struct {
		name string
		dst  *float64
	}{
		{EnvTop, &c.Insets.Top},
		{EnvLeading, &c.Insets.Leading},
		{EnvBottom, &c.Insets.Bottom},
		{EnvTrailing, &c.Insets.Trailing},
	}
	for _, f := range floats {
		v := os.Getenv(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", f.name, err)
		}
		*f.dst = n
	}

	if v := os.Getenv(EnvSmooth); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvSmooth, err)
		}
		c.Gesture.SmoothRelease = b
	}

	if v := os.Getenv(EnvContainerIsBounds); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvContainerIsBounds, err)
		}
		c.Gesture.ContainerIsBounds = &b
	}

	if v := os.Getenv(EnvBrightness); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvBrightness, err)
		}
		c.Deck.Brightness = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := geom.ParseBounds(c.Bounds.Top); err != nil {
		return fmt.Errorf("%w: bounds.top: %v", ErrInvalid, err)
	}
	if _, err := geom.ParseBounds(c.Bounds.Bottom); err != nil {
		return fmt.Errorf("%w: bounds.bottom: %v", ErrInvalid, err)
	}
	if _, err := gesture.ParseCoordinateSpace(c.Gesture.CoordinateSpace); err != nil {
		return fmt.Errorf("%w: gesture.coordinate_space: %v", ErrInvalid, err)
	}
	if c.Gesture.MinimumDistance < 0 {
		return fmt.Errorf("%w: gesture.minimum_distance must not be negative", ErrInvalid)
	}
	if r := c.Gesture.DecelerationRate; r != 0 && (r <= 0 || r >= 1) {
		return fmt.Errorf("%w: gesture.deceleration_rate must be in (0, 1)", ErrInvalid)
	}
	if c.Style.HandleSize < 0 {
		return fmt.Errorf("%w: style.handle_size must not be negative", ErrInvalid)
	}
	if c.Deck.Brightness < 0 || c.Deck.Brightness > 100 {
		return fmt.Errorf("%w: deck.brightness must be 0-100", ErrInvalid)
	}
	if v := c.Deck.Viewport; v.Width <= 0 || v.Height <= 0 || !v.IsFinite() {
		return fmt.Errorf("%w: deck.viewport must be positive", ErrInvalid)
	}
	if c.Term.PointsPerCell <= 0 {
		return fmt.Errorf("%w: term.points_per_cell must be positive", ErrInvalid)
	}
	return nil
}

// Overlay converts the settings into an overlay configuration. Call
// Validate first; unparseable presets fall back to unbounded.
func (c Config) Overlay() inset.Config {
	oc := inset.DefaultConfig()
	oc.Insets = c.Insets
	oc.SmoothRelease = c.Gesture.SmoothRelease
	if c.Gesture.ContainerIsBounds != nil {
		oc.ContainerIsBounds = *c.Gesture.ContainerIsBounds
	}
	if b, err := geom.ParseBounds(c.Bounds.Top); err == nil {
		oc.TopBounds = b
	}
	if b, err := geom.ParseBounds(c.Bounds.Bottom); err == nil {
		oc.BottomBounds = b
	}
	if c.Style.HandleSize > 0 {
		oc.HandleSize = c.Style.HandleSize
	}
	return oc
}

// Tracker converts the settings into a gesture tracker configuration.
func (c Config) Tracker() gesture.Config {
	gc := gesture.DefaultConfig()
	gc.MinimumDistance = c.Gesture.MinimumDistance
	if s, err := gesture.ParseCoordinateSpace(c.Gesture.CoordinateSpace); err == nil {
		gc.CoordinateSpace = s
	}
	if c.Gesture.VelocityWindow > 0 {
		gc.VelocityWindow = c.Gesture.VelocityWindow
	}
	if c.Gesture.DecelerationRate > 0 {
		gc.DecelerationRate = c.Gesture.DecelerationRate
	}
	return gc
}
