package geom

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidBounds is returned when a bounds minimum exceeds its maximum.
var ErrInvalidBounds = errors.New("bounds minimum exceeds maximum")

var inf = math.Inf(1)

// Bounds limits each axis of a Size to [Min, Max]. Equal limits lock an axis.
type Bounds struct {
	Min Size
	Max Size
}

// Presets.
var (
	Unbounded             = Bounds{Min: Sz(-inf, -inf), Max: Sz(inf, inf)}
	NonNegative           = Bounds{Min: Sz(0, 0), Max: Sz(inf, inf)}
	Vertical              = Bounds{Min: Sz(0, -inf), Max: Sz(0, inf)}
	VerticalNonNegative   = Bounds{Min: Sz(0, 0), Max: Sz(0, inf)}
	Horizontal            = Bounds{Min: Sz(-inf, 0), Max: Sz(inf, 0)}
	HorizontalNonNegative = Bounds{Min: Sz(0, 0), Max: Sz(inf, 0)}
)

// presetOrder is the cycling order used by Next.
var presetOrder = []struct {
	name   string
	bounds Bounds
}{
	{"unbounded", Unbounded},
	{"non-negative", NonNegative},
	{"vertical", Vertical},
	{"vertical-non-negative", VerticalNonNegative},
	{"horizontal", Horizontal},
	{"horizontal-non-negative", HorizontalNonNegative},
}

// NewBounds returns bounds with the given limits, or ErrInvalidBounds if
// min is greater than max on either axis.
func NewBounds(lo, hi Size) (Bounds, error) {
	if lo.Width > hi.Width || lo.Height > hi.Height {
		return Bounds{}, fmt.Errorf("%w: min %v, max %v", ErrInvalidBounds, lo, hi)
	}
	return Bounds{Min: lo, Max: hi}, nil
}

// Bounding clamps v into b, each axis independently. Finite limits win over
// infinite candidates.
func (b Bounds) Bounding(v Size) Size {
	return MinSides(MaxSides(v, b.Min), b.Max)
}

// Contains reports whether v lies within b on both axes.
func (b Bounds) Contains(v Size) bool {
	return v.Width >= b.Min.Width && v.Width <= b.Max.Width &&
		v.Height >= b.Min.Height && v.Height <= b.Max.Height
}

// Name returns the preset name of b, or "custom".
func (b Bounds) Name() string {
	for _, p := range presetOrder {
		if p.bounds == b {
			return p.name
		}
	}
	return "custom"
}

// Next returns the preset after b in the preset order, wrapping around.
// Custom bounds advance to Unbounded.
func (b Bounds) Next() Bounds {
	for i, p := range presetOrder {
		if p.bounds == b {
			return presetOrder[(i+1)%len(presetOrder)].bounds
		}
	}
	return Unbounded
}

// ParseBounds resolves a preset name such as "non-negative" or
// "verticalNonNegative". The empty string resolves to Unbounded.
func ParseBounds(name string) (Bounds, error) {
	key := normalizeName(name)
	if key == "" {
		return Unbounded, nil
	}
	for _, p := range presetOrder {
		if normalizeName(p.name) == key {
			return p.bounds, nil
		}
	}
	return Bounds{}, fmt.Errorf("unknown bounds preset %q", name)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
