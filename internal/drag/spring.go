package drag

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Release spring constants.
const (
	DefaultStiffness = 200
	DefaultDamping   = 35
)

// settleEpsilon is the progress and velocity below which a settle snaps to
// its target.
const settleEpsilon = 1e-3

// maxSettle caps Duration for springs that never come to rest.
const maxSettle = 10 * time.Second

// Spring describes a damped harmonic oscillator driving normalized progress
// from 0 to 1.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// DefaultSpring returns the release spring: stiffness 200, damping 35, unit mass.
func DefaultSpring() Spring {
	return Spring{Stiffness: DefaultStiffness, Damping: DefaultDamping, Mass: 1}
}

func (s Spring) mass() float64 {
	if s.Mass <= 0 {
		return 1
	}
	return s.Mass
}

func (s Spring) angularFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.mass())
}

func (s Spring) dampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.mass()))
}

// Progress evaluates the spring elapsed after release. velocity is the
// initial velocity in progress units per second. The returned position and
// velocity are in the same units.
func (s Spring) Progress(elapsed time.Duration, velocity float64) (pos, vel float64) {
	if elapsed <= 0 {
		return 0, velocity
	}
	sp := harmonica.NewSpring(elapsed.Seconds(), s.angularFrequency(), s.dampingRatio())
	return sp.Update(0, velocity, 1)
}

// Settled reports whether a spring at pos/vel is close enough to rest.
func Settled(pos, vel float64) bool {
	return math.Abs(1-pos) < settleEpsilon && math.Abs(vel) < settleEpsilon
}

// Duration returns the time until the spring settles, sampled at 120 Hz.
func (s Spring) Duration(velocity float64) time.Duration {
	step := time.Second / 120
	for t := step; t < maxSettle; t += step {
		if Settled(s.Progress(t, velocity)) {
			return t
		}
	}
	return maxSettle
}
