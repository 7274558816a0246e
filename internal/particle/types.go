// Package particle provides the declarative emission specs and the curve
// primitives shared by the burst layers and the stream bubbles.
//
// A LayerSpec is immutable once built. Runtime state lives in
// pkg/components; this package has no ECS or rendering dependency.
package particle

import (
	"errors"
	"fmt"
	"math"
)

// BlendMode selects how a layer's particles are composited.
type BlendMode int

const (
	// BlendAlpha blends particles by transparency (source-over).
	BlendAlpha BlendMode = iota
	// BlendAdditive adds particle color onto the destination; overlaps brighten.
	BlendAdditive
)

// String returns the configuration name of the blend mode.
func (b BlendMode) String() string {
	switch b {
	case BlendAdditive:
		return "additive"
	default:
		return "alpha"
	}
}

// ParseBlendMode converts "additive" / "alpha" into a BlendMode.
func ParseBlendMode(s string) (BlendMode, error) {
	switch s {
	case "additive", "add":
		return BlendAdditive, nil
	case "alpha", "":
		return BlendAlpha, nil
	default:
		return BlendAlpha, fmt.Errorf("unknown blend mode %q", s)
	}
}

// ColorVariant selects which palette a layer derives its colors from.
type ColorVariant int

const (
	// ColorBase uses the palette built from the base color itself.
	ColorBase ColorVariant = iota
	// ColorBright uses the palette built from the bright variant of the base color.
	ColorBright
)

// String returns the configuration name of the variant.
func (c ColorVariant) String() string {
	if c == ColorBright {
		return "bright"
	}
	return "base"
}

// ParseColorVariant converts "base" / "bright" into a ColorVariant.
func ParseColorVariant(s string) (ColorVariant, error) {
	switch s {
	case "bright":
		return ColorBright, nil
	case "base", "":
		return ColorBase, nil
	default:
		return ColorBase, fmt.Errorf("unknown color variant %q", s)
	}
}

// LayerSpec is the immutable emission configuration of one visual role
// (main, secondary, highlight, fragment).
//
// Ranges follow the SpriteKit convention: a value V with range R is sampled
// as V + (u-0.5)*R with u uniform in [0,1). Angles are in radians, rates
// are per second.
type LayerSpec struct {
	Name string

	// Timing (seconds, relative to the trigger)
	Delay       float64
	RemoveAfter float64 // layer self-removes this long after activation

	// Emission
	Count              int
	Lifetime           float64
	Speed              float64
	SpeedRange         float64
	EmissionAngle      float64
	EmissionAngleRange float64
	AccelY             float64

	// Visual curves
	Alpha         float64
	AlphaRange    float64
	AlphaSpeed    float64
	Scale         float64
	ScaleRange    float64
	ScaleSpeed    float64
	Rotation      float64
	RotationRange float64
	RotationSpeed float64

	Blend      BlendMode
	SpriteSize int
	Color      ColorVariant
}

// ErrInvalidLayer is wrapped by LayerSpec.Validate failures.
var ErrInvalidLayer = errors.New("invalid layer spec")

// Validate reports the first inconsistency in the spec.
func (s LayerSpec) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidLayer)
	case s.Count <= 0:
		return fmt.Errorf("%w: %s: count must be > 0, got %d", ErrInvalidLayer, s.Name, s.Count)
	case s.Lifetime <= 0 || math.IsNaN(s.Lifetime):
		return fmt.Errorf("%w: %s: lifetime must be > 0, got %v", ErrInvalidLayer, s.Name, s.Lifetime)
	case s.Delay < 0:
		return fmt.Errorf("%w: %s: delay must be >= 0, got %v", ErrInvalidLayer, s.Name, s.Delay)
	case s.RemoveAfter < s.Lifetime:
		return fmt.Errorf("%w: %s: remove_after %v shorter than lifetime %v", ErrInvalidLayer, s.Name, s.RemoveAfter, s.Lifetime)
	case s.SpriteSize <= 0:
		return fmt.Errorf("%w: %s: sprite size must be > 0, got %d", ErrInvalidLayer, s.Name, s.SpriteSize)
	case s.SpeedRange < 0 || s.AlphaRange < 0 || s.ScaleRange < 0 || s.RotationRange < 0 || s.EmissionAngleRange < 0:
		return fmt.Errorf("%w: %s: ranges must be >= 0", ErrInvalidLayer, s.Name)
	}
	return nil
}

// End returns the time, relative to the trigger, at which the layer is gone.
func (s LayerSpec) End() float64 {
	return s.Delay + s.RemoveAfter
}
