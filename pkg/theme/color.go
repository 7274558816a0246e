// Package theme derives every color an effect shows from one base color.
//
// All colors are handled in hue/saturation/brightness space with hue as a
// fraction of a full turn. Conversions to RGB go through go-colorful.
package theme

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/bubblefx/pkg/utils"
)

// BaseColor is an HSB color. Hue is in [0,1), the rest in [0,1].
type BaseColor struct {
	Hue        float64 `yaml:"hue"`
	Saturation float64 `yaml:"saturation"`
	Brightness float64 `yaml:"brightness"`
	Alpha      float64 `yaml:"alpha"`
}

// HSB builds an opaque BaseColor.
func HSB(h, s, b float64) BaseColor {
	return BaseColor{Hue: h, Saturation: s, Brightness: b, Alpha: 1}
}

// FromRGB255 converts 8-bit RGB into an opaque BaseColor.
func FromRGB255(r, g, b uint8) BaseColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := c.Hsv()
	return BaseColor{Hue: utils.WrapUnit(h / 360), Saturation: s, Brightness: v, Alpha: 1}
}

// Valid reports whether every component is finite and inside its range.
func (c BaseColor) Valid() bool {
	for _, v := range [...]float64{c.Hue, c.Saturation, c.Brightness, c.Alpha} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return false
		}
	}
	return c.Hue < 1
}

// hasHue reports whether a hue can be extracted: the color is valid and
// neither gray nor black.
func (c BaseColor) hasHue() bool {
	return c.Valid() && c.Saturation > 0 && c.Brightness > 0
}

// Clamped returns c with hue wrapped and the other components clamped.
func (c BaseColor) Clamped() BaseColor {
	return BaseColor{
		Hue:        utils.WrapUnit(nanToZero(c.Hue)),
		Saturation: utils.Clamp01(c.Saturation),
		Brightness: utils.Clamp01(c.Brightness),
		Alpha:      utils.Clamp01(c.Alpha),
	}
}

// Colorful returns the RGB equivalent (alpha dropped).
func (c BaseColor) Colorful() colorful.Color {
	c = c.Clamped()
	return colorful.Hsv(c.Hue*360, c.Saturation, c.Brightness).Clamped()
}

// NRGBA returns the non-premultiplied 8-bit color.
func (c BaseColor) NRGBA() color.NRGBA {
	r, g, b := c.Colorful().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(utils.Clamp01(c.Alpha) * 255))}
}

// WithHue returns a copy with the hue replaced (wrapped into [0,1)).
func (c BaseColor) WithHue(h float64) BaseColor {
	c.Hue = utils.WrapUnit(h)
	return c
}

func (c BaseColor) String() string {
	return fmt.Sprintf("hsb(%.3f, %.3f, %.3f, a=%.2f)", c.Hue, c.Saturation, c.Brightness, c.Alpha)
}

// ComplementaryHue rotates a hue by exactly half a turn.
func ComplementaryHue(h float64) float64 {
	return math.Mod(h+0.5, 1.0)
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ColorProvider supplies the current theme color. It is read once per
// trigger and never cached by the engine.
type ColorProvider interface {
	CurrentBaseColor() BaseColor
}

// ProviderFunc adapts a function to ColorProvider.
type ProviderFunc func() BaseColor

// CurrentBaseColor calls f.
func (f ProviderFunc) CurrentBaseColor() BaseColor { return f() }

// StaticProvider always returns the same color.
type StaticProvider BaseColor

// CurrentBaseColor returns the stored color.
func (p StaticProvider) CurrentBaseColor() BaseColor { return BaseColor(p) }
