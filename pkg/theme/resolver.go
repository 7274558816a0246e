package theme

import (
	"log"
	"math"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/utils"
)

// Weights is the share of base, accent and complementary colors in a palette.
type Weights struct {
	Base          float64 `yaml:"base"`
	Accent        float64 `yaml:"accent"`
	Complementary float64 `yaml:"complementary"`
}

// DefaultWeights is the 60/30/10 split.
var DefaultWeights = Weights{Base: 0.6, Accent: 0.3, Complementary: 0.1}

func (w Weights) total() float64 {
	return w.Base + w.Accent + w.Complementary
}

// PaletteSize is the number of entries in a time-keyed palette.
const PaletteSize = 10

// accent hue offsets in degrees and their saturation/brightness factors
var accentShifts = [3]struct {
	degrees, sat, bri float64
}{
	{15, 0.9, 1.0},
	{-15, 0.95, 1.0},
	{25, 0.85, 1.05},
}

// 提取失败时的固定配色
var (
	fallbackAccents = [3]BaseColor{
		FromRGB255(255, 120, 100),
		FromRGB255(255, 100, 130),
		FromRGB255(240, 90, 120),
	}
	fallbackComplementary = FromRGB255(92, 247, 255)
)

// Resolver derives accent, complementary and randomized colors.
// It holds no state besides its random source.
type Resolver struct {
	rng     particle.Rand
	weights Weights
}

// NewResolver creates a resolver. Zero or negative weights fall back to DefaultWeights.
func NewResolver(rng particle.Rand, weights Weights) *Resolver {
	if weights.Base < 0 || weights.Accent < 0 || weights.Complementary < 0 || weights.total() <= 0 {
		weights = DefaultWeights
	}
	return &Resolver{rng: rng, weights: weights}
}

// Weights returns the palette weights in use.
func (r *Resolver) Weights() Weights {
	return r.weights
}

// AccentColors returns the three hue neighbours of base (+15°, −15°, +25°).
func (r *Resolver) AccentColors(base BaseColor) [3]BaseColor {
	if !base.hasHue() {
		log.Printf("[ColorThemeResolver] no hue in %v, using fallback accents", base)
		return fallbackAccents
	}

	var out [3]BaseColor
	for i, shift := range accentShifts {
		out[i] = BaseColor{
			Hue:        utils.WrapUnit(base.Hue + shift.degrees/360),
			Saturation: utils.Clamp01(base.Saturation * shift.sat),
			Brightness: utils.Clamp01(base.Brightness * shift.bri),
			Alpha:      base.Alpha,
		}
	}
	return out
}

// ComplementaryColor returns the color opposite base on the hue wheel.
func (r *Resolver) ComplementaryColor(base BaseColor) BaseColor {
	if !base.hasHue() {
		log.Printf("[ColorThemeResolver] no hue in %v, using fallback complementary", base)
		return fallbackComplementary
	}
	return BaseColor{
		Hue:        ComplementaryHue(base.Hue),
		Saturation: math.Min(base.Saturation*0.8, 0.9),
		Brightness: base.Brightness * 0.9,
		Alpha:      base.Alpha,
	}
}

// Variant randomizes saturation by U(0.6,1.0) and brightness by U(0.7,1.0).
func (r *Resolver) Variant(c BaseColor) BaseColor {
	c = c.Clamped()
	c.Saturation = utils.Clamp01(c.Saturation * particle.RandomInRange(r.rng, 0.6, 1.0))
	c.Brightness = utils.Clamp01(c.Brightness * particle.RandomInRange(r.rng, 0.7, 1.0))
	return c
}

// BrightVariant boosts saturation ×1.1 and brightness ×1.2, capped at 1.
func (r *Resolver) BrightVariant(c BaseColor) BaseColor {
	c = c.Clamped()
	c.Saturation = math.Min(c.Saturation*1.1, 1)
	c.Brightness = math.Min(c.Brightness*1.2, 1)
	return c
}

// Palette builds the time-keyed sequence used across one particle's life:
// base variants first, then variants of randomly chosen accents, then the
// complementary variant.
func (r *Resolver) Palette(base BaseColor) Palette {
	base = r.sanitize(base)
	accents := r.AccentColors(base)
	comp := r.ComplementaryColor(base)

	nBase, nAccent, nComp := r.split(PaletteSize)
	colors := make([]BaseColor, 0, PaletteSize)
	for i := 0; i < nBase; i++ {
		colors = append(colors, r.Variant(base))
	}
	for i := 0; i < nAccent; i++ {
		colors = append(colors, r.Variant(accents[r.rng.Intn(len(accents))]))
	}
	for i := 0; i < nComp; i++ {
		colors = append(colors, r.Variant(comp))
	}
	return NewPalette(colors)
}

// PickWeighted draws one randomized color with the configured weights.
func (r *Resolver) PickWeighted(base BaseColor) BaseColor {
	base = r.sanitize(base)
	u := r.rng.Float64() * r.weights.total()
	switch {
	case u < r.weights.Base:
		return r.Variant(base)
	case u < r.weights.Base+r.weights.Accent:
		accents := r.AccentColors(base)
		return r.Variant(accents[r.rng.Intn(len(accents))])
	default:
		return r.Variant(r.ComplementaryColor(base))
	}
}

// sanitize keeps an invalid base usable for variants. Accent and
// complementary extraction still see it as hue-less and fall back.
func (r *Resolver) sanitize(base BaseColor) BaseColor {
	if base.Valid() {
		return base
	}
	c := base.Clamped()
	c.Saturation = 0
	if c.Alpha == 0 {
		c.Alpha = 1
	}
	return c
}

// split distributes n palette slots by weight, largest share to base.
func (r *Resolver) split(n int) (nBase, nAccent, nComp int) {
	total := r.weights.total()
	nAccent = int(math.Round(float64(n) * r.weights.Accent / total))
	nComp = int(math.Round(float64(n) * r.weights.Complementary / total))
	if nAccent+nComp > n {
		nComp = n - nAccent
	}
	nBase = n - nAccent - nComp
	return nBase, nAccent, nComp
}
