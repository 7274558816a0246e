// Package texture rasterizes the sprites used by the effects: soap bubbles
// with thin-film coloring, the shimmer overlay, and plain dots for burst
// particles.
//
// Synthesis never fails hard. Invalid input or a rasterizer panic yields a
// 1×1 transparent image and a log line.
package texture

import (
	"image"
	"log"
	"math"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/theme"
)

// MaxSize bounds the edge length of any synthesized texture.
const MaxSize = 1024

// thin-film interference stops
var (
	filmRed    = hexRGB(0xFF5A5A)
	filmOrange = hexRGB(0xFFA04A)
	filmYellow = hexRGB(0xFFE66A)
	filmGreen  = hexRGB(0x7DFF8A)
	filmCyan   = hexRGB(0x6AF0FF)
	filmBlue   = hexRGB(0x6A8CFF)
	filmPurple = hexRGB(0xB07AFF)
	filmPink   = hexRGB(0xFF8AD8)

	paleBlue   = hexRGB(0xD6ECFF)
	paleYellow = hexRGB(0xFFF6D0)
	palePurple = hexRGB(0xEBDDFF)
	white      = rgba{R: 1, G: 1, B: 1, A: 1}
	black      = rgba{A: 1}
)

// gradientStop is one color stop; stops are spaced evenly over the band.
type gradientStop struct {
	color rgba
	alpha float64 // fraction of the base alpha
}

// filmBand is one radial gradient drawn between r0·R and r1·R.
type filmBand struct {
	r0, r1 float64
	stops  []gradientStop
}

// bands are drawn innermost first.
var filmBands = []filmBand{
	{0, 0.45, []gradientStop{{filmRed, 0.8}, {filmOrange, 0.65}, {filmYellow, 0.5}, {filmGreen, 0.35}}},
	{0.35, 0.75, []gradientStop{{filmCyan, 0.5}, {filmBlue, 0.4}, {filmPurple, 0.3}}},
	{0.65, 1.0, []gradientStop{{filmPurple, 0.4}, {filmPink, 0.3}, {filmPink, 0}}},
}

// Options are the tunables of bubble synthesis.
type Options struct {
	BaseAlpha            float64 // film alpha on normal surfaces
	LowContrastBaseAlpha float64 // film alpha on dark surfaces
	CenterJitter         float64 // gradient center jitter as a fraction of R
	RimAlphaLight        float64
	RimAlphaDark         float64
	HighlightAlphaLight  float64
	HighlightAlphaDark   float64
	ShadowAlpha          float64
	ShadowBlur           int
}

// DefaultOptions returns the stock look.
func DefaultOptions() Options {
	return Options{
		BaseAlpha:            0.35,
		LowContrastBaseAlpha: 0.25,
		CenterJitter:         0.1,
		RimAlphaLight:        0.5,
		RimAlphaDark:         0.4,
		HighlightAlphaLight:  0.5,
		HighlightAlphaDark:   0.4,
		ShadowAlpha:          0.15,
		ShadowBlur:           2,
	}
}

// Synthesizer builds textures. Its only state is the random source used
// for gradient jitter.
type Synthesizer struct {
	rng  particle.Rand
	opts Options
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(rng particle.Rand, opts Options) *Synthesizer {
	return &Synthesizer{rng: rng, opts: opts}
}

// Bubble rasterizes a soap bubble of the given edge length. The rim is drawn
// at the complementary hue of c; lowContrast selects the dark-surface look.
func (s *Synthesizer) Bubble(size int, c theme.BaseColor, lowContrast bool) (img *image.RGBA) {
	if !validSize(size) {
		log.Printf("[TextureSynthesizer] invalid bubble size %d, using transparent texture", size)
		return transparentImage()
	}
	defer recoverTransparent("bubble", &img)

	S := float64(size)
	R := S / 2
	cv := newCanvas(size, size)
	clip := circleMask(size, size, R, R, R-0.5)

	baseAlpha := s.opts.BaseAlpha
	if lowContrast {
		baseAlpha = s.opts.LowContrastBaseAlpha
	}

	// 1. 薄膜干涉渐变，由内向外
	for _, band := range filmBands {
		cx := R + s.jitter(R)
		cy := R + s.jitter(R)
		cv.paint(clip, nil, radialShader(cx, cy, band.r0*R, band.r1*R, band.stops, baseAlpha))
	}

	// 2. 浅色背景上的柔和投影
	if !lowContrast {
		shadow := boxBlur(ringMask(size, size, R, R+1, R-1, 1), s.opts.ShadowBlur/2)
		cv.paint(shadow, clip, solid(black.withAlpha(s.opts.ShadowAlpha)))
	}

	// 3. 互补色边框
	rimWidth := 1.0
	if size >= 30 {
		rimWidth = 1.2
	}
	rimAlpha := s.opts.RimAlphaLight
	if lowContrast {
		rimAlpha = s.opts.RimAlphaDark
	}
	rim := rimColor(c).withAlpha(rimAlpha)
	cv.paint(ringMask(size, size, R, R, R-0.5-rimWidth/2, rimWidth), nil, solid(rim))

	// 4. 高光
	hlAlpha := s.opts.HighlightAlphaLight
	if lowContrast {
		hlAlpha = s.opts.HighlightAlphaDark
	}
	cv.paint(circleMask(size, size, 0.35*S, 0.35*S, 0.15*S), clip, solid(white.withAlpha(hlAlpha)))

	return cv.image()
}

// Shimmer rasterizes the moving gloss overlay.
func (s *Synthesizer) Shimmer(size int) (img *image.RGBA) {
	if !validSize(size) {
		log.Printf("[TextureSynthesizer] invalid shimmer size %d, using transparent texture", size)
		return transparentImage()
	}
	defer recoverTransparent("shimmer", &img)

	S := float64(size)
	cv := newCanvas(size, size)
	clip := circleMask(size, size, S/2, S/2, S/2)

	horizontal := []rgba{
		paleBlue.withAlpha(0),
		paleBlue.withAlpha(0.35),
		paleYellow.withAlpha(0.45),
		palePurple.withAlpha(0.35),
		palePurple.withAlpha(0),
	}
	cv.paint(clip, nil, func(x, _ float64) (rgba, bool) {
		return sampleStops(horizontal, x/S), true
	})

	vertical := []rgba{white.withAlpha(0.25), white.withAlpha(0.1), white.withAlpha(0)}
	cv.paint(clip, nil, func(_, y float64) (rgba, bool) {
		return sampleStops(vertical, y/S), true
	})

	return cv.image()
}

// Dot rasterizes a white anti-aliased disc, tinted per particle at draw time.
func (s *Synthesizer) Dot(size int) (img *image.RGBA) {
	if !validSize(size) {
		log.Printf("[TextureSynthesizer] invalid dot size %d, using transparent texture", size)
		return transparentImage()
	}
	defer recoverTransparent("dot", &img)

	R := float64(size) / 2
	cv := newCanvas(size, size)
	cv.paint(circleMask(size, size, R, R, R), nil, solid(white))
	return cv.image()
}

func (s *Synthesizer) jitter(R float64) float64 {
	if s.rng == nil || s.opts.CenterJitter <= 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.opts.CenterJitter * R
}

func validSize(size int) bool {
	return size > 0 && size <= MaxSize
}

func recoverTransparent(what string, img **image.RGBA) {
	if r := recover(); r != nil {
		log.Printf("[TextureSynthesizer] %s synthesis failed: %v", what, r)
		*img = transparentImage()
	}
}

// rimColor is c rotated half a turn on the hue wheel.
func rimColor(c theme.BaseColor) rgba {
	c = c.Clamped()
	rgb := c.WithHue(theme.ComplementaryHue(c.Hue)).Colorful()
	return rgba{R: rgb.R, G: rgb.G, B: rgb.B, A: 1}
}

func solid(c rgba) shader {
	return func(_, _ float64) (rgba, bool) { return c, true }
}

// radialShader paints the band [r0, r1] around (cx, cy); pixels outside
// the band are left untouched.
func radialShader(cx, cy, r0, r1 float64, stops []gradientStop, baseAlpha float64) shader {
	colors := make([]rgba, len(stops))
	for i, st := range stops {
		colors[i] = st.color.withAlpha(st.alpha * baseAlpha)
	}
	return func(x, y float64) (rgba, bool) {
		d := math.Hypot(x-cx, y-cy)
		if d < r0 || d > r1 || r1 <= r0 {
			return rgba{}, false
		}
		return sampleStops(colors, (d-r0)/(r1-r0)), true
	}
}

// sampleStops interpolates evenly spaced stops at t ∈ [0,1].
func sampleStops(stops []rgba, t float64) rgba {
	switch len(stops) {
	case 0:
		return rgba{}
	case 1:
		return stops[0]
	}
	t = clamp01(t)
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return lerpRGBA(stops[i], stops[i+1], pos-float64(i))
}
