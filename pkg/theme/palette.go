package theme

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/bubblefx/pkg/utils"
)

// PaletteEntry is one color keyed at a normalized time.
type PaletteEntry struct {
	Time  float64
	Color BaseColor
	rgb   colorful.Color
}

// Palette is a time-keyed color sequence. Entries are evenly spaced over [0,1].
type Palette struct {
	entries []PaletteEntry
}

// NewPalette keys colors at i/(n-1).
func NewPalette(colors []BaseColor) Palette {
	entries := make([]PaletteEntry, len(colors))
	for i, c := range colors {
		t := 0.0
		if len(colors) > 1 {
			t = float64(i) / float64(len(colors)-1)
		}
		entries[i] = PaletteEntry{Time: t, Color: c, rgb: c.Colorful()}
	}
	return Palette{entries: entries}
}

// Len returns the number of entries.
func (p Palette) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entries.
func (p Palette) Entries() []PaletteEntry {
	out := make([]PaletteEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// At returns the RGB color and alpha at normalized time t, blending the
// two neighbouring entries. An empty palette is opaque white.
func (p Palette) At(t float64) (colorful.Color, float64) {
	switch len(p.entries) {
	case 0:
		return colorful.Color{R: 1, G: 1, B: 1}, 1
	case 1:
		return p.entries[0].rgb, p.entries[0].Color.Alpha
	}

	t = utils.Clamp01(t)
	last := len(p.entries) - 1
	pos := t * float64(last)
	i := int(pos)
	if i >= last {
		e := p.entries[last]
		return e.rgb, e.Color.Alpha
	}
	frac := pos - float64(i)
	a, b := p.entries[i], p.entries[i+1]
	return a.rgb.BlendRgb(b.rgb, frac).Clamped(), utils.Lerp(a.Color.Alpha, b.Color.Alpha, frac)
}
