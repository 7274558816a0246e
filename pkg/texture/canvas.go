package texture

import (
	"image"
	"image/color"
	"math"
)

// rgba is a non-premultiplied color with float channels in [0,1].
type rgba struct {
	R, G, B, A float64
}

func (c rgba) withAlpha(a float64) rgba {
	c.A = a
	return c
}

func lerpRGBA(a, b rgba, t float64) rgba {
	return rgba{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func hexRGB(v uint32) rgba {
	return rgba{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}
}

// shader returns the source color at pixel center (x, y); ok=false paints nothing.
type shader func(x, y float64) (c rgba, ok bool)

// canvas accumulates premultiplied float pixels so several layers can be
// composited without 8-bit rounding between them.
type canvas struct {
	w, h int
	pix  []float64 // premultiplied r,g,b,a per pixel
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, pix: make([]float64, w*h*4)}
}

// paint composites shade source-over wherever mask (and clip, if non-nil) covers.
func (cv *canvas) paint(mask, clip *image.Alpha, shade shader) {
	for y := 0; y < cv.h; y++ {
		for x := 0; x < cv.w; x++ {
			cov := coverage(mask, x, y)
			if clip != nil {
				cov *= coverage(clip, x, y)
			}
			if cov <= 0 {
				continue
			}
			src, ok := shade(float64(x)+0.5, float64(y)+0.5)
			if !ok {
				continue
			}
			a := clamp01(src.A) * cov
			if a <= 0 {
				continue
			}
			i := (y*cv.w + x) * 4
			inv := 1 - a
			cv.pix[i+0] = clamp01(src.R)*a + cv.pix[i+0]*inv
			cv.pix[i+1] = clamp01(src.G)*a + cv.pix[i+1]*inv
			cv.pix[i+2] = clamp01(src.B)*a + cv.pix[i+2]*inv
			cv.pix[i+3] = a + cv.pix[i+3]*inv
		}
	}
}

// image converts the canvas to a premultiplied 8-bit image.
func (cv *canvas) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cv.w, cv.h))
	for i := 0; i < len(cv.pix); i += 4 {
		img.Pix[i+0] = to8(cv.pix[i+0])
		img.Pix[i+1] = to8(cv.pix[i+1])
		img.Pix[i+2] = to8(cv.pix[i+2])
		img.Pix[i+3] = to8(cv.pix[i+3])
	}
	return img
}

func coverage(m *image.Alpha, x, y int) float64 {
	if m == nil {
		return 1
	}
	return float64(m.AlphaAt(x, y).A) / 255
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// transparentImage is the degraded result of a failed synthesis.
func transparentImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{})
	return img
}
