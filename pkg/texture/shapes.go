package texture

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa is the cubic Bézier control distance for a quarter circle.
const kappa = 0.5522847498

// addCircle appends a closed circle to z. Reversed circles cut holes
// when combined with a forward one.
func addCircle(z *vector.Rasterizer, cx, cy, r float64, reversed bool) {
	k := r * kappa
	f := func(v float64) float32 { return float32(v) }

	z.MoveTo(f(cx+r), f(cy))
	if !reversed {
		z.CubeTo(f(cx+r), f(cy+k), f(cx+k), f(cy+r), f(cx), f(cy+r))
		z.CubeTo(f(cx-k), f(cy+r), f(cx-r), f(cy+k), f(cx-r), f(cy))
		z.CubeTo(f(cx-r), f(cy-k), f(cx-k), f(cy-r), f(cx), f(cy-r))
		z.CubeTo(f(cx+k), f(cy-r), f(cx+r), f(cy-k), f(cx+r), f(cy))
	} else {
		z.CubeTo(f(cx+r), f(cy-k), f(cx+k), f(cy-r), f(cx), f(cy-r))
		z.CubeTo(f(cx-k), f(cy-r), f(cx-r), f(cy-k), f(cx-r), f(cy))
		z.CubeTo(f(cx-r), f(cy+k), f(cx-k), f(cy+r), f(cx), f(cy+r))
		z.CubeTo(f(cx+k), f(cy+r), f(cx+r), f(cy+k), f(cx+r), f(cy))
	}
	z.ClosePath()
}

// circleMask rasterizes an anti-aliased disc.
func circleMask(w, h int, cx, cy, r float64) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if r <= 0 {
		return mask
	}
	z := vector.NewRasterizer(w, h)
	addCircle(z, cx, cy, r, false)
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// ringMask rasterizes a stroke of the given width centered on radius r.
func ringMask(w, h int, cx, cy, r, width float64) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	outer := r + width/2
	inner := math.Max(r-width/2, 0)
	if outer <= 0 {
		return mask
	}
	z := vector.NewRasterizer(w, h)
	addCircle(z, cx, cy, outer, false)
	if inner > 0 {
		addCircle(z, cx, cy, inner, true)
	}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// boxBlur softens a mask with repeated horizontal and vertical box passes.
// Three passes approximate a gaussian.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return src
	}
	b := src.Bounds()
	cur := image.NewAlpha(b)
	draw.Draw(cur, b, src, b.Min, draw.Src)
	tmp := image.NewAlpha(b)
	for pass := 0; pass < 3; pass++ {
		blurAxis(cur, tmp, radius, true)
		blurAxis(tmp, cur, radius, false)
	}
	return cur
}

func blurAxis(src, dst *image.Alpha, radius int, horizontal bool) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	span := 2*radius + 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx += k
				} else {
					sy += k
				}
				if sx < 0 || sy < 0 || sx >= w || sy >= h {
					continue
				}
				sum += int(src.Pix[sy*src.Stride+sx])
			}
			dst.Pix[y*dst.Stride+x] = uint8(sum / span)
		}
	}
}
