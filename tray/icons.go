//go:build darwin

package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Menu bar icons are a keycap outline. The idle pair is a template image
// (macOS tints it); active fills the cap and warning puts a "!" inside it.
var (
	iconIdle     []byte
	iconIdleHi   []byte
	iconActiveHi []byte
	iconWarnHi   []byte
)

var (
	black = color.RGBA{A: 255}
	amber = color.RGBA{R: 255, G: 159, B: 10, A: 255}
)

func init() {
	iconIdle = keycap(22, black, false, false)
	iconIdleHi = keycap(44, black, false, false)
	iconActiveHi = keycap(44, amber, true, false)
	iconWarnHi = keycap(44, amber, false, true)
}

// keycap draws a rounded square of side size*0.7 centred in a size x size
// canvas. The stroke scales with size.
func keycap(size int, c color.RGBA, filled, warn bool) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	margin := size * 15 / 100
	lo, hi := margin, size-margin
	stroke := max(size/11, 1)
	radius := size / 6

	inside := func(x, y, inset int) bool {
		l, h, r := lo+inset, hi-inset, radius-inset
		if x < l || x >= h || y < l || y >= h {
			return false
		}
		// Cut the corners to a radius-r quarter circle.
		cx, cy := x, y
		switch {
		case x < l+r:
			cx = l + r
		case x >= h-r:
			cx = h - r - 1
		}
		switch {
		case y < l+r:
			cy = l + r
		case y >= h-r:
			cy = h - r - 1
		}
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= r*r
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if inside(x, y, 0) && (filled || !inside(x, y, stroke)) {
				img.SetRGBA(x, y, c)
			}
		}
	}
	if warn {
		// "!" inside the cap: a bar and a dot on the centre column.
		mid := size / 2
		for y := lo + 2*stroke; y < hi-2*stroke; y++ {
			if y >= hi-4*stroke && y < hi-3*stroke {
				continue
			}
			for x := mid - stroke/2; x <= mid+stroke/2; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}
