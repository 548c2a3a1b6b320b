//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

func main() {
	const w, h = 22, 22
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	// Horizontal capsule: two half-circles joined by a rect.
	const (
		cy     = 11.0
		radius = 4.0
		left   = 6.0
		right  = 16.0
	)
	inside := func(x, y float64) bool {
		if x >= left && x <= right {
			return math.Abs(y-cy) <= radius
		}
		dx := x - left
		if x > right {
			dx = x - right
		}
		dy := y - cy
		return dx*dx+dy*dy <= radius*radius
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5
			if inside(fx, fy) {
				img.Set(x, y, color.RGBA{122, 162, 247, 255})
			}
		}
	}

	f, err := os.Create("tray.png")
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}
