package box

import (
	"image"
	"image/color"
	"image/draw"
)

const outlineThickness = 3

var outlineColor = color.RGBA{R: 255, A: 255} // Red color for rectangles

// Annotate returns a zero-origin copy of img with every box outlined just outside its edges.
// Sides that would fall off the image are drawn just inside the box instead.
func Annotate(img image.Image, boxes []BoundingBox) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	src := &image.Uniform{C: outlineColor}
	for _, b := range boxes {
		for thickness := 1; thickness <= outlineThickness; thickness++ {
			strokeRectangle(result, outline(b.Rectangle(), thickness, result.Bounds()), src)
		}
	}

	return result
}

func outline(r image.Rectangle, offset int, bounds image.Rectangle) image.Rectangle {
	side := func(outside, inside, lo, hi int) int {
		if outside < lo || outside >= hi {
			return inside
		}
		return outside
	}
	minX := side(r.Min.X-offset, r.Min.X+offset-1, bounds.Min.X, bounds.Max.X)
	minY := side(r.Min.Y-offset, r.Min.Y+offset-1, bounds.Min.Y, bounds.Max.Y)
	maxX := side(r.Max.X+offset-1, r.Max.X-offset, bounds.Min.X, bounds.Max.X)
	maxY := side(r.Max.Y+offset-1, r.Max.Y-offset, bounds.Min.Y, bounds.Max.Y)
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func strokeRectangle(dst *image.RGBA, r image.Rectangle, src image.Image) {
	edges := [4]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
