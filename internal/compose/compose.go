package compose

import (
	"boxdiff/internal/diff/box"
	"image"
	"image/draw"
)

// MergeHalves takes rows [0, H/2) from top and rows [H/2, H) from bottom.
func MergeHalves(top image.Image, bottom image.Image) (*image.NRGBA, error) {
	tb, bb := top.Bounds(), bottom.Bounds()
	if tb.Dx() != bb.Dx() || tb.Dy() != bb.Dy() {
		return nil, &box.DimensionMismatchError{A: tb.Size(), B: bb.Size()}
	}

	w, h := tb.Dx(), tb.Dy()
	half := h / 2

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, image.Rect(0, 0, w, half), top, tb.Min, draw.Src)
	draw.Draw(out, image.Rect(0, half, w, h), bottom, bb.Min.Add(image.Pt(0, half)), draw.Src)
	return out, nil
}
