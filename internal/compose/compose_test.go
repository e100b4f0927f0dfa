package compose_test

import (
	"boxdiff/internal/compose"
	"boxdiff/internal/diff/box"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func solid(r image.Rectangle, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestMergeHalves(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	got, err := compose.MergeHalves(solid(image.Rect(0, 0, 4, 5), red), solid(image.Rect(10, 10, 14, 15), blue))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rows []color.NRGBA
	for y := 0; y < 5; y++ {
		rows = append(rows, got.NRGBAAt(3, y))
	}
	if diff := cmp.Diff([]color.NRGBA{red, red, blue, blue, blue}, rows); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestMergeHalvesDimensionMismatch(t *testing.T) {
	_, err := compose.MergeHalves(image.NewNRGBA(image.Rect(0, 0, 4, 4)), image.NewNRGBA(image.Rect(0, 0, 4, 5)))
	if !errors.Is(err, box.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
}
