package box

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type nrgba struct {
	R, G, B, A uint8
}

func readAll(v View) [][]nrgba {
	rows := make([][]nrgba, v.Height())
	for y := range rows {
		rows[y] = make([]nrgba, v.Width())
		for x := range rows[y] {
			r, g, b, a := v.NRGBA(x, y)
			rows[y][x] = nrgba{r, g, b, a}
		}
	}
	return rows
}

func readReference(img image.Image) [][]nrgba {
	bounds := img.Bounds()
	rows := make([][]nrgba, bounds.Dy())
	for y := range rows {
		rows[y] = make([]nrgba, bounds.Dx())
		for x := range rows[y] {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			rows[y][x] = nrgba{c.R, c.G, c.B, c.A}
		}
	}
	return rows
}

func paint(img interface{ Set(int, int, color.Color) }, bounds image.Rectangle) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 31), G: uint8(y * 17), B: uint8(x + y), A: uint8(255 - x*y)})
		}
	}
}

func TestNewView(t *testing.T) {
	tests := []struct {
		name     string
		img      image.Image
		wantType View
	}{
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			func() image.Image {
				img := image.NewNRGBA(image.Rect(0, 0, 7, 5))
				paint(img, img.Bounds())
				return img
			}(),
			&nrgbaView{},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			func() image.Image {
				img := image.NewRGBA(image.Rect(0, 0, 7, 5))
				paint(img, img.Bounds())
				return img
			}(),
			&rgbaView{},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			func() image.Image {
				img := image.NewNRGBA(image.Rect(0, 0, 12, 9))
				paint(img, img.Bounds())
				return img.SubImage(image.Rect(3, 2, 10, 8))
			}(),
			&nrgbaView{},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			func() image.Image {
				img := image.NewYCbCr(image.Rect(0, 0, 8, 6), image.YCbCrSubsampleRatio420)
				for i := range img.Y {
					img.Y[i] = uint8(i * 3)
				}
				for i := range img.Cb {
					img.Cb[i] = uint8(100 + i)
					img.Cr[i] = uint8(200 - i)
				}
				return img
			}(),
			&ycbcrView{},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			func() image.Image {
				img := image.NewGray(image.Rect(-2, -2, 4, 3))
				paint(img, img.Bounds())
				return img
			}(),
			&grayView{},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			func() image.Image {
				img := image.NewPaletted(image.Rect(0, 0, 6, 4), palette.Plan9)
				paint(img, img.Bounds())
				return img
			}(),
			&genericView{},
		},
	}

	for _, tt := range tests {
		name := tt.name
		img := tt.img
		wantType := tt.wantType
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			view := NewView(img)

			if fmt.Sprintf("%T", view) != fmt.Sprintf("%T", wantType) {
				t.Errorf("expected %T, got %T", wantType, view)
			}
			if view.Width() != img.Bounds().Dx() || view.Height() != img.Bounds().Dy() {
				t.Errorf("expected %dx%d, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), view.Width(), view.Height())
			}
			if diff := cmp.Diff(readReference(img), readAll(view)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}
