package box

import (
	"image"
	"image/color"
)

// View is a zero-origin, read-only pixel accessor returning non-premultiplied colors.
type View interface {
	Width() int
	Height() int
	NRGBA(x int, y int) (uint8, uint8, uint8, uint8)
}

// NewView adapts a decoded image. Common in-memory layouts are read straight from
// their buffers; anything else goes through color.NRGBAModel.
func NewView(img image.Image) View {
	bounds := img.Bounds()
	switch i := img.(type) {
	case *image.NRGBA:
		return &nrgbaView{img: i, bounds: bounds}
	case *image.RGBA:
		return &rgbaView{img: i, bounds: bounds}
	case *image.YCbCr:
		return &ycbcrView{img: i, bounds: bounds}
	case *image.Gray:
		return &grayView{img: i, bounds: bounds}
	default:
		return &genericView{img: img, bounds: bounds}
	}
}

type nrgbaView struct {
	img    *image.NRGBA
	bounds image.Rectangle
}

func (v *nrgbaView) Width() int  { return v.bounds.Dx() }
func (v *nrgbaView) Height() int { return v.bounds.Dy() }

func (v *nrgbaView) NRGBA(x int, y int) (uint8, uint8, uint8, uint8) {
	offset := v.img.PixOffset(v.bounds.Min.X+x, v.bounds.Min.Y+y)
	pix := v.img.Pix[offset : offset+4 : offset+4]
	return pix[0], pix[1], pix[2], pix[3]
}

type rgbaView struct {
	img    *image.RGBA
	bounds image.Rectangle
}

func (v *rgbaView) Width() int  { return v.bounds.Dx() }
func (v *rgbaView) Height() int { return v.bounds.Dy() }

func (v *rgbaView) NRGBA(x int, y int) (uint8, uint8, uint8, uint8) {
	offset := v.img.PixOffset(v.bounds.Min.X+x, v.bounds.Min.Y+y)
	pix := v.img.Pix[offset : offset+4 : offset+4]
	if pix[3] == 0xff {
		return pix[0], pix[1], pix[2], pix[3]
	}
	// RGBA is alpha-premultiplied.
	c := color.NRGBAModel.Convert(color.RGBA{R: pix[0], G: pix[1], B: pix[2], A: pix[3]}).(color.NRGBA)
	return c.R, c.G, c.B, c.A
}

type ycbcrView struct {
	img    *image.YCbCr
	bounds image.Rectangle
}

func (v *ycbcrView) Width() int  { return v.bounds.Dx() }
func (v *ycbcrView) Height() int { return v.bounds.Dy() }

func (v *ycbcrView) NRGBA(x int, y int) (uint8, uint8, uint8, uint8) {
	px := v.bounds.Min.X + x
	py := v.bounds.Min.Y + y
	yi := v.img.YOffset(px, py)
	ci := v.img.COffset(px, py)
	r, g, b := color.YCbCrToRGB(v.img.Y[yi], v.img.Cb[ci], v.img.Cr[ci])
	return r, g, b, 0xff
}

type grayView struct {
	img    *image.Gray
	bounds image.Rectangle
}

func (v *grayView) Width() int  { return v.bounds.Dx() }
func (v *grayView) Height() int { return v.bounds.Dy() }

func (v *grayView) NRGBA(x int, y int) (uint8, uint8, uint8, uint8) {
	g := v.img.Pix[v.img.PixOffset(v.bounds.Min.X+x, v.bounds.Min.Y+y)]
	return g, g, g, 0xff
}

type genericView struct {
	img    image.Image
	bounds image.Rectangle
}

func (v *genericView) Width() int  { return v.bounds.Dx() }
func (v *genericView) Height() int { return v.bounds.Dy() }

func (v *genericView) NRGBA(x int, y int) (uint8, uint8, uint8, uint8) {
	c := color.NRGBAModel.Convert(v.img.At(v.bounds.Min.X+x, v.bounds.Min.Y+y)).(color.NRGBA)
	return c.R, c.G, c.B, c.A
}
