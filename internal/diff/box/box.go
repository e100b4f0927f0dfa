package box

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/exp/constraints"
)

const (
	DefaultThreshold        = 0.05
	DefaultMinBoxArea       = 4
	DefaultMinClusterPixels = 8
)

var ErrDimensionMismatch = errors.New("images must have identical dimensions")

// DimensionMismatchError reports the sizes of two images that cannot be compared.
// It matches ErrDimensionMismatch with errors.Is.
type DimensionMismatchError struct {
	A image.Point
	B image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: %dx%d != %dx%d", ErrDimensionMismatch, e.A.X, e.A.Y, e.B.X, e.B.Y)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	// DiffScore is the mean distance of the member pixels, not of the whole rectangle.
	DiffScore float64 `json:"diffScore"`
	Pixels    int     `json:"pixels"`
}

func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

func (b BoundingBox) Rectangle() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

type Response struct {
	Boxes       []BoundingBox `json:"boxes"`
	ImageWidth  int           `json:"imageWidth"`
	ImageHeight int           `json:"imageHeight"`
}

// Request describes one comparison. Nil parameters fall back to their defaults
// independently of each other.
type Request struct {
	ImageA View
	ImageB View

	Threshold        *float64
	MinBoxArea       *int
	MinClusterPixels *int
}

func NewRequest(a image.Image, b image.Image) *Request {
	return &Request{
		ImageA: NewView(a),
		ImageB: NewView(b),
	}
}

type Parameters struct {
	Threshold        float64
	MinBoxArea       int
	MinClusterPixels int
}

func DefaultParameters() Parameters {
	return Parameters{
		Threshold:        DefaultThreshold,
		MinBoxArea:       DefaultMinBoxArea,
		MinClusterPixels: DefaultMinClusterPixels,
	}
}

func (r *Request) Parameters() Parameters {
	p := DefaultParameters()
	if r.Threshold != nil && !math.IsNaN(*r.Threshold) {
		p.Threshold = clamp(*r.Threshold, 0, 1)
	}
	if r.MinBoxArea != nil {
		p.MinBoxArea = clamp(*r.MinBoxArea, 0, math.MaxInt)
	}
	if r.MinClusterPixels != nil {
		p.MinClusterPixels = clamp(*r.MinClusterPixels, 0, math.MaxInt)
	}
	return p
}

// Calculate returns the merged difference regions of the two images, largest first.
// Differing dimensions are rejected before any pixel is read.
func Calculate(req *Request) (*Response, error) {
	width, height := req.ImageA.Width(), req.ImageA.Height()
	if width != req.ImageB.Width() || height != req.ImageB.Height() {
		return nil, &DimensionMismatchError{
			A: image.Pt(width, height),
			B: image.Pt(req.ImageB.Width(), req.ImageB.Height()),
		}
	}

	boxes := Sort(Merge(Extract(req.ImageA, req.ImageB, req.Parameters())))
	if boxes == nil {
		boxes = []BoundingBox{}
	}

	return &Response{
		Boxes:       boxes,
		ImageWidth:  width,
		ImageHeight: height,
	}, nil
}

func clamp[T constraints.Ordered](v T, lo T, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
