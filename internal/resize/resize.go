package resize

import (
	"boxdiff/internal/imageio"
	"boxdiff/internal/storage"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/xerrors"
)

const (
	DefaultMaxDimension = 128
	MaxDimension        = 4096

	maxSourceURLMetadata = 1024
)

type Request struct {
	ImageURLs []string `json:"imageUrls"`
	MaxWidth  *int     `json:"maxWidth,omitempty"`
	MaxHeight *int     `json:"maxHeight,omitempty"`
	Force     bool     `json:"force,omitempty"`
}

type Item struct {
	SourceURL      string `json:"sourceUrl"`
	ResizedURL     string `json:"resizedUrl"`
	ObjectKey      string `json:"objectKey"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	OriginalWidth  int    `json:"originalWidth"`
	OriginalHeight int    `json:"originalHeight"`
	ReusedExisting bool   `json:"reusedExisting"`
}

type ItemError struct {
	SourceURL string `json:"sourceUrl"`
	Error     string `json:"error"`
}

type Params struct {
	MaxWidth  int `json:"maxWidth"`
	MaxHeight int `json:"maxHeight"`
}

type Response struct {
	Items  []Item      `json:"items"`
	Errors []ItemError `json:"errors,omitempty"`
	Params Params      `json:"params"`
}

// Fit scales w x h down into maxW x maxH preserving the aspect ratio. It never upscales
// and never returns a dimension below 1.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	scale := math.Min(math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)), 1)
	return max(1, int(math.Floor(float64(w)*scale))), max(1, int(math.Floor(float64(h)*scale)))
}

// Scale resamples img to w x h with Catmull-Rom.
func Scale(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Key is the deterministic cache key for a source URL at a target size.
func Key(url string, w, h int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%dx%d", url, w, h)))
	return fmt.Sprintf("resized/%s.png", hex.EncodeToString(sum[:])[:40])
}

type Service struct {
	Loader  *imageio.Loader
	Storage storage.Storage
}

func (s *Service) Resize(ctx context.Context, req *Request) *Response {
	params := Params{
		MaxWidth:  clampDimension(req.MaxWidth),
		MaxHeight: clampDimension(req.MaxHeight),
	}

	response := &Response{
		Items:  []Item{},
		Params: params,
	}
	for _, url := range req.ImageURLs {
		if strings.TrimSpace(url) == "" {
			response.Errors = append(response.Errors, ItemError{SourceURL: url, Error: "invalid URL string"})
			continue
		}
		item, err := s.resizeOne(ctx, url, params, req.Force)
		if err != nil {
			response.Errors = append(response.Errors, ItemError{SourceURL: url, Error: err.Error()})
			continue
		}
		response.Items = append(response.Items, *item)
	}
	return response
}

func (s *Service) resizeOne(ctx context.Context, url string, params Params, force bool) (*Item, error) {
	img, err := s.Loader.Load(ctx, url)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := Fit(bounds.Dx(), bounds.Dy(), params.MaxWidth, params.MaxHeight)

	var out image.Image = img
	if w != bounds.Dx() || h != bounds.Dy() {
		out = Scale(img, w, h)
	}
	data, err := imageio.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	opts := []storage.PutOption{
		storage.WithContentType("image/png"),
		storage.WithMetadata(map[string]string{
			"source_url":      truncate(url, maxSourceURLMetadata),
			"original_width":  strconv.Itoa(bounds.Dx()),
			"original_height": strconv.Itoa(bounds.Dy()),
			"target_width":    strconv.Itoa(w),
			"target_height":   strconv.Itoa(h),
		}),
	}

	item := &Item{
		SourceURL:      url,
		Width:          w,
		Height:         h,
		OriginalWidth:  bounds.Dx(),
		OriginalHeight: bounds.Dy(),
	}
	if force {
		item.ObjectKey = fmt.Sprintf("resized/%s-%dx%d.png", uuid.NewString(), w, h)
		item.ResizedURL, err = s.Storage.Put(ctx, item.ObjectKey, data, opts...)
	} else {
		item.ObjectKey = Key(url, w, h)
		item.ResizedURL, item.ReusedExisting, err = storage.PutIfAbsent(ctx, s.Storage, item.ObjectKey, data, opts...)
	}
	if err != nil {
		return nil, xerrors.Errorf("failed to store resized image: %w", err)
	}
	return item, nil
}

func clampDimension(v *int) int {
	if v == nil {
		return DefaultMaxDimension
	}
	return min(max(*v, 1), MaxDimension)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
