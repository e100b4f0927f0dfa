// Package imageio decodes images and loads them from HTTP or a storage backend.
package imageio

import (
	"boxdiff/internal/retry"
	"boxdiff/internal/storage"
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// maxImageBytes bounds a single fetched image.
const maxImageBytes = 64 << 20

func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", xerrors.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return nil, xerrors.Errorf("failed to encode png: %w", err)
	}
	return buffer.Bytes(), nil
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &retry.Transport{
			Base:    http.DefaultTransport,
			Policy:  retry.DefaultPolicy(),
			RetryOn: retry.NewDefaultRetryOn(),
		},
	}
}

// Loader resolves image references. http(s) URLs go through Client; anything else
// (s3:// URLs, file paths) is read through Storage.
type Loader struct {
	Client  *http.Client
	Storage storage.Storage
}

func (l *Loader) Load(ctx context.Context, ref string) (image.Image, error) {
	data, err := l.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", ref, err)
	}
	return img, nil
}

func (l *Loader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, xerrors.New("empty image reference")
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.fetchHTTP(ctx, ref)
	}

	if l.Storage == nil {
		return nil, xerrors.Errorf("no storage configured to read %s", ref)
	}
	data, err := l.Storage.Get(ctx, ref)
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", ref, err)
	}
	return data, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to create request: %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, xerrors.Errorf("failed to fetch %s: %s", url, response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxImageBytes+1))
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", url, err)
	}
	if len(data) > maxImageBytes {
		return nil, xerrors.Errorf("image at %s exceeds %d bytes", url, maxImageBytes)
	}
	return data, nil
}

// LoadPair loads both references in parallel. The first failure cancels the other load.
func (l *Loader) LoadPair(ctx context.Context, a string, b string) (image.Image, image.Image, error) {
	var imageA, imageB image.Image

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		img, err := l.Load(ctx, a)
		if err != nil {
			return err
		}
		imageA = img
		return nil
	})
	eg.Go(func() error {
		img, err := l.Load(ctx, b)
		if err != nil {
			return err
		}
		imageB = img
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	return imageA, imageB, nil
}
