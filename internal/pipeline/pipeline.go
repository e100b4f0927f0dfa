// Package pipeline acquires two images, diffs them and stores the artifacts.
package pipeline

import (
	"boxdiff/internal/capture"
	"boxdiff/internal/diff/box"
	"boxdiff/internal/imageio"
	"boxdiff/internal/storage"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// Source is one side of a diff. Ref is an image reference, or a page URL when Capture is set.
type Source struct {
	Ref     string
	Capture bool
}

type Input struct {
	Baseline       Source
	Target         Source
	CaptureOptions capture.Options

	Threshold        *float64
	MinBoxArea       *int
	MinClusterPixels *int

	// Annotate stores the target image with every box outlined
	Annotate bool
}

type Result struct {
	box.Response
	BaselineURL  string `json:"baselineUrl"`
	TargetURL    string `json:"targetUrl"`
	AnnotatedURL string `json:"annotatedUrl,omitempty"`
}

type Pipeline struct {
	Capturer capture.Capturer
	Loader   *imageio.Loader
	Storage  storage.Storage
	// Prefix namespaces every stored key, e.g. BoxDiff or ScheduledBoxDiff
	Prefix string
	// Capture file extension, png unless the capturer is configured for jpeg
	CaptureExtension string
}

type acquired struct {
	image image.Image
	url   string
}

// Run acquires both sides in parallel, then computes and optionally annotates the diff.
// A dimension mismatch is returned as *box.DimensionMismatchError.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	var baseline, target *acquired
	{
		eg, ctx := errgroup.WithContext(ctx)

		eg.Go(func() error {
			a, err := p.acquire(ctx, in.Baseline, in.CaptureOptions)
			if err != nil {
				return xerrors.Errorf("failed to acquire baseline: %w", err)
			}
			baseline = a
			return nil
		})

		eg.Go(func() error {
			a, err := p.acquire(ctx, in.Target, in.CaptureOptions)
			if err != nil {
				return xerrors.Errorf("failed to acquire target: %w", err)
			}
			target = a
			return nil
		})

		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	request := box.NewRequest(baseline.image, target.image)
	request.Threshold = in.Threshold
	request.MinBoxArea = in.MinBoxArea
	request.MinClusterPixels = in.MinClusterPixels

	response, err := box.Calculate(request)
	if err != nil {
		return nil, xerrors.Errorf("failed to calculate diff: %w", err)
	}

	result := &Result{
		Response:    *response,
		BaselineURL: baseline.url,
		TargetURL:   target.url,
	}

	if in.Annotate {
		url, err := p.StoreAnnotation(ctx, in.Baseline.Ref+in.Target.Ref, target.image, response.Boxes)
		if err != nil {
			return nil, err
		}
		result.AnnotatedURL = url
	}

	return result, nil
}

// StoreAnnotation draws boxes onto img and stores it as PNG under the diff prefix.
func (p *Pipeline) StoreAnnotation(ctx context.Context, seed string, img image.Image, boxes []box.BoundingBox) (string, error) {
	data, err := imageio.EncodePNG(box.Annotate(img, boxes))
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/diff/%s/%s.png", p.prefix(), hash(seed), objectName())
	url, err := p.Storage.Put(ctx, key, data, storage.WithContentType("image/png"))
	if err != nil {
		return "", xerrors.Errorf("failed to upload annotated image: %w", err)
	}
	return url, nil
}

// Acquire loads or captures a single source and returns its storage URL with the decoded image.
func (p *Pipeline) Acquire(ctx context.Context, source Source, opts capture.Options) (string, image.Image, error) {
	a, err := p.acquire(ctx, source, opts)
	if err != nil {
		return "", nil, err
	}
	return a.url, a.image, nil
}

func (p *Pipeline) acquire(ctx context.Context, source Source, opts capture.Options) (*acquired, error) {
	if !source.Capture {
		img, err := p.Loader.Load(ctx, source.Ref)
		if err != nil {
			return nil, err
		}
		return &acquired{image: img, url: source.Ref}, nil
	}

	if p.Capturer == nil {
		return nil, xerrors.New("page capture is not configured")
	}
	screenshot, err := p.Capturer.Capture(ctx, source.Ref, opts)
	if err != nil {
		return nil, xerrors.Errorf("failed to capture %s: %w", source.Ref, err)
	}
	img, _, err := imageio.Decode(screenshot)
	if err != nil {
		return nil, err
	}

	extension := p.CaptureExtension
	if extension == "" {
		extension = "png"
	}
	key := fmt.Sprintf("%s/capture/%s/%s.%s", p.prefix(), hash(source.Ref), objectName(), extension)
	url, err := p.Storage.Put(ctx, key, screenshot, storage.WithContentType("image/"+extension))
	if err != nil {
		return nil, xerrors.Errorf("failed to upload screenshot: %w", err)
	}
	return &acquired{image: img, url: url}, nil
}

func (p *Pipeline) prefix() string {
	if p.Prefix == "" {
		return "BoxDiff"
	}
	return p.Prefix
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}

// objectName sorts by creation time and stays unique within the same second.
func objectName() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

// BindFlags registers the diff parameter flags. Parameters stay nil unless given.
func (in *Input) BindFlags(fs *flag.FlagSet) {
	fs.Func("threshold", "Minimum normalized color distance for a pixel to count as changed (0..1)", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		in.Threshold = &v
		return nil
	})
	fs.Func("min-box-area", "Boxes with a smaller area are dropped", intFlag(&in.MinBoxArea))
	fs.Func("min-cluster-pixels", "Clusters with fewer changed pixels are dropped", intFlag(&in.MinClusterPixels))
}

func intFlag(dst **int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}
