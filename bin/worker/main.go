package main

import (
	ssV1 "boxdiff/api/v1"
	"boxdiff/internal/capture"
	"boxdiff/internal/diff/box"
	"boxdiff/internal/env"
	"boxdiff/internal/imageio"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/retry"
	"boxdiff/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/xerrors"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	var screenshotFormat string
	var chromeDevtoolsProtocolURL string
	var storageBackend string
	var callbackURL string
	var captureMode bool
	var maskSelectors string
	var headers capture.Headers
	var input pipeline.Input
	flag.StringVar(&screenshotFormat, "screenshot-format", env.OrDefault("SCREENSHOT_FORMAT", "png"), "Screenshot format (png or jpeg)")
	flag.StringVar(&chromeDevtoolsProtocolURL, "chrome-devtools-protocol-url", env.OrDefault("CHROME_DEVTOOLS_PROTOCOL_URL", ""), "Connect to existing browser via Chrome DevTools Protocol URL (e.g., http://localhost:9222)")
	flag.StringVar(&storageBackend, "storage-backend", env.OrDefault("STORAGE_BACKEND", "file"), "Where captures and annotations are stored (file or s3)")
	flag.StringVar(&callbackURL, "callback-url", env.OrDefault("CALLBACK_URL", ""), "PATCH the result to this URL instead of printing it")
	flag.BoolVar(&captureMode, "capture", env.OrDefault("CAPTURE", false), "Treat baseline and target as page URLs to capture")
	flag.StringVar(&maskSelectors, "mask-selectors", env.OrDefault("MASK_SELECTORS", ""), "Comma-separated list of CSS selectors to mask during capture")
	flag.Var(&headers, "H", "Add HTTP header to captured page requests (can be used multiple times)")
	input.BindFlags(flag.CommandLine)
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf("usage: worker [flags] <baseline> <target>")
	}

	ctx := context.Background()

	s, err := storage.New(ctx, storageBackend)
	if err != nil {
		log.Fatalf("failed to create storage backend: %v", err)
	}

	p := &pipeline.Pipeline{
		Loader:  &imageio.Loader{Client: imageio.NewHTTPClient(30 * time.Second), Storage: s},
		Storage: s,
	}

	if captureMode {
		config := capture.DefaultPlaywrightConfig()
		if screenshotFormat != "" {
			config.Format = screenshotFormat
		}
		if chromeDevtoolsProtocolURL != "" {
			config.ChromeDevtoolsProtocolURL = chromeDevtoolsProtocolURL
		} else if err := playwright.Install(&playwright.RunOptions{
			Browsers: []string{"chromium"},
		}); err != nil {
			log.Fatalf("failed to install playwright browsers: %v", err)
		}

		capturer, err := capture.NewPlaywrightCapturer(ctx, config)
		if err != nil {
			log.Fatalf("failed to initialize capturer: %v", err)
		}
		p.Capturer = capturer
		p.CaptureExtension = config.Extension()
	}

	input.Baseline = pipeline.Source{Ref: args[0], Capture: captureMode}
	input.Target = pipeline.Source{Ref: args[1], Capture: captureMode}
	input.CaptureOptions = capture.Options{
		MaskSelectors: capture.SplitSelectors(maskSelectors),
		Headers:       headers.Map(),
	}
	input.Annotate = true

	var body any
	result, err := p.Run(ctx, input)
	if err != nil {
		var mismatch *box.DimensionMismatchError
		if !errors.As(err, &mismatch) || callbackURL == "" {
			log.Fatalf("failed to process boxdiff: %v", err)
		}
		// a mismatch is final, so it is reported instead of retried
		body = ssV1.DiffResult{Message: mismatch.Error()}
	} else {
		body = result
	}

	j, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal result: %v", err)
	}

	if callbackURL == "" {
		fmt.Println(string(j))
		return
	}
	if err := callback(ctx, callbackURL, j); err != nil {
		log.Fatalf("failed to send callback: %v", err)
	}
}

func callback(ctx context.Context, callbackURL string, data []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPatch, callbackURL, bytes.NewReader(data))
	if err != nil {
		return xerrors.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &retry.Transport{
			Base: http.DefaultTransport,
			Policy: &retry.Policy{
				Base:       10 * time.Millisecond,
				Max:        1 * time.Second,
				MaxRetries: 3,
			},
			RetryOn: retry.NewDefaultRetryOn(),
			Notify: func(err error, wait time.Duration) {
				log.Printf("retrying callback in %s: %v", wait, err)
			},
		},
	}

	response, err := client.Do(request)
	if err != nil {
		return xerrors.Errorf("failed to send request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode/100 != 2 {
		return xerrors.Errorf("callback returned %s", response.Status)
	}
	return nil
}
