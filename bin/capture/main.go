package main

import (
	"boxdiff/internal/capture"
	"boxdiff/internal/env"
	"boxdiff/internal/imageio"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/storage"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

type CaptureOutput struct {
	ScreenshotPath string `json:"screenshotPath"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	var directory string
	var format string
	var maskSelectors string
	var delay time.Duration
	var viewportWidth int
	var viewportHeight int
	var userAgent string
	var chromeDevtoolsProtocolURL string
	var headers capture.Headers
	flag.StringVar(&directory, "directory", env.OrDefault("DIRECTORY", "/tmp"), "Output directory")
	flag.StringVar(&format, "format", env.OrDefault("FORMAT", "png"), "Output format (png or jpeg)")
	flag.StringVar(&maskSelectors, "mask-selectors", env.OrDefault("MASK_SELECTORS", ""), "Comma-separated list of CSS selectors to mask during capture")
	flag.DurationVar(&delay, "delay", env.OrDefault("DELAY", 3*time.Second), "Delay before capturing")
	flag.IntVar(&viewportWidth, "viewport-width", env.OrDefault("VIEWPORT_WIDTH", 1920), "Viewport width in pixels")
	flag.IntVar(&viewportHeight, "viewport-height", env.OrDefault("VIEWPORT_HEIGHT", 1080), "Viewport height in pixels")
	flag.StringVar(&userAgent, "user-agent", env.OrDefault("USER_AGENT", ""), "User-Agent string to use for requests")
	flag.StringVar(&chromeDevtoolsProtocolURL, "chrome-devtools-protocol-url", env.OrDefault("CHROME_DEVTOOLS_PROTOCOL_URL", ""), "Connect to existing browser via Chrome DevTools Protocol URL (e.g., http://localhost:9222)")
	flag.Var(&headers, "H", "Add HTTP header (can be used multiple times, e.g., -H 'Accept: text/html' -H 'Authorization: Bearer token')")

	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		log.Fatalf("url not specified")
	}
	url := args[0]

	ctx := context.Background()

	s, err := storage.NewFileStorage(ctx, storage.FileConfig{
		Directory: directory,
	})
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	config := capture.DefaultPlaywrightConfig()
	if format != "" {
		config.Format = format
	}
	if delay > 0 {
		config.Delay = delay
	}
	if chromeDevtoolsProtocolURL != "" {
		config.ChromeDevtoolsProtocolURL = chromeDevtoolsProtocolURL
	}
	if display := os.Getenv("DISPLAY"); display != "" {
		config.Headless = false
	}
	if viewportWidth > 0 {
		config.ViewportWidth = viewportWidth
	}
	if viewportHeight > 0 {
		config.ViewportHeight = viewportHeight
	}
	if userAgent != "" {
		config.UserAgent = userAgent
	}

	capturer, err := capture.NewPlaywrightCapturer(ctx, config)
	if err != nil {
		log.Fatalf("Failed to create capturer: %v", err)
	}

	p := &pipeline.Pipeline{
		Capturer:         capturer,
		Loader:           &imageio.Loader{Storage: s},
		Storage:          s,
		CaptureExtension: config.Extension(),
	}

	path, img, err := p.Acquire(ctx, pipeline.Source{Ref: url, Capture: true}, capture.Options{
		MaskSelectors: capture.SplitSelectors(maskSelectors),
		Headers:       headers.Map(),
	})
	if err != nil {
		log.Fatalf("Failed to capture screenshot: %v", err)
	}

	bounds := img.Bounds()
	if err := json.NewEncoder(os.Stdout).Encode(CaptureOutput{
		ScreenshotPath: path,
		Width:          bounds.Dx(),
		Height:         bounds.Dy(),
	}); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
