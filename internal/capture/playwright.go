package capture

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

type PlaywrightConfig struct {
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string

	FullPage bool
	// Format is png or jpeg. png keeps pixels lossless for diffing.
	Format  string
	Quality int

	Timeout time.Duration
	Delay   time.Duration

	Headless                  bool
	ChromeDevtoolsProtocolURL string
}

func DefaultPlaywrightConfig() PlaywrightConfig {
	return PlaywrightConfig{
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		FullPage:       true,
		Format:         "png",
		Quality:        85,
		Timeout:        30 * time.Second,
		Delay:          3 * time.Second,
		Headless:       true,
	}
}

// Extension is the file extension matching the configured screenshot format.
func (c PlaywrightConfig) Extension() string {
	if c.Format == "jpeg" {
		return "jpeg"
	}
	return "png"
}

type playwrightCapturer struct {
	config PlaywrightConfig
}

func NewPlaywrightCapturer(ctx context.Context, p PlaywrightConfig) (Capturer, error) {
	if p.ViewportWidth <= 0 || p.ViewportHeight <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", p.ViewportWidth, p.ViewportHeight)
	}
	return &playwrightCapturer{
		config: p,
	}, nil
}

func (c *playwrightCapturer) Capture(ctx context.Context, url string, opts Options) ([]byte, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := c.browser(pw)
	if err != nil {
		return nil, err
	}
	if c.config.ChromeDevtoolsProtocolURL == "" {
		defer browser.Close()
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  c.config.ViewportWidth,
			Height: c.config.ViewportHeight,
		},
	}
	if c.config.UserAgent != "" {
		contextOptions.UserAgent = playwright.String(c.config.UserAgent)
	}
	if len(opts.Headers) > 0 {
		contextOptions.ExtraHttpHeaders = opts.Headers
	}
	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	defer browserContext.Close()

	page, err := browserContext.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}
	defer page.Close()

	// playwright calls are not context aware; closing the page unblocks them
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			page.Close()
		case <-done:
		}
	}()
	defer close(done)

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(c.config.Timeout.Milliseconds())),
	}); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	if c.config.Delay > 0 {
		timer := time.NewTimer(c.config.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	if len(opts.MaskSelectors) > 0 {
		if err := mask(page, opts.MaskSelectors); err != nil {
			return nil, err
		}
	}

	screenshot, err := page.Screenshot(c.screenshotOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return screenshot, nil
}

func (c *playwrightCapturer) browser(pw *playwright.Playwright) (playwright.Browser, error) {
	if c.config.ChromeDevtoolsProtocolURL != "" {
		browser, err := pw.Chromium.ConnectOverCDP(c.config.ChromeDevtoolsProtocolURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to browser via CDP at %s: %w", c.config.ChromeDevtoolsProtocolURL, err)
		}
		return browser, nil
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.config.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	return browser, nil
}

func (c *playwrightCapturer) screenshotOptions() playwright.PageScreenshotOptions {
	options := playwright.PageScreenshotOptions{
		FullPage:   playwright.Bool(c.config.FullPage),
		Animations: playwright.ScreenshotAnimationsDisabled,
	}
	if c.config.Extension() == "jpeg" {
		options.Type = playwright.ScreenshotTypeJpeg
		if c.config.Quality > 0 {
			options.Quality = playwright.Int(c.config.Quality)
		}
	} else {
		options.Type = playwright.ScreenshotTypePng
	}
	return options
}

func mask(page playwright.Page, selectors []string) error {
	unique := make([]byte, 8)
	if _, err := rand.Read(unique); err != nil {
		return fmt.Errorf("failed to generate mask class name: %w", err)
	}
	className := "boxdiff-mask-" + hex.EncodeToString(unique)

	if _, err := page.Evaluate(maskScript, map[string]any{
		"className": className,
		"selectors": selectors,
	}); err != nil {
		return fmt.Errorf("failed to mask selectors: %w", err)
	}
	return nil
}

const maskScript = `({ className, selectors }) => {
  const style = document.createElement('style');
  style.textContent =
    '.' + className + ' { position: relative !important; }' +
    '.' + className + '::after { content: "" !important; position: absolute !important; inset: 0 !important;' +
    ' background-color: black !important; z-index: 2147483646 !important; pointer-events: none !important; }';
  document.head.appendChild(style);
  for (const selector of selectors) {
    for (const element of document.querySelectorAll(selector)) {
      element.classList.add(className);
    }
  }
}`
