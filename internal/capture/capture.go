// Package capture renders web pages into screenshots that feed the box diff.
package capture

import (
	"context"
	"strings"
)

type Options struct {
	// MaskSelectors are CSS selectors painted solid black before the screenshot,
	// so dynamic content does not show up as a difference.
	MaskSelectors []string
	Headers       map[string]string
}

type Capturer interface {
	Capture(ctx context.Context, url string, opts Options) ([]byte, error)
}

// Headers collects repeated -H "Key: Value" flags.
type Headers []string

func (h *Headers) String() string {
	return strings.Join(*h, ", ")
}

func (h *Headers) Set(value string) error {
	*h = append(*h, value)
	return nil
}

// Map drops entries without a colon.
func (h Headers) Map() map[string]string {
	if len(h) == 0 {
		return nil
	}
	result := make(map[string]string, len(h))
	for _, header := range h {
		key, value, ok := strings.Cut(header, ":")
		if !ok {
			continue
		}
		result[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return result
}

// SplitSelectors splits a comma separated selector list, skipping blanks.
func SplitSelectors(s string) []string {
	var selectors []string
	for _, selector := range strings.Split(s, ",") {
		if selector = strings.TrimSpace(selector); selector != "" {
			selectors = append(selectors, selector)
		}
	}
	return selectors
}
