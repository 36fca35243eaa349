// Package engine abstracts the browser that loads and renders a page.
// Two implementations are provided, one on top of rod and one on top of chromedp.
package engine

import (
	"context"
	"fmt"
)

// Format of the captured image, the values match the DevTools protocol enum
type Format string

const (
	// FormatPng is lossless and the default
	FormatPng Format = "png"
	// FormatJpeg supports quality
	FormatJpeg Format = "jpeg"
	// FormatWebp supports quality
	FormatWebp Format = "webp"
)

// Viewport is the size of the virtual browser window
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultViewport used when nothing else is specified
var DefaultViewport = Viewport{Width: 1024, Height: 768}

// Engine creates pages
type Engine interface {
	// Page opens a blank page with the viewport applied
	Page(ctx context.Context, viewport Viewport) (Page, error)

	// Close the engine and the browser it owns
	Close() error
}

// Page is a single tab
type Page interface {
	// Navigate to the url and wait for the load event.
	// A failed load must be reported as *NavigationError.
	Navigate(ctx context.Context, url string) error

	// Box of the first element that matches the css selector.
	// It returns nil without error if no element matches.
	// If the selector is empty the box of the whole document is returned.
	Box(ctx context.Context, selector string) (*Box, error)

	// Screenshot of the region clip
	Screenshot(ctx context.Context, format Format, quality int, clip Box) ([]byte, error)

	Close() error
}

// NavigationError is returned when the page fails to load
type NavigationError struct {
	URL    string
	Reason string
}

// Error interface
func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %s", e.URL, e.Reason)
}
