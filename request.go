package rasterize

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rasterize/lib/engine"
)

// DefaultSelector targets the problem area of an exercise page
const DefaultSelector = "#problemarea"

// Usage of the positional arguments
const Usage = "Usage: rasterize URL filename timeout_ms [selector]"

// Request describes what to render and where to save it
type Request struct {
	URL    string
	Output string

	// Timeout to wait after the page is loaded and before the capture
	Timeout time.Duration

	// Selector of the element to clip the screenshot to
	Selector string

	Viewport engine.Viewport

	// Format is inferred from the extension of Output
	Format engine.Format

	// Quality for jpeg and webp, 0 means the engine default
	Quality int

	// Thumbnail size, 0 disables the thumbnail
	Thumbnail int

	// Meta enables the json sidecar next to Output
	Meta bool
}

// ParseArgs parses the positional arguments "URL filename timeout_ms [selector]"
func ParseArgs(args []string) (*Request, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, &Error{Code: ErrUsage, Details: len(args)}
	}

	ms, err := strconv.Atoi(args[2])
	if err != nil || ms < 0 {
		return nil, &Error{Code: ErrInvalidTimeout, Err: err, Details: args[2]}
	}

	selector := DefaultSelector
	if len(args) == 4 && args[3] != "" {
		selector = args[3]
	}

	return &Request{
		URL:      args[0],
		Output:   args[1],
		Timeout:  time.Duration(ms) * time.Millisecond,
		Selector: selector,
		Viewport: engine.DefaultViewport,
		Format:   FormatOf(args[1]),
	}, nil
}

// FormatOf returns the image format by the file extension, png is used if it's unknown
func FormatOf(path string) engine.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return engine.FormatJpeg
	case ".webp":
		return engine.FormatWebp
	default:
		return engine.FormatPng
	}
}

// Validate the request before any browser work starts
func (r *Request) Validate() error {
	if r.Viewport.Width <= 0 || r.Viewport.Height <= 0 {
		return &Error{Code: ErrUsage, Details: fmt.Sprintf("invalid viewport %dx%d", r.Viewport.Width, r.Viewport.Height)}
	}

	if r.Quality < 0 || r.Quality > 100 {
		return &Error{Code: ErrUsage, Details: fmt.Sprintf("quality must be within [0, 100]: %d", r.Quality)}
	}

	if r.Thumbnail < 0 {
		return &Error{Code: ErrUsage, Details: fmt.Sprintf("invalid thumbnail size: %d", r.Thumbnail)}
	}

	if r.Thumbnail > 0 && r.Format == engine.FormatWebp {
		return &Error{Code: ErrUnsupportedFormat, Details: "thumbnail of webp"}
	}

	return nil
}
