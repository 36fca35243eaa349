// Package rasterize loads a page in a browser, waits for a while, and saves a screenshot
// of the page clipped to the bounding box of one element.
package rasterize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-rod/rasterize/lib/engine"
	"github.com/go-rod/rasterize/lib/utils"
)

// Rasterizer captures pages with an engine.
// The engine is owned by the caller, Rasterizer never closes it.
type Rasterizer struct {
	engine engine.Engine
	sleep  func(context.Context, time.Duration) error
	now    func() time.Time
}

// New Rasterizer
func New(e engine.Engine) *Rasterizer {
	return &Rasterizer{
		engine: e,
		sleep:  utils.Sleep,
		now:    time.Now,
	}
}

// Result of a capture
type Result struct {
	Output string
	Format engine.Format

	// Box is the clip region of the screenshot
	Box engine.Box

	// Fallback is true when no visible element matched the selector
	// and the whole document was captured instead.
	Fallback bool

	// Size of the output file in bytes
	Size int

	// Thumbnail path, empty if not generated
	Thumbnail string

	// Meta path of the json sidecar, empty if not generated
	Meta string
}

// Rasterize the page of req.URL into req.Output.
// The steps run one after another: open the page, navigate, wait req.Timeout,
// measure the element, capture the clip, write the file.
// If the page fails to load an *Error with code ErrNavigation is returned and nothing is written.
func (r *Rasterizer) Rasterize(ctx context.Context, req *Request) (*Result, error) {
	err := req.Validate()
	if err != nil {
		return nil, err
	}

	page, err := r.engine.Page(ctx, req.Viewport)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debugf(ctx, "close page: %v", err)
		}
	}()

	logger.Debugf(ctx, "navigate to %s", req.URL)
	err = page.Navigate(ctx, req.URL)
	var navErr *engine.NavigationError
	if errors.As(err, &navErr) {
		return nil, &Error{Code: ErrNavigation, Err: err, Details: req.URL}
	}
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "wait %v", req.Timeout)
	err = r.sleep(ctx, req.Timeout)
	if err != nil {
		return nil, err
	}

	box, fallback, err := r.clip(ctx, page, req.Selector)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "capture %s as %s", box, req.Format)
	bin, err := page.Screenshot(ctx, req.Format, req.Quality, *box)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}

	err = utils.OutputFile(req.Output, bin)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Output:   req.Output,
		Format:   req.Format,
		Box:      *box,
		Fallback: fallback,
		Size:     len(bin),
	}

	if req.Thumbnail > 0 {
		res.Thumbnail, err = writeThumbnail(req, bin)
		if err != nil {
			return nil, err
		}
	}

	if req.Meta {
		res.Meta = MetaPath(req.Output)
		err = WriteMeta(res.Meta, req, res, r.now())
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// clip returns the box of the selector, or the box of the whole document
// if no element matches or the element has no area.
func (r *Rasterizer) clip(ctx context.Context, page engine.Page, selector string) (*engine.Box, bool, error) {
	box, err := page.Box(ctx, selector)
	if err != nil {
		return nil, false, fmt.Errorf("measure %s: %w", selector, err)
	}

	if box != nil && !box.Empty() {
		return box, false, nil
	}

	logger.Warnf(ctx, "no visible element matches %q, capturing the full page", selector)

	doc, err := page.Box(ctx, "")
	if err != nil {
		return nil, false, fmt.Errorf("measure document: %w", err)
	}
	if doc == nil || doc.Empty() {
		return nil, false, errors.New("the document has no area to capture")
	}

	return doc, true, nil
}

func writeThumbnail(req *Request, bin []byte) (string, error) {
	thumb, err := utils.Thumbnail(bin, req.Format, req.Thumbnail, &utils.ImgOption{Quality: req.Quality})
	if err != nil {
		return "", fmt.Errorf("thumbnail: %w", err)
	}

	p := utils.ThumbnailPath(req.Output, req.Thumbnail)
	return p, utils.OutputFile(p, thumb)
}
