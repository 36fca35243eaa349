package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-rod/rasterize/lib/defaults"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/hashicorp/go-multierror"
)

// Chromedp engine drives the browser with chromedp
type Chromedp struct {
	bin      string
	dir      string
	remote   string
	headless bool

	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

var _ Engine = &Chromedp{}

// NewChromedp with the options from the defaults package
func NewChromedp() *Chromedp {
	return &Chromedp{
		bin:      defaults.Bin,
		dir:      defaults.Dir,
		remote:   defaults.Remote,
		headless: !defaults.Show,
	}
}

// Bin set browser executable file path
func (c *Chromedp) Bin(path string) *Chromedp {
	c.bin = path
	return c
}

// UserDataDir of the launched browser
func (c *Chromedp) UserDataDir(dir string) *Chromedp {
	c.dir = dir
	return c
}

// Remote devtools url, when set no browser will be launched
func (c *Chromedp) Remote(u string) *Chromedp {
	c.remote = u
	return c
}

// Headless switch
func (c *Chromedp) Headless(enable bool) *Chromedp {
	c.headless = enable
	return c
}

// Connect to the remote browser or launch a local one
func (c *Chromedp) Connect(ctx context.Context) error {
	var allocCtx context.Context

	if c.remote != "" {
		u, err := launcher.ResolveURL(c.remote)
		if err != nil {
			return fmt.Errorf("resolve remote url %s: %w", c.remote, err)
		}
		allocCtx, c.cancelAlloc = chromedp.NewRemoteAllocator(context.Background(), u)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", c.headless))
		if c.bin != "" {
			opts = append(opts, chromedp.ExecPath(c.bin))
		}
		if c.dir != "" {
			opts = append(opts, chromedp.UserDataDir(c.dir))
		}
		allocCtx, c.cancelAlloc = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	c.browserCtx, c.cancelBrowser = chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debugf(ctx, format, args...)
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			logger.Errorf(ctx, format, args...)
		}),
	)

	// the first run starts the browser
	err := chromedp.Run(c.browserCtx)
	if err != nil {
		_ = c.Close()
		return fmt.Errorf("start browser: %w", err)
	}

	return nil
}

// Page interface
func (c *Chromedp) Page(ctx context.Context, viewport Viewport) (Page, error) {
	if c.browserCtx == nil {
		return nil, errors.New("chromedp engine is not connected")
	}

	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	p := &chromedpPage{ctx: tabCtx, cancel: cancel}

	err := p.run(ctx, chromedp.EmulateViewport(int64(viewport.Width), int64(viewport.Height)))
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	return p, nil
}

// Close the browser
func (c *Chromedp) Close() error {
	var result *multierror.Error

	if c.browserCtx != nil {
		if err := chromedp.Cancel(c.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
			result = multierror.Append(result, fmt.Errorf("close browser: %w", err))
		}
		c.cancelBrowser()
	}

	if c.cancelAlloc != nil {
		c.cancelAlloc()
	}

	return result.ErrorOrNil()
}

type chromedpPage struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run the actions on the tab, the tab is closed if ctx is done before they finish
func (p *chromedpPage) run(ctx context.Context, actions ...chromedp.Action) error {
	stop := context.AfterFunc(ctx, p.cancel)
	defer stop()

	return chromedp.Run(p.ctx, actions...)
}

func (p *chromedpPage) Navigate(ctx context.Context, url string) error {
	stop := context.AfterFunc(ctx, p.cancel)
	defer stop()

	_, err := chromedp.RunResponse(p.ctx, chromedp.Navigate(url))
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return &NavigationError{URL: url, Reason: err.Error()}
}

func (p *chromedpPage) Box(ctx context.Context, selector string) (*Box, error) {
	arg, err := json.Marshal(selector)
	if err != nil {
		return nil, err
	}

	var raw string
	err = p.run(ctx, chromedp.Evaluate(fmt.Sprintf("JSON.stringify((%s)(%s))", BoxJS, arg), &raw))
	if err != nil {
		return nil, err
	}

	return ParseBox(raw)
}

func (p *chromedpPage) Screenshot(ctx context.Context, format Format, quality int, clip Box) ([]byte, error) {
	var buf []byte

	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormat(format)).
			WithClip(&page.Viewport{
				X:      clip.Left,
				Y:      clip.Top,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			WithCaptureBeyondViewport(true)

		if format != FormatPng && quality > 0 {
			params = params.WithQuality(int64(quality))
		}

		var err error
		buf, err = params.Do(ctx)
		return err
	}))

	return buf, err
}

func (p *chromedpPage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
