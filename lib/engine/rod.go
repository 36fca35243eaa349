package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-rod/rasterize/lib/cdp"
	"github.com/go-rod/rasterize/lib/defaults"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
	"github.com/hashicorp/go-multierror"
	"github.com/ysmood/gson"
	"github.com/ysmood/leakless"
)

// Rod engine drives the browser with rod
type Rod struct {
	bin      string
	dir      string
	remote   string
	headless bool
	trace    bool

	browser  *rod.Browser
	launcher *launcher.Launcher
	ws       *cdp.WsConn
}

var _ Engine = &Rod{}

// NewRod with the options from the defaults package
func NewRod() *Rod {
	return &Rod{
		bin:      defaults.Bin,
		dir:      defaults.Dir,
		remote:   defaults.Remote,
		headless: !defaults.Show,
		trace:    defaults.Trace,
	}
}

// Bin set browser executable file path
func (r *Rod) Bin(path string) *Rod {
	r.bin = path
	return r
}

// UserDataDir of the launched browser, a temp dir is used when empty
func (r *Rod) UserDataDir(dir string) *Rod {
	r.dir = dir
	return r
}

// Remote devtools url, such as "ws://127.0.0.1:9222" or "http://127.0.0.1:9222".
// When set, no browser will be launched.
func (r *Rod) Remote(u string) *Rod {
	r.remote = u
	return r
}

// Headless switch
func (r *Rod) Headless(enable bool) *Rod {
	r.headless = enable
	return r
}

// Trace enables the trace log of rod
func (r *Rod) Trace(enable bool) *Rod {
	r.trace = enable
	return r
}

// Connect to the remote browser or launch a local one
func (r *Rod) Connect(ctx context.Context) error {
	browser := rod.New().NoDefaultDevice().Trace(r.trace).Logger(utils.Log(func(msg ...interface{}) {
		logger.Debug(ctx, msg...)
	}))

	if r.remote != "" {
		u, err := launcher.ResolveURL(r.remote)
		if err != nil {
			return fmt.Errorf("resolve remote url %s: %w", r.remote, err)
		}

		client, ws, err := cdp.Client(ctx, u)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", u, err)
		}
		r.ws = ws
		browser = browser.Client(client)
	} else {
		l := launcher.New().
			Headless(r.headless).
			Leakless(leakless.Support())

		if r.bin != "" {
			l = l.Bin(r.bin)
		}
		if r.dir != "" {
			l = l.UserDataDir(r.dir)
		}

		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		logger.Debugf(ctx, "browser launched: %s", u)

		r.launcher = l
		browser = browser.ControlURL(u)
	}

	err := browser.Connect()
	if err != nil {
		_ = r.Close()
		return err
	}

	r.browser = browser
	return nil
}

// Page interface
func (r *Rod) Page(ctx context.Context, viewport Viewport) (Page, error) {
	if r.browser == nil {
		return nil, errors.New("rod engine is not connected")
	}

	p, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewport.Width,
		Height:            viewport.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	return &rodPage{page: p}, nil
}

// Close the connection, the launched browser will be killed and its user data removed.
// A remote browser is left running.
func (r *Rod) Close() error {
	var result *multierror.Error

	if r.browser != nil && r.launcher != nil {
		if err := r.browser.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close browser: %w", err))
		}
	}

	if r.ws != nil {
		r.ws.Close()
	}

	if r.launcher != nil {
		r.launcher.Kill()
		if r.dir == "" {
			r.launcher.Cleanup()
		}
	}

	return result.ErrorOrNil()
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)

	err := page.Navigate(url)

	var navErr *rod.NavigationError
	if errors.As(err, &navErr) {
		return &NavigationError{URL: url, Reason: navErr.Reason}
	}
	if err != nil {
		return err
	}

	return page.WaitLoad()
}

func (p *rodPage) Box(ctx context.Context, selector string) (*Box, error) {
	res, err := p.page.Context(ctx).Eval(BoxJS, selector)
	if err != nil {
		return nil, err
	}

	return ParseBox(res.Value.JSON("", ""))
}

func (p *rodPage) Screenshot(ctx context.Context, format Format, quality int, clip Box) ([]byte, error) {
	req := &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormat(format),
		Clip: &proto.PageViewport{
			X:      clip.Left,
			Y:      clip.Top,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	}

	if format != FormatPng && quality > 0 {
		req.Quality = gson.Int(quality)
	}

	return p.page.Context(ctx).Screenshot(false, req)
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
