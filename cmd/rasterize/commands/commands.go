// Package commands holds the cobra commands of the rasterize cli.
package commands

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-rod/rasterize"
	"github.com/go-rod/rasterize/lib/config"
	"github.com/go-rod/rasterize/lib/defaults"
	"github.com/go-rod/rasterize/lib/engine"
	"github.com/go-rod/rasterize/lib/launcher"
	"github.com/go-rod/rasterize/lib/server"
	"github.com/spf13/cobra"
)

// Messages printed to stdout, scripts that drive the cli match on them
const (
	MsgDone       = "Done"
	MsgLoadFailed = "Unable to load the address!"
)

var (
	// Access these variables only from a main package or tests:

	LoggerLevel = logger.LevelWarning

	// OpenEngine opens the browser engine
	OpenEngine = engine.Open
)

type options struct {
	config string

	engine engine.Options

	width     int
	height    int
	quality   int
	thumbnail int
	root      string
	meta      bool
}

// NewRoot creates the root command
func NewRoot() *cobra.Command {
	opts := &options{engine: engine.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "rasterize URL filename timeout_ms [selector]",
		Short: "Save a screenshot of a page clipped to the bounding box of one element",
		Long: "Load URL in a headless browser, wait timeout_ms after the page is loaded,\n" +
			"then save the region of the element that matches selector (default \"" + rasterize.DefaultSelector + "\")\n" +
			"to filename. The image format is inferred from the extension of filename.\n" +
			"If no element matches, the whole page is saved.\n\n" +
			"Defaults can also be set by the env var \"" + defaults.EnvName + "\", such as:\n\n" +
			"  " + defaults.EnvName + "=show,engine=chromedp,bin=/usr/bin/chromium",

		// the count is checked by run to print the legacy usage message
		Args: cobra.ArbitraryArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			l := logger.FromCtx(ctx).WithLevel(LoggerLevel)
			ctx = logger.CtxWithLogger(ctx, l)
			cmd.SetContext(ctx)
			logger.Debugf(ctx, "log-level: %v", LoggerLevel)
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.Var(&LoggerLevel, "log-level", "logging level")
	flags.StringVar(&opts.config, "config", "", "path to a yaml config file")
	flags.StringVar(&opts.engine.Name, "engine", opts.engine.Name, "browser engine, rod or chromedp")
	flags.StringVar(&opts.engine.Bin, "bin", opts.engine.Bin, "browser executable path, found or downloaded automatically when empty")
	flags.StringVar(&opts.engine.Dir, "dir", opts.engine.Dir, "user data dir of the launched browser")
	flags.StringVar(&opts.engine.Remote, "remote", opts.engine.Remote, "devtools url of a running browser to use instead of launching one")
	flags.BoolVar(&opts.engine.Show, "show", opts.engine.Show, "show the browser window")
	flags.BoolVar(&opts.engine.Trace, "trace", opts.engine.Trace, "log the cdp traffic of the engine")
	flags.IntVar(&opts.width, "width", engine.DefaultViewport.Width, "viewport width")
	flags.IntVar(&opts.height, "height", engine.DefaultViewport.Height, "viewport height")
	flags.IntVar(&opts.quality, "quality", 0, "quality of jpeg and webp, 0 means the browser default")
	flags.IntVar(&opts.thumbnail, "thumbnail", 0, "also save a square thumbnail of this size next to filename")
	flags.StringVar(&opts.root, "root", "", "serve this dir locally and resolve a URL without scheme against it")
	flags.BoolVar(&opts.meta, "meta", false, "also save a json sidecar that describes the capture")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	req, err := rasterize.ParseArgs(args)
	if rasterize.IsError(err, rasterize.ErrUsage) {
		_, _ = fmt.Fprintln(out, rasterize.Usage)
		return nil
	}
	if err != nil {
		return err
	}

	engineOpts, err := opts.apply(cmd, req, len(args) == 4 && args[3] != "")
	if err != nil {
		return err
	}

	if opts.root != "" {
		srv, err := server.Serve(ctx, opts.root)
		if err != nil {
			return fmt.Errorf("serve %s: %w", opts.root, err)
		}
		defer func() { _ = srv.Close() }()

		req.URL = srv.Resolve(req.URL)
	}

	if launcher.Reap() {
		logger.Debugf(ctx, "zombie reaper started")
	}

	eng, err := OpenEngine(ctx, engineOpts)
	if err != nil {
		return err
	}
	defer closeEngine(ctx, eng)

	res, err := rasterize.New(eng).Rasterize(ctx, req)
	if rasterize.IsError(err, rasterize.ErrNavigation) {
		logger.Infof(ctx, "%v", err)
		_, _ = fmt.Fprintln(out, MsgLoadFailed)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Infof(ctx, "saved %s, box: %s, fallback: %v, size: %d", res.Output, res.Box, res.Fallback, res.Size)

	_, _ = fmt.Fprintln(out, MsgDone)
	return nil
}

// apply the config file and the flags to req, the flags set on the command line win
func (o *options) apply(cmd *cobra.Command, req *rasterize.Request, hasSelector bool) (engine.Options, error) {
	eo := engine.DefaultOptions()

	if o.config != "" {
		c, err := config.Load(o.config)
		if err != nil {
			return eo, err
		}
		applyConfig(c, &eo, req, o, hasSelector)
	}

	flags := cmd.Flags()
	changed := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	changed("engine", func() { eo.Name = o.engine.Name })
	changed("bin", func() { eo.Bin = o.engine.Bin })
	changed("dir", func() { eo.Dir = o.engine.Dir })
	changed("remote", func() { eo.Remote = o.engine.Remote })
	changed("show", func() { eo.Show = o.engine.Show })
	changed("trace", func() { eo.Trace = o.engine.Trace })
	changed("width", func() { req.Viewport.Width = o.width })
	changed("height", func() { req.Viewport.Height = o.height })
	changed("quality", func() { req.Quality = o.quality })
	changed("thumbnail", func() { req.Thumbnail = o.thumbnail })
	changed("meta", func() { req.Meta = o.meta })

	return eo, nil
}

func applyConfig(c *config.Config, eo *engine.Options, req *rasterize.Request, o *options, hasSelector bool) {
	if c.Engine != "" {
		eo.Name = c.Engine
	}
	if c.Bin != "" {
		eo.Bin = c.Bin
	}
	if c.Dir != "" {
		eo.Dir = c.Dir
	}
	if c.Remote != "" {
		eo.Remote = c.Remote
	}
	if c.Show {
		eo.Show = true
	}
	if c.Selector != "" && !hasSelector {
		req.Selector = c.Selector
	}
	if c.Viewport.Width > 0 {
		req.Viewport.Width = c.Viewport.Width
	}
	if c.Viewport.Height > 0 {
		req.Viewport.Height = c.Viewport.Height
	}
	if c.Quality > 0 {
		req.Quality = c.Quality
	}
	if c.Thumbnail > 0 {
		req.Thumbnail = c.Thumbnail
	}
	if c.Meta {
		req.Meta = true
	}
	if c.Root != "" && o.root == "" {
		o.root = c.Root
	}
}

func closeEngine(ctx context.Context, eng engine.Engine) {
	if err := eng.Close(); err != nil {
		logger.Errorf(ctx, "close engine: %v", err)
	}
}
