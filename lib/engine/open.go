package engine

import (
	"context"
	"fmt"

	"github.com/go-rod/rasterize/lib/defaults"
)

// Names of the available engines
const (
	NameRod      = "rod"
	NameChromedp = "chromedp"
)

// Options to open an engine
type Options struct {
	Name   string
	Bin    string
	Dir    string
	Remote string
	Show   bool
	Trace  bool
}

// DefaultOptions from the defaults package
func DefaultOptions() Options {
	return Options{
		Name:   defaults.Engine,
		Bin:    defaults.Bin,
		Dir:    defaults.Dir,
		Remote: defaults.Remote,
		Show:   defaults.Show,
		Trace:  defaults.Trace,
	}
}

// Open the engine by name and connect it
func Open(ctx context.Context, opts Options) (Engine, error) {
	switch opts.Name {
	case "", NameRod:
		r := NewRod().
			Bin(opts.Bin).
			UserDataDir(opts.Dir).
			Remote(opts.Remote).
			Headless(!opts.Show).
			Trace(opts.Trace)
		if err := r.Connect(ctx); err != nil {
			return nil, err
		}
		return r, nil

	case NameChromedp:
		c := NewChromedp().
			Bin(opts.Bin).
			UserDataDir(opts.Dir).
			Remote(opts.Remote).
			Headless(!opts.Show)
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown engine: %s", opts.Name)
	}
}
