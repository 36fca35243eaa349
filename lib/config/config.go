// Package config loads the optional yaml config file of the cli.
// Any value left empty in the file keeps the default of the cli.
//
// Example:
//
//	engine: chromedp
//	bin: /usr/bin/chromium
//	selector: "#problemarea"
//	viewport:
//	  width: 1024
//	  height: 768
//	quality: 90
//	thumbnail: 256
//	root: ./khan-exercises
//	meta: true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-rod/rasterize/lib/engine"
	"gopkg.in/yaml.v3"
)

// Config file content
type Config struct {
	Engine    string          `yaml:"engine"`
	Bin       string          `yaml:"bin"`
	Dir       string          `yaml:"dir"`
	Remote    string          `yaml:"remote"`
	Show      bool            `yaml:"show"`
	Selector  string          `yaml:"selector"`
	Viewport  engine.Viewport `yaml:"viewport"`
	Quality   int             `yaml:"quality"`
	Thumbnail int             `yaml:"thumbnail"`
	Root      string          `yaml:"root"`
	Meta      bool            `yaml:"meta"`
}

// Load the config file, unknown keys are errors
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse the yaml content
func Parse(b []byte) (*Config, error) {
	c := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	err := dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return nil, fmt.Errorf("invalid viewport: %dx%d", c.Viewport.Width, c.Viewport.Height)
	}

	if c.Quality < 0 || c.Quality > 100 {
		return nil, fmt.Errorf("quality must be within [0, 100]: %d", c.Quality)
	}

	return c, nil
}
