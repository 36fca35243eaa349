package rasterize_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-rod/rasterize/lib/engine"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeEngine renders blank images of the clip size
type fakeEngine struct {
	page    *fakePage
	pageErr error
}

func (e *fakeEngine) Page(_ context.Context, viewport engine.Viewport) (engine.Page, error) {
	if e.pageErr != nil {
		return nil, e.pageErr
	}
	e.page.viewport = viewport
	return e.page, nil
}

func (e *fakeEngine) Close() error {
	return nil
}

type fakePage struct {
	lock sync.Mutex

	viewport engine.Viewport
	navErr   error
	boxErr   error

	// selector to box, the "" key is the document
	boxes map[string]*engine.Box

	calls  []string
	closed bool
}

func newFakePage() *fakePage {
	return &fakePage{
		boxes: map[string]*engine.Box{
			"":             {Width: 1024, Height: 1500},
			"#problemarea": {Top: 100, Left: 20, Width: 300, Height: 200},
		},
	}
}

func (p *fakePage) call(name string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.calls = append(p.calls, name)
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.call("navigate " + url)
	return p.navErr
}

func (p *fakePage) Box(ctx context.Context, selector string) (*engine.Box, error) {
	p.call("box " + selector)
	if p.boxErr != nil {
		return nil, p.boxErr
	}
	return p.boxes[selector], nil
}

func (p *fakePage) Screenshot(ctx context.Context, format engine.Format, quality int, clip engine.Box) ([]byte, error) {
	p.call("screenshot " + string(format))

	w, h := clip.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	var buf bytes.Buffer
	var err error
	switch format {
	case engine.FormatJpeg:
		err = jpeg.Encode(&buf, img, nil)
	case engine.FormatPng:
		err = png.Encode(&buf, img)
	default:
		// the content doesn't matter for formats we can't encode
		_, err = buf.WriteString(string(format))
	}
	return buf.Bytes(), err
}

func (p *fakePage) Close() error {
	p.call("close")
	p.closed = true
	return nil
}

var errFake = errors.New("fake")

// decode the image file and return its size
func imageSize(t *testing.T, path string) (int, int) {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	conf, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return conf.Width, conf.Height
}

func outputPath(t *testing.T, name string) string {
	return filepath.Join(t.TempDir(), "out", name)
}
