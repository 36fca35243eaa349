package rasterize_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-rod/rasterize"
	"github.com/go-rod/rasterize/lib/engine"
	"github.com/go-rod/rasterize/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func request(t *testing.T, output string, timeout string) *rasterize.Request {
	return rasterize.MustParseArgs([]string{"http://test.com/a.html", output, timeout})
}

func TestRasterize(t *testing.T) {
	page := newFakePage()
	out := outputPath(t, "a.png")

	start := time.Now()
	res, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, out, "50"))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, []string{
		"navigate http://test.com/a.html",
		"box #problemarea",
		"screenshot png",
		"close",
	}, page.calls)
	assert.Equal(t, engine.DefaultViewport, page.viewport)

	assert.Equal(t, out, res.Output)
	assert.Equal(t, engine.Box{Top: 100, Left: 20, Width: 300, Height: 200}, res.Box)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Thumbnail)
	assert.Empty(t, res.Meta)

	w, h := imageSize(t, out)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestRasterizeWaitsBeforeMeasure(t *testing.T) {
	page := newFakePage()

	var waited time.Duration
	sleep := func(ctx context.Context, d time.Duration) error {
		// nothing is measured before the wait ends
		assert.Equal(t, []string{"navigate http://test.com/a.html"}, page.calls)
		waited = d
		return nil
	}

	r := rasterize.New(&fakeEngine{page: page}).Clock(sleep, time.Now)
	_, err := r.Rasterize(context.Background(), request(t, outputPath(t, "a.png"), "1500"))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, waited)
}

func TestRasterizeNavigationError(t *testing.T) {
	page := newFakePage()
	page.navErr = &engine.NavigationError{URL: "http://test.com/a.html", Reason: "net::ERR_FAILED"}
	out := outputPath(t, "a.png")

	_, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, out, "0"))
	assert.True(t, rasterize.IsError(err, rasterize.ErrNavigation))
	assert.False(t, utils.FileExists(out))
	assert.True(t, page.closed)

	assert.Panics(t, func() {
		rasterize.New(&fakeEngine{page: page}).MustRasterize(context.Background(), request(t, out, "0"))
	})
}

func TestRasterizeOtherNavigateError(t *testing.T) {
	page := newFakePage()
	page.navErr = errFake
	out := outputPath(t, "a.png")

	_, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, out, "0"))
	assert.ErrorIs(t, err, errFake)
	assert.False(t, rasterize.IsError(err, rasterize.ErrNavigation))
	assert.False(t, utils.FileExists(out))
}

func TestRasterizeFallback(t *testing.T) {
	for name, box := range map[string]*engine.Box{
		"absent":    nil,
		"zero area": {Top: 10, Left: 10, Width: 0, Height: 0},
	} {
		t.Run(name, func(t *testing.T) {
			page := newFakePage()
			page.boxes["#problemarea"] = box
			out := outputPath(t, "a.png")

			res, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, out, "0"))
			require.NoError(t, err)

			assert.True(t, res.Fallback)
			assert.Equal(t, engine.Box{Width: 1024, Height: 1500}, res.Box)
			assert.Equal(t, []string{
				"navigate http://test.com/a.html",
				"box #problemarea",
				"box ",
				"screenshot png",
				"close",
			}, page.calls)

			w, h := imageSize(t, out)
			assert.Equal(t, 1024, w)
			assert.Equal(t, 1500, h)
		})
	}
}

func TestRasterizeEmptyDocument(t *testing.T) {
	page := newFakePage()
	page.boxes = map[string]*engine.Box{}
	out := outputPath(t, "a.png")

	_, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, out, "0"))
	assert.Error(t, err)
	assert.False(t, utils.FileExists(out))
}

func TestRasterizeBoxError(t *testing.T) {
	page := newFakePage()
	page.boxErr = errFake

	_, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, outputPath(t, "a.png"), "0"))
	assert.ErrorIs(t, err, errFake)
}

func TestRasterizeCanceledWait(t *testing.T) {
	page := newFakePage()
	out := outputPath(t, "a.png")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := rasterize.New(&fakeEngine{page: page}).Rasterize(ctx, request(t, out, "60000"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, utils.FileExists(out))
	assert.True(t, page.closed)
}

func TestRasterizePageError(t *testing.T) {
	_, err := rasterize.New(&fakeEngine{pageErr: errFake}).Rasterize(context.Background(), request(t, outputPath(t, "a.png"), "0"))
	assert.ErrorIs(t, err, errFake)
}

func TestRasterizeInvalidRequest(t *testing.T) {
	req := request(t, outputPath(t, "a.webp"), "0")
	req.Thumbnail = 64

	// the engine would panic on nil page if it were used
	_, err := rasterize.New(&fakeEngine{}).Rasterize(context.Background(), req)
	assert.True(t, rasterize.IsError(err, rasterize.ErrUnsupportedFormat))
}

func TestRasterizeJpeg(t *testing.T) {
	page := newFakePage()
	out := outputPath(t, "a.jpg")

	res, err := rasterize.New(&fakeEngine{page: page}).Rasterize(context.Background(), request(t, out, "0"))
	require.NoError(t, err)
	assert.Equal(t, engine.FormatJpeg, res.Format)

	w, h := imageSize(t, out)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestRasterizeThumbnailAndMeta(t *testing.T) {
	page := newFakePage()
	out := outputPath(t, "a.png")

	req := request(t, out, "0")
	req.Thumbnail = 64
	req.Meta = true

	at := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	r := rasterize.New(&fakeEngine{page: page}).Clock(func(context.Context, time.Duration) error {
		return nil
	}, func() time.Time { return at })

	res, err := r.Rasterize(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, utils.ThumbnailPath(out, 64), res.Thumbnail)
	w, h := imageSize(t, res.Thumbnail)
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, h)

	assert.Equal(t, out+".json", res.Meta)
	b, err := os.ReadFile(res.Meta)
	require.NoError(t, err)

	meta := gjson.ParseBytes(b)
	assert.Equal(t, "http://test.com/a.html", meta.Get("url").String())
	assert.Equal(t, "#problemarea", meta.Get("selector").String())
	assert.Equal(t, "png", meta.Get("format").String())
	assert.Equal(t, float64(300), meta.Get("box.width").Float())
	assert.Equal(t, float64(100), meta.Get("box.top").Float())
	assert.Equal(t, int64(1024), meta.Get("viewport.width").Int())
	assert.False(t, meta.Get("fallback").Bool())
	assert.Equal(t, int64(res.Size), meta.Get("size").Int())
	assert.Equal(t, res.Thumbnail, meta.Get("thumbnail").String())
	assert.Equal(t, "2020-01-02T03:04:05Z", meta.Get("capturedAt").String())
}
