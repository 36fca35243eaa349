package engine_test

import (
	"context"
	"testing"

	"github.com/go-rod/rasterize/lib/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBox(t *testing.T) {
	box, err := engine.ParseBox(`{"top":10.5,"left":20,"width":300,"height":40.4}`)
	require.NoError(t, err)
	assert.Equal(t, &engine.Box{Top: 10.5, Left: 20, Width: 300, Height: 40.4}, box)

	w, h := box.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 40, h)
	assert.False(t, box.Empty())
	assert.Equal(t, "300x40.4+20+10.5", box.String())
}

func TestParseBoxAbsent(t *testing.T) {
	for _, raw := range []string{"null", ""} {
		box, err := engine.ParseBox(raw)
		assert.NoError(t, err)
		assert.Nil(t, box)
	}
}

func TestParseBoxInvalid(t *testing.T) {
	_, err := engine.ParseBox(`[1,2]`)
	assert.Error(t, err)

	_, err = engine.ParseBox(`{"top":1,"left":2,"width":"3"}`)
	assert.Error(t, err)
}

func TestBoxEmpty(t *testing.T) {
	assert.True(t, engine.Box{Width: 0, Height: 10}.Empty())
	assert.True(t, engine.Box{Width: 10, Height: -1}.Empty())
}

func TestOpenUnknown(t *testing.T) {
	_, err := engine.Open(context.Background(), engine.Options{Name: "phantom"})
	assert.EqualError(t, err, "unknown engine: phantom")
}

func TestNavigationError(t *testing.T) {
	err := &engine.NavigationError{URL: "http://a.b", Reason: "net::ERR_NAME_NOT_RESOLVED"}
	assert.Equal(t, "navigation to http://a.b failed: net::ERR_NAME_NOT_RESOLVED", err.Error())
}
