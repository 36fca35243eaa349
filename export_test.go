package rasterize

import (
	"context"
	"time"
)

// Clock replaces the sleep and now functions of the rasterizer
func (r *Rasterizer) Clock(sleep func(context.Context, time.Duration) error, now func() time.Time) *Rasterizer {
	r.sleep = sleep
	r.now = now
	return r
}
