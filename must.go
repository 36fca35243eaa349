// This file contains the methods that panics when error return value is not nil.
// Their function names are all prefixed with Must.

package rasterize

import (
	"context"

	"github.com/go-rod/rasterize/lib/utils"
)

// MustParseArgs is similar to ParseArgs
func MustParseArgs(args []string) *Request {
	req, err := ParseArgs(args)
	utils.E(err)
	return req
}

// MustRasterize is similar to Rasterize
func (r *Rasterizer) MustRasterize(ctx context.Context, req *Request) *Result {
	res, err := r.Rasterize(ctx, req)
	utils.E(err)
	return res
}
