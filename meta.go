package rasterize

import (
	"time"

	"github.com/go-rod/rasterize/lib/utils"
	"github.com/tidwall/sjson"
)

// MetaPath of the json sidecar of output
func MetaPath(output string) string {
	return output + ".json"
}

type metaField struct {
	path  string
	value interface{}
}

// Meta returns the json that records how the output was captured
func Meta(req *Request, res *Result, at time.Time) (string, error) {
	fields := []metaField{
		{"url", req.URL},
		{"selector", req.Selector},
		{"output", res.Output},
		{"format", string(res.Format)},
		{"viewport.width", req.Viewport.Width},
		{"viewport.height", req.Viewport.Height},
		{"box.top", res.Box.Top},
		{"box.left", res.Box.Left},
		{"box.width", res.Box.Width},
		{"box.height", res.Box.Height},
		{"fallback", res.Fallback},
		{"size", res.Size},
		{"capturedAt", at.UTC().Format(time.RFC3339)},
	}

	if res.Thumbnail != "" {
		fields = append(fields, metaField{"thumbnail", res.Thumbnail})
	}

	json := "{}"
	for _, f := range fields {
		var err error
		json, err = sjson.Set(json, f.path, f.value)
		if err != nil {
			return "", err
		}
	}

	return json, nil
}

// WriteMeta to path
func WriteMeta(path string, req *Request, res *Result, at time.Time) error {
	json, err := Meta(req, res, at)
	if err != nil {
		return err
	}
	return utils.OutputFile(path, []byte(json))
}
