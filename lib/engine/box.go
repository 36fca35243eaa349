package engine

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// Box is a rectangle in page pixels, relative to the top-left corner of the document
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty returns true if the box has no area
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Size in whole pixels, the way the browser rounds the clip
func (b Box) Size() (int, int) {
	return int(math.Round(b.Width)), int(math.Round(b.Height))
}

func (b Box) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", b.Width, b.Height, b.Left, b.Top)
}

// BoxJS returns the box of the element that matches the selector,
// or null when nothing matches. An empty selector means the whole document.
const BoxJS = `(selector) => {
	if (!selector) {
		const doc = document.documentElement
		return {
			top: 0,
			left: 0,
			width: Math.max(doc.scrollWidth, doc.clientWidth),
			height: Math.max(doc.scrollHeight, doc.clientHeight),
		}
	}

	const el = document.querySelector(selector)
	if (!el) return null

	const rect = el.getBoundingClientRect()
	return {
		top: rect.top + window.scrollY,
		left: rect.left + window.scrollX,
		width: rect.width,
		height: rect.height,
	}
}`

// ParseBox from the json returned by BoxJS
func ParseBox(raw string) (*Box, error) {
	res := gjson.Parse(raw)
	if res.Type == gjson.Null || raw == "" {
		return nil, nil
	}

	if !res.IsObject() {
		return nil, fmt.Errorf("unexpected box value: %s", raw)
	}

	box := &Box{}
	for key, ptr := range map[string]*float64{
		"top":    &box.Top,
		"left":   &box.Left,
		"width":  &box.Width,
		"height": &box.Height,
	} {
		v := res.Get(key)
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("box field %q is not a number: %s", key, raw)
		}
		*ptr = v.Float()
	}

	return box, nil
}
