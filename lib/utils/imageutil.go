package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-rod/rasterize/lib/engine"
	"golang.org/x/image/draw"
)

// ImgOption is the option for image processing.
type ImgOption struct {
	Quality int
}

// ImgProcessor is the interface for image processing.
type ImgProcessor interface {
	Encode(img image.Image, opt *ImgOption) ([]byte, error)
	Decode(file io.Reader) (image.Image, error)
}

type jpegProcessor struct{}

func (p jpegProcessor) Encode(img image.Image, opt *ImgOption) ([]byte, error) {
	var buf bytes.Buffer
	var jpegOpt *jpeg.Options
	if opt != nil && opt.Quality > 0 {
		jpegOpt = &jpeg.Options{Quality: opt.Quality}
	}
	err := jpeg.Encode(&buf, img, jpegOpt)
	return buf.Bytes(), err
}

func (p jpegProcessor) Decode(file io.Reader) (image.Image, error) {
	return jpeg.Decode(file)
}

type pngProcessor struct{}

func (p pngProcessor) Encode(img image.Image, _ *ImgOption) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	return buf.Bytes(), err
}

func (p pngProcessor) Decode(file io.Reader) (image.Image, error) {
	return png.Decode(file)
}

// NewImgProcessor create a ImgProcessor by the format.
// webp is not supported because no pure go encoder for it is available.
func NewImgProcessor(format engine.Format) (ImgProcessor, error) {
	switch format {
	case engine.FormatJpeg:
		return &jpegProcessor{}, nil
	case "", engine.FormatPng:
		return &pngProcessor{}, nil
	default:
		return nil, fmt.Errorf("not support format: %v", format)
	}
}

// Thumbnail scales the image to cover a size x size square while keeping the aspect ratio,
// then crops the square from the top-left corner.
func Thumbnail(img []byte, format engine.Format, size int, opt *ImgOption) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid thumbnail size: %d", size)
	}

	processor, err := NewImgProcessor(format)
	if err != nil {
		return nil, err
	}

	src, err := processor.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	scale := math.Max(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	w := coverSide(b.Dx(), scale, size)
	h := coverSide(b.Dy(), scale, size)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Src, nil)

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), scaled, image.Point{}, draw.Src)

	return processor.Encode(out, opt)
}

func coverSide(side int, scale float64, min int) int {
	v := int(math.Round(float64(side) * scale))
	if v < min {
		return min
	}
	return v
}

// ThumbnailPath returns the path of the thumbnail next to p, such as "out/a.png" to "out/a_256.png"
func ThumbnailPath(p string, size int) string {
	ext := filepath.Ext(p)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(p, ext), size, ext)
}
