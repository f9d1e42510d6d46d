package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

var (
	// ErrNotSquare is returned when the pixel count has no integer square root.
	ErrNotSquare = errors.New("pixel count is not a perfect square")
	// ErrNoPixels is returned for an empty pixel list.
	ErrNoPixels = errors.New("no pixels")
)

// ParseColor decodes an ARGB hex value such as "FF3A7BD5". Empty or malformed
// input is transparent. Values shorter than eight digits have a zero alpha byte,
// so "FF0000" is also transparent. Every transparent value is the zero color.
func ParseColor(s string) color.NRGBA {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "#")
	if s == "" || len(s) > 8 {
		return color.NRGBA{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v>>24 == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Native draws the pixels on a square canvas at their original size. Pixel i lands
// at (i mod side, i div side).
func Native(pixels []string) (*image.NRGBA, error) {
	if len(pixels) == 0 {
		return nil, ErrNoPixels
	}
	side := int(math.Sqrt(float64(len(pixels))))
	for side*side > len(pixels) {
		side--
	}
	for (side+1)*(side+1) <= len(pixels) {
		side++
	}
	if side*side != len(pixels) {
		return nil, fmt.Errorf("%w: %d", ErrNotSquare, len(pixels))
	}

	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i, p := range pixels {
		img.SetNRGBA(i%side, i/side, ParseColor(p))
	}
	return img, nil
}

// Resize scales src to width x height with nearest neighbour sampling.
func Resize(src image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Crop copies the region r of src onto a new canvas of r's size with r.Min at the origin.
func Crop(src image.Image, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(src.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// Rasterize renders pixels at width x height and trims crop pixels from the right
// and bottom edges. A zero crop returns the scaled image unchanged.
func Rasterize(pixels []string, width, height, crop int) (*image.NRGBA, error) {
	native, err := Native(pixels)
	if err != nil {
		return nil, err
	}
	return Render(native, width, height, crop), nil
}

// Render scales an already decoded canvas and applies the crop.
func Render(native image.Image, width, height, crop int) *image.NRGBA {
	img := native
	if b := native.Bounds(); b.Dx() != width || b.Dy() != height {
		img = Resize(native, width, height)
	}
	if crop > 0 {
		return Crop(img, image.Rect(0, 0, width-crop, height-crop))
	}
	if out, ok := img.(*image.NRGBA); ok {
		return out
	}
	return Crop(img, img.Bounds())
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
