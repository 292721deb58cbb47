package kite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ErrEmptyExtent is returned when a vector document has no drawable size.
var ErrEmptyExtent = errors.New("kite: svg has no drawable extent")

// Decoder turns a serialized vector document into a bitmap.
type Decoder interface {
	Decode(ctx context.Context, svg []byte) (*image.RGBA, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(ctx context.Context, svg []byte) (*image.RGBA, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(ctx context.Context, svg []byte) (*image.RGBA, error) {
	return f(ctx, svg)
}

// SVGDecoder rasterizes SVG with oksvg at the document's viewBox size times
// Scale. A zero Scale means 1. Elements oksvg cannot draw, such as <text> or
// <image>, fail the decode instead of being dropped.
type SVGDecoder struct {
	Scale float64
}

// Decode implements Decoder.
func (d SVGDecoder) Decode(ctx context.Context, svg []byte) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}
	scale := d.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyExtent
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// Fetcher retrieves a vector resource by path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// FSFetcher reads resources from a file system, such as an embed.FS or
// os.DirFS.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.FS, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return data, nil
}
