// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview rasterizes returned SVG text into PNG thumbnails for
// inline display in the web UI.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultMaxDim is the bounding box a thumbnail is fitted into, in pixels.
const DefaultMaxDim = 400

// Thumbnail parses svg and renders it as a PNG fitting inside a
// maxDim x maxDim box with the aspect ratio preserved. A maxDim of zero or
// less means DefaultMaxDim. Unparseable SVG is an error, which doubles as a
// well-formedness check on what the backend returned.
func Thumbnail(svg []byte, maxDim int) ([]byte, error) {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing SVG: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}

	var width, height int
	if w >= h {
		width = maxDim
		height = int(float64(maxDim) * h / w)
	} else {
		height = maxDim
		width = int(float64(maxDim) * w / h)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
