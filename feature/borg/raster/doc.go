// Package raster turns on-chain pixel data into PNG images.
//
// Pixels arrive as a flat list of ARGB hex strings describing a square canvas,
// row by row. The canvas is scaled with nearest neighbour sampling so the art
// stays pixel-crisp, then optionally cropped to drop the border that larger
// resolutions reserve.
package raster
