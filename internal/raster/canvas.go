// Package raster turns screen-space polygons into pixels. It holds the edge
// table scan converter with its depth-buffered and occlusion-culled variants,
// the interval scanline renderer, and the line drawing used for wireframes
// and overlays.
//
// Screen space has x to the right, y down and z in the depth buffer's units,
// smaller meaning nearer. Vertices are rounded to pixel centres; there is no
// sub-pixel coverage.
package raster

import (
	"image/color"
	"math"

	"scanline-renderer/internal/buffer"
	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/hzb"
)

// Canvas is a rectangular window into a frame buffer together with the depth
// buffer that covers it. Depth and HZ are indexed in canvas coordinates; pixel
// writes land at (OffsetX+x, OffsetY+y) in Frame. The buffers belong to the
// caller.
type Canvas struct {
	OffsetX, OffsetY int
	Width, Height    int

	Frame *buffer.FrameBuffer
	Depth *buffer.DepthBuffer
	HZ    *hzb.Tree
}

// NewCanvas covers the top-left corner of frame with depth and builds the
// hierarchical depth structure for it.
func NewCanvas(frame *buffer.FrameBuffer, depth *buffer.DepthBuffer) *Canvas {
	return &Canvas{
		Width:  depth.Width,
		Height: depth.Height,
		Frame:  frame,
		Depth:  depth,
		HZ:     hzb.Build(depth),
	}
}

// Clear fills the canvas with bg and resets every depth to the background.
func (c *Canvas) Clear(bg color.NRGBA) {
	if c.Width > 0 {
		for y := 0; y < c.Height; y++ {
			c.span(0, c.Width-1, y, bg)
		}
	}
	c.ClearDepth()
}

// ClearDepth resets the depth buffer and the hierarchical structure only.
func (c *Canvas) ClearDepth() {
	c.Depth.Clear()
	if c.HZ != nil {
		c.HZ.Clear()
	}
}

func (c *Canvas) set(x, y int, col color.NRGBA) {
	c.Frame.Set(c.OffsetX+x, c.OffsetY+y, col)
}

func (c *Canvas) span(x0, x1, y int, col color.NRGBA) {
	c.Frame.FillSpan(c.OffsetX+x0, c.OffsetX+x1, c.OffsetY+y, col)
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.Width && y < c.Height
}

func (c *Canvas) mustHZ() *hzb.Tree {
	if c.HZ == nil || c.HZ.Len() == 0 {
		panic("raster: canvas has no hierarchical depth structure")
	}
	return c.HZ
}

// Clamp rounds the x/y extent of a screen-space box to pixels and clips it
// to the canvas. It reports false when nothing is left.
func (c *Canvas) Clamp(b geom.AABB) (hzb.Rect, bool) {
	if b.IsEmpty() || c.Width <= 0 || c.Height <= 0 {
		return hzb.Rect{}, false
	}
	x0 := math.Max(math.Round(b.Min[0]), 0)
	x1 := math.Min(math.Round(b.Max[0]), float64(c.Width-1))
	y0 := math.Max(math.Round(b.Min[1]), 0)
	y1 := math.Min(math.Round(b.Max[1]), float64(c.Height-1))
	if !(x0 <= x1 && y0 <= y1) {
		return hzb.Rect{}, false
	}
	return hzb.Rect{XMin: int(x0), XMax: int(x1), YMin: int(y0), YMax: int(y1)}, true
}

// MapColor clamps each channel to [0,1] and quantises it to 8 bits.
func MapColor(c geom.Color) color.NRGBA {
	return color.NRGBA{R: quantize(c[0]), G: quantize(c[1]), B: quantize(c[2]), A: 255}
}

func quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(255.999 * v)
}
