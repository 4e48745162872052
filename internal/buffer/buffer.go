// Package buffer holds the raster targets the renderer draws into. They are
// owned by the caller; rendering code only reads and writes their contents.
package buffer

import (
	"image"
	"image/color"
)

// FrameBuffer holds the rendering target as a flat slice for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates an opaque black frame buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*4),
	}
	fb.Clear(color.NRGBA{A: 255})
	return fb
}

// Set writes one pixel. Coordinates must be inside the buffer.
func (fb *FrameBuffer) Set(x, y int, c color.NRGBA) {
	i := (y*fb.Width + x) * 4
	fb.Pix[i] = c.R
	fb.Pix[i+1] = c.G
	fb.Pix[i+2] = c.B
	fb.Pix[i+3] = c.A
}

// At returns the pixel at (x, y).
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	i := (y*fb.Width + x) * 4
	return color.NRGBA{R: fb.Pix[i], G: fb.Pix[i+1], B: fb.Pix[i+2], A: fb.Pix[i+3]}
}

// FillSpan writes c to the inclusive span [x0, x1] of row y.
func (fb *FrameBuffer) FillSpan(x0, x1, y int, c color.NRGBA) {
	row := fb.Pix[(y*fb.Width+x0)*4 : (y*fb.Width+x1+1)*4]
	for i := 0; i < len(row); i += 4 {
		row[i] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
	}
}

// Clear fills every pixel with c.
func (fb *FrameBuffer) Clear(c color.NRGBA) {
	if fb.Height == 0 || fb.Width == 0 {
		return
	}
	fb.FillSpan(0, fb.Width-1, 0, c)
	row := fb.Pix[:fb.Width*4]
	for y := 1; y < fb.Height; y++ {
		copy(fb.Pix[y*fb.Width*4:], row)
	}
}

// Image wraps the pixels in an NRGBA image without copying.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Pix,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// DepthBuffer is a dense row-major depth array. Smaller values are nearer.
type DepthBuffer struct {
	Width      int
	Height     int
	Background float64
	Z          []float64 // len = W*H
}

// NewDepthBuffer allocates a depth buffer cleared to background.
func NewDepthBuffer(w, h int, background float64) *DepthBuffer {
	db := &DepthBuffer{
		Width:      w,
		Height:     h,
		Background: background,
		Z:          make([]float64, w*h),
	}
	db.Clear()
	return db
}

func (db *DepthBuffer) At(x, y int) float64 {
	return db.Z[y*db.Width+x]
}

func (db *DepthBuffer) Set(x, y int, z float64) {
	db.Z[y*db.Width+x] = z
}

// Clear resets every depth to the background value.
func (db *DepthBuffer) Clear() {
	for i := range db.Z {
		db.Z[i] = db.Background
	}
}
