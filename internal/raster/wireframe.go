package raster

import (
	"image/color"

	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/hzb"
)

// Line draws a Bresenham line between two pixels. Pixels outside the canvas
// are skipped.
func Line(c *Canvas, x0, y0, x1, y1 int, col color.NRGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if c.inside(x0, y0) {
			c.set(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Wireframe outlines every polygon in its own colour. Lines are drawn as a
// single segment and points as one pixel. No depth test is done.
func Wireframe(c *Canvas, vertices []geom.Vertex, polygons []geom.Polygon) {
	for i := range polygons {
		p := &polygons[i]
		col := MapColor(p.Color)
		n := len(p.Vertices)
		switch n {
		case 0:
			continue
		case 1:
			x, y := vertices[p.Vertices[0]].RoundXY()
			if c.inside(x, y) {
				c.set(x, y, col)
			}
			continue
		case 2:
			n = 1
		}
		for k := 0; k < n; k++ {
			x0, y0 := vertices[p.Vertices[k]].RoundXY()
			x1, y1 := vertices[p.Vertices[(k+1)%len(p.Vertices)]].RoundXY()
			Line(c, x0, y0, x1, y1, col)
		}
	}
}

// Rect outlines r.
func Rect(c *Canvas, r hzb.Rect, col color.NRGBA) {
	Line(c, r.XMin, r.YMin, r.XMax, r.YMin, col)
	Line(c, r.XMax, r.YMin, r.XMax, r.YMax, col)
	Line(c, r.XMax, r.YMax, r.XMin, r.YMax, col)
	Line(c, r.XMin, r.YMax, r.XMin, r.YMin, col)
}

// ShowDepth replaces the canvas pixels with the depth buffer as grey
// levels. The nearest stored depth is white and background is black.
func ShowDepth(c *Canvas) {
	bg := c.Depth.Background
	near := bg
	for _, z := range c.Depth.Z {
		near = min(near, z)
	}
	span := bg - near
	black := color.NRGBA{A: 255}
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			z := c.Depth.At(x, y)
			if z >= bg || span <= 0 {
				c.set(x, y, black)
				continue
			}
			v := 0.2 + 0.8*(bg-z)/span
			c.set(x, y, MapColor(geom.Color{v, v, v}))
		}
	}
}
